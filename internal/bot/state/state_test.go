package state

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exercise(t *testing.T, m StateManager) {
	t.Helper()
	const chat = int64(42)

	if got := m.GetUserState(chat); got != None {
		t.Errorf("initial state = %q, want none", got)
	}
	m.SetUserState(chat, WaitingForAmount)
	if got := m.GetUserState(chat); got != WaitingForAmount {
		t.Errorf("state = %q", got)
	}

	m.SetTempData(chat, KeyFoodID, "p-bread")
	m.SetTempData(chat, KeyServing, "slice")
	if v, ok := m.GetTempData(chat, KeyFoodID); !ok || v != "p-bread" {
		t.Errorf("food id = %q %v", v, ok)
	}
	if _, ok := m.GetTempData(chat+1, KeyFoodID); ok {
		t.Error("temp data leaked to another chat")
	}

	Reset(m, chat)
	if got := m.GetUserState(chat); got != None {
		t.Errorf("state after reset = %q", got)
	}
	if _, ok := m.GetTempData(chat, KeyServing); ok {
		t.Error("temp data survived reset")
	}
}

func TestManager(t *testing.T) {
	exercise(t, NewManager())
}

func TestRedisManager(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := NewRedisManager(client)
	exercise(t, m)

	m.SetUserState(7, WaitingForSearch)
	if ttl := mr.TTL(stateKey(7)); ttl != stateTTL {
		t.Errorf("state ttl = %v, want %v", ttl, stateTTL)
	}
}

func TestRedisManagerFallsBackWhenDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	m := NewRedisManager(client)

	mr.Close()
	m.SetUserState(1, WaitingForMeal)
	if got := m.GetUserState(1); got != None {
		t.Errorf("state with redis down = %q, want none", got)
	}
}
