package changes

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func receive(t *testing.T, s *Subscription) Notification {
	t.Helper()
	select {
	case n, ok := <-s.C():
		if !ok {
			t.Fatal("channel closed")
		}
		return n
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
	return Notification{}
}

func assertEmpty(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case n := <-s.C():
		t.Fatalf("unexpected notification %v", n)
	default:
	}
}

func TestPublishCoalesces(t *testing.T) {
	h := NewHub()
	s := h.Subscribe()
	defer s.Close()

	h.Publish(MealEntries)
	h.Publish(StreakDays)
	h.Publish(MealEntries)

	n := receive(t, s)
	if len(n.Entities) != 2 || !n.Has(MealEntries) || !n.Has(StreakDays) {
		t.Errorf("got %v, want meal_entries and streak_days", n.Entities)
	}
	assertEmpty(t, s)
}

func TestSubscribeFilters(t *testing.T) {
	h := NewHub()
	s := h.Subscribe(Favorites)
	defer s.Close()

	h.Publish(Foods, MealEntries)
	assertEmpty(t, s)

	h.Publish(Foods, Favorites)
	n := receive(t, s)
	if len(n.Entities) != 1 || n.Entities[0] != Favorites {
		t.Errorf("got %v, want only favorites", n.Entities)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	h := NewHub()
	s := h.Subscribe()
	s.Close()
	s.Close()

	h.Publish(Foods)
	if _, ok := <-s.C(); ok {
		t.Error("expected closed channel")
	}
	if h.Subscribers() != 0 {
		t.Errorf("subscribers = %d", h.Subscribers())
	}
}

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func TestRegisterCallbacksPublishesTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&note{}); err != nil {
		t.Fatal(err)
	}

	h := NewHub()
	if err := RegisterCallbacks(db, h); err != nil {
		t.Fatal(err)
	}
	s := h.Subscribe()
	defer s.Close()

	n := note{Body: "a"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatal(err)
	}
	if got := receive(t, s); !got.Has("notes") {
		t.Errorf("create: got %v", got.Entities)
	}

	db.Model(&note{}).Where("id = ?", 999).Update("body", "x")
	assertEmpty(t, s)

	db.Delete(&note{}, n.ID)
	if got := receive(t, s); !got.Has("notes") {
		t.Errorf("delete: got %v", got.Entities)
	}
}
