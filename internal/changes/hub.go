// Package changes notifies subscribers when stored entity sets change so
// they can re-query.
package changes

import (
	"sort"
	"sync"

	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"gorm.io/gorm"
)

// Entity names a stored entity set. Values match table names.
type Entity string

const (
	Foods             Entity = "foods"
	Servings          Entity = "servings"
	RecipeIngredients Entity = "recipe_ingredients"
	MealEntries       Entity = "meal_entries"
	StreakDays        Entity = "streak_days"
	Favorites         Entity = "favorites"
	FoodUsages        Entity = "food_usages"
	Settings          Entity = "settings"
)

// Notification lists the entity sets touched since the subscriber last
// received from its channel.
type Notification struct {
	Entities []Entity `json:"entities"`
}

func (n Notification) Has(e Entity) bool {
	for _, x := range n.Entities {
		if x == e {
			return true
		}
	}
	return false
}

func (n Notification) with(entities []Entity) Notification {
	set := make(map[Entity]struct{}, len(n.Entities)+len(entities))
	for _, e := range n.Entities {
		set[e] = struct{}{}
	}
	for _, e := range entities {
		set[e] = struct{}{}
	}
	out := make([]Entity, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Notification{Entities: out}
}

// Hub fans change notifications out to subscriptions.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe returns a subscription for the given entity sets, or for all of
// them when none are named.
func (h *Hub) Subscribe(entities ...Entity) *Subscription {
	s := &Subscription{
		hub: h,
		ch:  make(chan Notification, 1),
	}
	if len(entities) > 0 {
		s.filter = make(map[Entity]struct{}, len(entities))
		for _, e := range entities {
			s.filter[e] = struct{}{}
		}
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish notifies every subscription interested in any of entities. It
// never blocks: undelivered notifications are merged into the pending one.
func (h *Hub) Publish(entities ...Entity) {
	if len(entities) == 0 {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		s.deliver(entities)
	}
}

// Subscribers reports the number of open subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Subscription receives coalesced notifications until closed.
type Subscription struct {
	hub    *Hub
	filter map[Entity]struct{}

	mu     sync.Mutex
	ch     chan Notification
	closed bool
}

// C returns the notification channel. It is closed by Close.
func (s *Subscription) C() <-chan Notification {
	return s.ch
}

func (s *Subscription) deliver(entities []Entity) {
	matched := entities
	if s.filter != nil {
		matched = nil
		for _, e := range entities {
			if _, ok := s.filter[e]; ok {
				matched = append(matched, e)
			}
		}
		if len(matched) == 0 {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// Only publishers send, and they hold s.mu, so after draining the
	// buffer the send below cannot block.
	var pending Notification
	select {
	case pending = <-s.ch:
	default:
	}
	s.ch <- pending.with(matched)
}

// Close unsubscribes and closes the channel. It is safe to call twice.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s)
	s.hub.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// RegisterCallbacks publishes the table of every successful create, update
// and delete issued through db.
func RegisterCallbacks(db *gorm.DB, h *Hub) error {
	publish := func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.Table == "" || tx.RowsAffected == 0 {
			return
		}
		h.Publish(Entity(tx.Statement.Table))
	}

	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("changes:after_create", publish); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("changes:after_update", publish); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("changes:after_delete", publish); err != nil {
		return err
	}
	logger.Debug("Change callbacks registered")
	return nil
}
