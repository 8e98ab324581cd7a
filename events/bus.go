// Package events carries cross-component notifications through a
// synchronous publish/subscribe bus. Handlers run inline on the
// publishing goroutine in subscription order.
package events

// Topics published by the simulation. Payload types live next to their
// publishers.
const (
	EnemyDamaged  = "enemy:damaged"
	EnemyKilled   = "enemy:killed"
	EnemyDied     = "enemy:died"
	EnemyExploded = "enemy:exploded"

	BossDamaged     = "boss:damaged"
	BossPhaseChange = "boss:phaseChange"
	BossStaggered   = "boss:staggered"
	BossIntroEnd    = "boss:introEnd"
	BossDefeated    = "boss:defeated"

	PlayerDamaged = "player:damaged"
	PlayerDied    = "player:died"

	WeaponEquipped = "weapon:equipped"
	WeaponUnlocked = "weapon:unlocked"
)

// Event pairs a topic with an arbitrary payload.
type Event struct {
	Topic string
	Data  any
}

// Handler receives events for topics it subscribed to.
type Handler func(evt Event)

// Bus fans events out to subscribed handlers. The zero value is not
// usable; call NewBus.
type Bus struct {
	handlers map[string][]Handler
	catchAll []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Subscribe registers h for a single topic. Handlers cannot be removed;
// subscribers that outlive their interest should ignore events instead.
func (b *Bus) Subscribe(topic string, h Handler) {
	if b == nil || topic == "" || h == nil {
		return
	}
	b.handlers[topic] = append(b.handlers[topic], h)
}

// SubscribeAll registers h for every topic, after topic-specific handlers.
func (b *Bus) SubscribeAll(h Handler) {
	if b == nil || h == nil {
		return
	}
	b.catchAll = append(b.catchAll, h)
}

// Publish delivers the event synchronously to all matching handlers.
func (b *Bus) Publish(topic string, data any) {
	if b == nil || topic == "" {
		return
	}
	evt := Event{Topic: topic, Data: data}
	for _, h := range b.handlers[topic] {
		h(evt)
	}
	for _, h := range b.catchAll {
		h(evt)
	}
}
