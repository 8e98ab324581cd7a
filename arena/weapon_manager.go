package arena

import (
	"log"

	"github.com/milk9111/brawl/events"
)

// WeaponEvent is the payload for weapon:equipped and weapon:unlocked.
type WeaponEvent struct {
	ID   string
	Name string
}

// WeaponManager tracks which weapons are unlocked, which one is equipped,
// and runs the timed swap between them. Swaps are not instant: the new
// weapon takes effect only when the swap duration elapses.
type WeaponManager struct {
	set      *WeaponSet
	unlocked map[string]bool
	equipped *Weapon

	swapping    bool
	pending     *Weapon
	swapElapsed float64
	swapMs      float64

	// OnUnequip/OnEquip run at the moment a completed swap hands the old
	// weapon off and brings the new one up.
	OnUnequip func(w *Weapon)
	OnEquip   func(w *Weapon)

	bus *events.Bus
}

// NewWeaponManager starts with the given weapon unlocked and equipped.
func NewWeaponManager(set *WeaponSet, starting string, swapMs float64, bus *events.Bus) *WeaponManager {
	m := &WeaponManager{
		set:      set,
		unlocked: map[string]bool{},
		swapMs:   swapMs,
		bus:      bus,
	}
	if swapMs <= 0 {
		m.swapMs = 400
	}
	first := starting
	if !m.Unlock(first) {
		// Fall back to the first weapon in the roster.
		ids := set.IDs()
		if len(ids) == 0 {
			return m
		}
		first = ids[0]
		log.Printf("weapons: starting weapon %q unavailable, using %q", starting, first)
		m.Unlock(first)
	}
	m.equip(set.ByID(first))
	return m
}

func (m *WeaponManager) equip(w *Weapon) {
	if w == nil {
		return
	}
	m.equipped = w
	if m.OnEquip != nil {
		m.OnEquip(w)
	}
	m.bus.Publish(events.WeaponEquipped, WeaponEvent{ID: w.ID(), Name: w.Name()})
}

// Unlock adds the weapon to the unlocked set. Unknown ids are logged and
// rejected; unlocking twice is a harmless no-op.
func (m *WeaponManager) Unlock(id string) bool {
	if m == nil {
		return false
	}
	w := m.set.ByID(id)
	if w == nil {
		log.Printf("weapons: unlock of unknown weapon %q", id)
		return false
	}
	if m.unlocked[id] {
		return false
	}
	m.unlocked[id] = true
	m.bus.Publish(events.WeaponUnlocked, WeaponEvent{ID: w.ID(), Name: w.Name()})
	return true
}

func (m *WeaponManager) IsUnlocked(id string) bool {
	return m != nil && m.unlocked[id]
}

// UnlockedIDs returns the unlocked weapons in roster order.
func (m *WeaponManager) UnlockedIDs() []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, id := range m.set.IDs() {
		if m.unlocked[id] {
			out = append(out, id)
		}
	}
	return out
}

// StartSwap begins a timed swap to the named weapon. It fails while a
// swap is already running, for locked or unknown weapons, and always
// fails for the weapon already equipped.
func (m *WeaponManager) StartSwap(id string) bool {
	if m == nil || m.swapping {
		return false
	}
	if !m.unlocked[id] {
		log.Printf("weapons: swap to locked or unknown weapon %q", id)
		return false
	}
	if m.equipped != nil && m.equipped.ID() == id {
		return false
	}
	m.pending = m.set.ByID(id)
	m.swapping = true
	m.swapElapsed = 0
	return true
}

// CancelSwap abandons a running swap; the equipped weapon is unchanged.
func (m *WeaponManager) CancelSwap() {
	if m == nil || !m.swapping {
		return
	}
	m.swapping = false
	m.pending = nil
	m.swapElapsed = 0
}

// Update advances a running swap and completes it once the swap duration
// elapses, firing the unequip/equip hooks around the exchange.
func (m *WeaponManager) Update(now, delta float64) {
	if m == nil || !m.swapping {
		return
	}
	m.swapElapsed += delta
	if m.swapElapsed < m.swapMs {
		return
	}
	old := m.equipped
	next := m.pending
	m.swapping = false
	m.pending = nil
	m.swapElapsed = 0
	if m.OnUnequip != nil && old != nil {
		m.OnUnequip(old)
	}
	m.equip(next)
}

// SwapNext starts a swap to the next unlocked weapon, wrapping around the
// roster. It fails with fewer than two weapons unlocked.
func (m *WeaponManager) SwapNext() bool { return m.swapCyclic(1) }

// SwapPrev is SwapNext in the other direction.
func (m *WeaponManager) SwapPrev() bool { return m.swapCyclic(-1) }

func (m *WeaponManager) swapCyclic(dir int) bool {
	if m == nil || m.equipped == nil {
		return false
	}
	ids := m.UnlockedIDs()
	if len(ids) < 2 {
		return false
	}
	cur := -1
	for i, id := range ids {
		if id == m.equipped.ID() {
			cur = i
			break
		}
	}
	if cur < 0 {
		return false
	}
	next := ids[(cur+dir+len(ids))%len(ids)]
	return m.StartSwap(next)
}

// QuickSwap starts a swap to the unlocked weapon at the given slot index
// (0-based, roster order).
func (m *WeaponManager) QuickSwap(index int) bool {
	if m == nil {
		return false
	}
	ids := m.UnlockedIDs()
	if index < 0 || index >= len(ids) {
		return false
	}
	return m.StartSwap(ids[index])
}

func (m *WeaponManager) Equipped() *Weapon {
	if m == nil {
		return nil
	}
	return m.equipped
}

func (m *WeaponManager) Swapping() bool { return m != nil && m.swapping }

func (m *WeaponManager) Pending() *Weapon {
	if m == nil {
		return nil
	}
	return m.pending
}

// SwapProgress reports 0..1 through the current swap, 0 when idle.
func (m *WeaponManager) SwapProgress() float64 {
	if m == nil || !m.swapping || m.swapMs <= 0 {
		return 0
	}
	p := m.swapElapsed / m.swapMs
	if p > 1 {
		p = 1
	}
	return p
}
