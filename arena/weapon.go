package arena

import (
	"fmt"
	"log"

	"github.com/milk9111/brawl/prefabs"
)

// AttackSlot names one of the seven attack inputs a weapon fills.
type AttackSlot string

const (
	SlotLight1  AttackSlot = "light1"
	SlotLight2  AttackSlot = "light2"
	SlotLight3  AttackSlot = "light3"
	SlotHeavy   AttackSlot = "heavy"
	SlotAir     AttackSlot = "air"
	SlotSpin    AttackSlot = "spin"
	SlotSpecial AttackSlot = "special"
)

// AttackSlots lists every slot in canonical order.
var AttackSlots = []AttackSlot{SlotLight1, SlotLight2, SlotLight3, SlotHeavy, SlotAir, SlotSpin, SlotSpecial}

func validSlot(name string) bool {
	for _, slot := range AttackSlots {
		if string(slot) == name {
			return true
		}
	}
	return false
}

// AttackData is one slot's attack: startup/active/recovery phases in
// milliseconds, damage and reaction numbers, and chaining rules.
type AttackData struct {
	Slot         AttackSlot
	Startup      float64
	Active       float64
	Recovery     float64
	Damage       int
	Reach        float64
	KnockbackX   float64
	KnockbackY   float64
	Hitstun      float64
	Hitstop      float64
	ComboInto    []AttackSlot
	CancelWindow float64
	MeterGain    int
}

// Duration is the full attack length across all three phases.
func (a AttackData) Duration() float64 {
	return a.Startup + a.Active + a.Recovery
}

// InCancelWindow reports whether elapsed has reached the trailing
// fraction of the attack during which chaining is allowed.
func (a AttackData) InCancelWindow(elapsed float64) bool {
	if a.CancelWindow <= 0 {
		return false
	}
	return elapsed >= a.Duration()*(1-a.CancelWindow)
}

// CanChainInto reports whether this attack may combo into slot.
func (a AttackData) CanChainInto(slot AttackSlot) bool {
	for _, next := range a.ComboInto {
		if next == slot {
			return true
		}
	}
	return false
}

// Weapon is an immutable attack roster identified by ID.
type Weapon struct {
	id      string
	name    string
	attacks map[AttackSlot]AttackData
}

// NewWeapon builds a weapon from its spec. Unknown slot names are logged
// and skipped; an empty id is an error.
func NewWeapon(spec prefabs.WeaponSpec) (*Weapon, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("arena: weapon with empty id")
	}
	w := &Weapon{
		id:      spec.ID,
		name:    spec.Name,
		attacks: make(map[AttackSlot]AttackData, len(spec.Slots)),
	}
	for slotName, atk := range spec.Slots {
		if !validSlot(slotName) {
			log.Printf("weapon: %s has unknown slot %q, skipping", spec.ID, slotName)
			continue
		}
		slot := AttackSlot(slotName)
		data := AttackData{
			Slot:         slot,
			Startup:      atk.StartupMs,
			Active:       atk.ActiveMs,
			Recovery:     atk.RecoveryMs,
			Damage:       atk.Damage,
			Reach:        atk.Reach,
			KnockbackX:   atk.KnockbackX,
			KnockbackY:   atk.KnockbackY,
			Hitstun:      atk.HitstunMs,
			Hitstop:      atk.HitstopMs,
			CancelWindow: atk.CancelWindow,
			MeterGain:    atk.MeterGain,
		}
		for _, next := range atk.ComboInto {
			if !validSlot(next) {
				log.Printf("weapon: %s slot %s chains to unknown slot %q, skipping", spec.ID, slot, next)
				continue
			}
			data.ComboInto = append(data.ComboInto, AttackSlot(next))
		}
		w.attacks[slot] = data
	}
	return w, nil
}

func (w *Weapon) ID() string { return w.id }

func (w *Weapon) Name() string { return w.name }

// Attack returns the slot's attack data, false if the weapon leaves the
// slot empty.
func (w *Weapon) Attack(slot AttackSlot) (AttackData, bool) {
	if w == nil {
		return AttackData{}, false
	}
	data, ok := w.attacks[slot]
	return data, ok
}

// WeaponSet is the immutable weapon lookup built once at load.
type WeaponSet struct {
	byID  map[string]*Weapon
	order []string
}

// NewWeaponSet builds the roster from the weapons spec. Weapons that fail
// to build are logged and dropped; an empty roster is an error.
func NewWeaponSet(spec *prefabs.WeaponsSpec) (*WeaponSet, error) {
	if spec == nil {
		return nil, fmt.Errorf("arena: nil weapons spec")
	}
	set := &WeaponSet{byID: map[string]*Weapon{}}
	for _, ws := range spec.Weapons {
		w, err := NewWeapon(ws)
		if err != nil {
			log.Printf("weapon: skipping %q: %v", ws.Name, err)
			continue
		}
		if _, dup := set.byID[w.ID()]; dup {
			log.Printf("weapon: duplicate id %q, keeping the first", w.ID())
			continue
		}
		set.byID[w.ID()] = w
		set.order = append(set.order, w.ID())
	}
	if len(set.order) == 0 {
		return nil, fmt.Errorf("arena: weapons spec has no usable weapons")
	}
	return set, nil
}

func (s *WeaponSet) ByID(id string) *Weapon {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

// IDs returns the roster in spec order.
func (s *WeaponSet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
