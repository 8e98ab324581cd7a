package combat

// Health tracks hit points for an actor. Damage is rejected while dead or
// during invulnerability frames; death fires exactly once no matter how
// much overkill the final hit carries.
type Health struct {
	Max     int
	Current int
	// IFrames counts down invulnerability in milliseconds.
	IFrames float64
	Dead    bool

	OnDamage func(h *Health, hit Hit)
	OnDeath  func(h *Health, hit Hit)
}

func NewHealth(max int) *Health {
	if max < 1 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// ApplyDamage subtracts amount and reports whether the hit landed.
func (h *Health) ApplyDamage(amount int, hit Hit) bool {
	if h == nil || h.Dead || h.IFrames > 0 || amount <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, hit)
	}
	if h.Current == 0 && !h.Dead {
		h.Dead = true
		if h.OnDeath != nil {
			h.OnDeath(h, hit)
		}
	}
	return true
}

// StartIFrames grants at least ms of invulnerability; it never shortens a
// longer window already running.
func (h *Health) StartIFrames(ms float64) {
	if h == nil || ms <= 0 {
		return
	}
	if ms > h.IFrames {
		h.IFrames = ms
	}
}

// Tick advances the invulnerability countdown.
func (h *Health) Tick(delta float64) {
	if h == nil || h.IFrames <= 0 {
		return
	}
	h.IFrames -= delta
	if h.IFrames < 0 {
		h.IFrames = 0
	}
}

func (h *Health) Heal(amount int) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

func (h *Health) IsAlive() bool { return h != nil && !h.Dead }

func (h *Health) Invulnerable() bool { return h != nil && h.IFrames > 0 }

// Fraction returns current health as a 0..1 share of max.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}
