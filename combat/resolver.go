package combat

// Source exposes an actor's offensive boxes to the resolver.
type Source interface {
	ActorID() int
	Hitboxes() []Hitbox
}

// Target is anything the resolver can damage.
type Target interface {
	ActorID() int
	Hurtboxes() []Hurtbox
	CanBeHit() bool
	TakeDamage(amount int, hit Hit)
}

type hitKey struct {
	attackerID int
	hitboxID   string
	targetID   int
}

type comboKey struct {
	attackerID int
	targetID   int
}

type comboStreak struct {
	count  int
	lastAt float64
}

// Resolver matches active hitboxes against enabled hurtboxes and applies
// damage. It remembers recent contacts so a hitbox that stays overlapped
// does not re-hit every tick, and scales damage down over rapid
// consecutive hits from the same attacker on the same target.
type Resolver struct {
	// ComboScale holds damage multipliers indexed by streak position;
	// hits past the end reuse the final entry. Empty means no scaling.
	ComboScale []float64
	// ComboWindow is how long (ms) a streak survives between hits.
	ComboWindow float64
	// OnHitstop, when set, receives the hitstop request of each landed hit.
	OnHitstop func(ms float64)
	// OnHit, when set, observes every landed hit after damage is applied.
	OnHit func(hit Hit)

	lastHit map[hitKey]float64
	streaks map[comboKey]*comboStreak
}

func NewResolver() *Resolver {
	return &Resolver{
		ComboWindow: 1200,
		lastHit:     map[hitKey]float64{},
		streaks:     map[comboKey]*comboStreak{},
	}
}

// Resolve tests every active hitbox of src against each target and applies
// damage for new overlaps. It returns the number of hits applied.
func (r *Resolver) Resolve(now float64, src Source, targets ...Target) int {
	if r == nil || src == nil {
		return 0
	}
	applied := 0
	for _, hb := range src.Hitboxes() {
		if !hb.Active {
			continue
		}
		for _, target := range targets {
			if target == nil || target.ActorID() == src.ActorID() || target.ActorID() == hb.OwnerID {
				continue
			}
			if !hb.Faction.CanHit(factionOf(target)) {
				continue
			}
			if !target.CanBeHit() {
				continue
			}
			if !r.overlaps(hb, target) {
				continue
			}
			key := hitKey{attackerID: hb.OwnerID, hitboxID: hb.ID, targetID: target.ActorID()}
			repeat := hb.Damage.Repeat
			if repeat <= 0 {
				repeat = DefaultRepeat
			}
			if last, ok := r.lastHit[key]; ok && now-last < repeat {
				continue
			}
			r.lastHit[key] = now

			hit := Hit{
				Damage:     hb.Damage,
				AttackerID: hb.OwnerID,
				HitboxID:   hb.ID,
				Faction:    hb.Faction,
				OriginX:    hb.Rect.CenterX(),
				OriginY:    hb.Rect.CenterY(),
			}
			amount := r.scaledDamage(now, hb.OwnerID, target.ActorID(), hb.Damage.Amount)
			target.TakeDamage(amount, hit)
			applied++
			if r.OnHit != nil {
				r.OnHit(hit)
			}
			if r.OnHitstop != nil && hb.Damage.Hitstop > 0 {
				r.OnHitstop(hb.Damage.Hitstop)
			}
			if !hb.Damage.MultiHit {
				break
			}
		}
	}
	r.prune(now)
	return applied
}

func (r *Resolver) overlaps(hb Hitbox, target Target) bool {
	for _, hurt := range target.Hurtboxes() {
		if !hurt.Enabled {
			continue
		}
		if hb.Rect.Intersects(hurt.Rect) {
			return true
		}
	}
	return false
}

// factionOf infers the defending faction from the first hurtbox; targets
// with no boxes defend as neutral and are hittable by everyone.
func factionOf(target Target) Faction {
	boxes := target.Hurtboxes()
	if len(boxes) == 0 {
		return FactionNeutral
	}
	return boxes[0].Faction
}

func (r *Resolver) scaledDamage(now float64, attackerID, targetID, amount int) int {
	if len(r.ComboScale) == 0 {
		return amount
	}
	key := comboKey{attackerID: attackerID, targetID: targetID}
	streak := r.streaks[key]
	if streak == nil || now-streak.lastAt > r.ComboWindow {
		streak = &comboStreak{}
		r.streaks[key] = streak
	}
	idx := streak.count
	if idx >= len(r.ComboScale) {
		idx = len(r.ComboScale) - 1
	}
	streak.count++
	streak.lastAt = now
	scaled := int(float64(amount) * r.ComboScale[idx])
	if scaled < 0 {
		scaled = 0
	}
	return scaled
}

// prune drops stale bookkeeping so long sessions do not accumulate one
// entry per hitbox/target pair forever.
func (r *Resolver) prune(now float64) {
	if len(r.lastHit) > 2048 {
		for key, at := range r.lastHit {
			if now-at > 10_000 {
				delete(r.lastHit, key)
			}
		}
	}
	if len(r.streaks) > 512 {
		for key, streak := range r.streaks {
			if now-streak.lastAt > r.ComboWindow*4 {
				delete(r.streaks, key)
			}
		}
	}
}
