// Package combat defines factions, hit payloads, the axis-aligned hit and
// hurt boxes actors expose, and the resolver that matches them up once per
// simulation tick.
package combat

import "github.com/milk9111/brawl/common"

// Faction identifies which team an actor fights for. Hits never land on
// the attacker's own faction; neutral damages everyone.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionEnemy
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	default:
		return "neutral"
	}
}

// CanHit reports whether an attack from f may damage target.
func (f Faction) CanHit(target Faction) bool {
	if f == FactionNeutral || target == FactionNeutral {
		return true
	}
	return f != target
}

// Damage describes what a hitbox inflicts on contact. Knockback is a
// velocity delta in px/s; Hitstun and Hitstop are milliseconds.
type Damage struct {
	Amount     int
	KnockbackX float64
	KnockbackY float64
	Hitstun    float64
	// Repeat is the minimum time before the same hitbox can damage the
	// same target again. Zero uses DefaultRepeat.
	Repeat    float64
	Hitstop   float64
	MeterGain int
	// MultiHit lets one hitbox damage several targets in a single tick.
	MultiHit bool
}

// DefaultRepeat spaces repeated applications of a persistent hitbox.
const DefaultRepeat = 250.0

// Hit carries one resolved contact to the defender. The damage actually
// applied is passed separately so effects like distance falloff or
// partial blocks can adjust it without rewriting the payload.
type Hit struct {
	Damage
	AttackerID int
	HitboxID   string
	Faction    Faction
	// OriginX/Y locate the attack's source, used for directional blocks
	// and knockback away from explosions.
	OriginX float64
	OriginY float64
}

// Hitbox is an offensive box. Inactive boxes are ignored by the resolver.
type Hitbox struct {
	ID      string
	OwnerID int
	Faction Faction
	Rect    common.Rect
	Damage  Damage
	Active  bool
}

// Hurtbox is a defensive box. Disabled boxes cannot be hit.
type Hurtbox struct {
	ID      string
	OwnerID int
	Faction Faction
	Rect    common.Rect
	Enabled bool
}
