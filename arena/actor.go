package arena

import (
	"math"

	"github.com/milk9111/brawl/combat"
)

// Target is what enemies and the boss hunt, usually the player.
type Target interface {
	ActorID() int
	Position() (x, y float64)
	Alive() bool
	Hurtboxes() []combat.Hurtbox
	CanBeHit() bool
	TakeDamage(amount int, hit combat.Hit)
}

var nextActorID int

func newActorID() int {
	nextActorID++
	return nextActorID
}

// distanceTo measures from (x, y) to the target's center. With no target
// it reports math.MaxFloat64 so range checks simply never pass.
func distanceTo(x, y float64, target Target) (dx, dy, dist float64) {
	if target == nil {
		return 0, 0, math.MaxFloat64
	}
	tx, ty := target.Position()
	dx = tx - x
	dy = ty - y
	return dx, dy, math.Hypot(dx, dy)
}
