package arena

import (
	"math"
	"testing"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/prefabs"
)

// fakeTarget stands in for the player in enemy and boss tests.
type fakeTarget struct {
	id       int
	x, y     float64
	w, h     float64
	alive    bool
	hittable bool

	damage int
	hits   []combat.Hit
}

func newFakeTarget(x, y float64) *fakeTarget {
	return &fakeTarget{id: 9001, x: x, y: y, w: 28, h: 44, alive: true, hittable: true}
}

func (t *fakeTarget) ActorID() int { return t.id }

func (t *fakeTarget) Position() (float64, float64) { return t.x, t.y }

func (t *fakeTarget) Alive() bool { return t.alive }

func (t *fakeTarget) CanBeHit() bool { return t.alive && t.hittable }

func (t *fakeTarget) Hurtboxes() []combat.Hurtbox {
	return []combat.Hurtbox{{
		ID:      "target",
		OwnerID: t.id,
		Faction: combat.FactionPlayer,
		Rect:    common.Centered(t.x, t.y, t.w, t.h),
		Enabled: true,
	}}
}

func (t *fakeTarget) TakeDamage(amount int, hit combat.Hit) {
	t.damage += amount
	t.hits = append(t.hits, hit)
}

func swarmerSpec() prefabs.ArchetypeSpec {
	return prefabs.ArchetypeSpec{
		Name:           "swarmer",
		Archetype:      ArchetypeSwarmer,
		Health:         3,
		Width:          24,
		Height:         32,
		MoveSpeed:      60,
		ChaseSpeed:     140,
		DetectionRange: 200,
		AttackRange:    40,
		PatrolDistance: 80,
		CooldownMs:     1200,
		HitstunMs:      100,
		FadeMs:         600,
		Attack: prefabs.MeleeSpec{
			Damage:     1,
			WindupMs:   300,
			ActiveMs:   100,
			RecoveryMs: 200,
			Reach:      30,
			KnockbackX: 120,
			HitstunMs:  100,
		},
	}
}

func spawnTestEnemy(t *testing.T, spec prefabs.ArchetypeSpec, x, y float64, target Target) (*Enemy, *fakeBody, *events.Bus) {
	t.Helper()
	body := newFakeBody(x, y)
	bus := events.NewBus()
	e := newEnemy(body, bus, EnemyConfig{Spec: spec, X: x, Y: y, Target: target})
	return e, body, bus
}

func TestEnemyIdlePausesThenPatrols(t *testing.T) {
	e, body, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, nil)
	if got := e.StateName(); got != stateIdle {
		t.Fatalf("initial state = %q, want %q", got, stateIdle)
	}

	e.Update(0, enemyIdleMs-1)
	if got := e.StateName(); got != stateIdle {
		t.Fatalf("state = %q before the idle pause ends, want %q", got, stateIdle)
	}

	e.Update(0, 16)
	if got := e.StateName(); got != statePatrol {
		t.Fatalf("state = %q after the idle pause, want %q", got, statePatrol)
	}

	e.Update(0, 16)
	if body.vx == 0 {
		t.Fatal("patrolling enemy is not walking")
	}
}

func TestEnemyDetectsAndChases(t *testing.T) {
	target := newFakeTarget(250, 100)
	e, body, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, target)

	// 150px away with 200px detection: seen immediately.
	e.Update(0, 16)
	if got := e.StateName(); got != stateChase {
		t.Fatalf("state = %q with target in detection range, want %q", got, stateChase)
	}

	e.Update(0, 16)
	if body.vx <= 0 {
		t.Fatalf("chase velocity = %v, want positive toward the target", body.vx)
	}
	if e.FacingLeft() {
		t.Fatal("enemy faces away from the target it chases")
	}
}

func TestEnemyGivesUpChaseAfterLosingSight(t *testing.T) {
	target := newFakeTarget(250, 100)
	e, _, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, target)
	e.Update(0, 16)
	if e.StateName() != stateChase {
		t.Fatal("enemy did not start chasing")
	}

	// Move the target out of detection range; sight loss accumulates.
	target.x = 5000
	for i := 0; i < 11; i++ {
		e.Update(0, 200)
	}
	if got := e.StateName(); got != statePatrol {
		t.Fatalf("state = %q after losing sight past the limit, want %q", got, statePatrol)
	}
}

func TestEnemyAttackPhases(t *testing.T) {
	target := newFakeTarget(130, 100)
	e, _, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, target)

	e.Update(0, 16) // idle -> chase
	e.Update(0, 16) // chase -> attack (in range, cooldown clear)
	if got := e.StateName(); got != stateAttack {
		t.Fatalf("state = %q, want %q", got, stateAttack)
	}

	e.Update(0, 299)
	if len(e.Hitboxes()) != 0 {
		t.Fatal("hitbox active during windup")
	}

	e.Update(0, 2)
	boxes := e.Hitboxes()
	if len(boxes) != 1 || !boxes[0].Active {
		t.Fatal("hitbox not armed at the active phase")
	}
	if boxes[0].Rect.X <= 100 {
		t.Fatalf("hitbox at x=%v, want in front of the enemy", boxes[0].Rect.X)
	}

	e.Update(0, 100)
	if len(e.Hitboxes()) != 0 {
		t.Fatal("hitbox still active in recovery")
	}

	e.Update(0, 200)
	if got := e.StateName(); got != stateChase {
		t.Fatalf("state = %q after the attack, want %q", got, stateChase)
	}

	// Cooldown keeps the enemy from attacking again immediately.
	e.Update(0, 16)
	if got := e.StateName(); got != stateChase {
		t.Fatalf("state = %q during cooldown, want %q", got, stateChase)
	}
}

func TestEnemyHitstunInterruptsAttack(t *testing.T) {
	target := newFakeTarget(130, 100)
	e, _, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, target)
	e.Update(0, 16)
	e.Update(0, 16)
	e.Update(0, 320) // into the active phase
	if e.StateName() != stateAttack {
		t.Fatal("enemy not attacking")
	}

	e.TakeDamage(1, combat.Hit{Damage: combat.Damage{Amount: 1, Hitstun: 150}, OriginX: 130})
	if got := e.StateName(); got != stateHitstun {
		t.Fatalf("state = %q after a hit, want %q", got, stateHitstun)
	}
	if len(e.Hitboxes()) != 0 {
		t.Fatal("attack hitbox survived the interruption")
	}

	// The stun drains per tick, then the enemy resumes chasing.
	e.Update(0, 150)
	if got := e.StateName(); got != stateChase {
		t.Fatalf("state = %q after hitstun drained, want %q", got, stateChase)
	}
}

func TestEnemyHitstunDefaultsFromConfig(t *testing.T) {
	e, _, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, nil)
	e.TakeDamage(1, combat.Hit{Damage: combat.Damage{Amount: 1}, OriginX: 130})
	if e.hitstunRemaining != 100 {
		t.Fatalf("hitstunRemaining = %v, want the configured 100", e.hitstunRemaining)
	}
}

func TestEnemyKnockbackPushesAwayFromOrigin(t *testing.T) {
	e, body, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, nil)
	e.TakeDamage(1, combat.Hit{Damage: combat.Damage{Amount: 1, KnockbackX: 120}, OriginX: 130})
	if body.vx >= 0 {
		t.Fatalf("knockback vx = %v from a hit on the right, want negative", body.vx)
	}

	e2, body2, _ := spawnTestEnemy(t, swarmerSpec(), 100, 100, nil)
	e2.TakeDamage(1, combat.Hit{Damage: combat.Damage{Amount: 1, KnockbackX: 120}, OriginX: 50})
	if body2.vx <= 0 {
		t.Fatalf("knockback vx = %v from a hit on the left, want positive", body2.vx)
	}
}

func TestEnemyOverkillDiesExactlyOnce(t *testing.T) {
	e, body, bus := spawnTestEnemy(t, swarmerSpec(), 100, 100, nil)
	var killed, died, damaged int
	bus.Subscribe(events.EnemyKilled, func(events.Event) { killed++ })
	bus.Subscribe(events.EnemyDied, func(events.Event) { died++ })
	bus.Subscribe(events.EnemyDamaged, func(events.Event) { damaged++ })

	e.TakeDamage(12, combat.Hit{Damage: combat.Damage{Amount: 12}, OriginX: 0})
	if e.health.Current != 0 {
		t.Fatalf("health = %d after overkill, want 0", e.health.Current)
	}
	if e.Alive() {
		t.Fatal("enemy still alive at zero health")
	}
	if got := e.StateName(); got != stateDead {
		t.Fatalf("state = %q, want %q", got, stateDead)
	}
	if body.enabled {
		t.Fatal("dead enemy body still simulating")
	}

	// More damage must be swallowed without a second death.
	e.TakeDamage(5, combat.Hit{Damage: combat.Damage{Amount: 5}})
	if killed != 1 || died != 1 {
		t.Fatalf("killed=%d died=%d, want exactly one of each", killed, died)
	}
	if damaged != 1 {
		t.Fatalf("damaged events = %d, want 1", damaged)
	}
}

func TestEnemyFadesOutAfterDeath(t *testing.T) {
	spec := swarmerSpec()
	e, _, _ := spawnTestEnemy(t, spec, 100, 100, nil)
	e.TakeDamage(99, combat.Hit{Damage: combat.Damage{Amount: 99}})

	e.Update(0, spec.FadeMs/2)
	if e.Destroyed() {
		t.Fatal("enemy destroyed before the fade finished")
	}
	if a := e.Alpha(); a <= 0 || a >= 1 {
		t.Fatalf("alpha = %v mid-fade, want between 0 and 1", a)
	}

	e.Update(0, spec.FadeMs/2)
	if !e.Destroyed() {
		t.Fatal("enemy not destroyed after the fade")
	}
}

func TestEnemyUnknownArchetypeFallsBack(t *testing.T) {
	spec := swarmerSpec()
	spec.Archetype = "gremlin"
	e, _, _ := spawnTestEnemy(t, spec, 100, 100, nil)
	if got := e.Archetype(); got != ArchetypeSwarmer {
		t.Fatalf("archetype = %q, want fallback %q", got, ArchetypeSwarmer)
	}
	if got := e.StateName(); got != stateIdle {
		t.Fatalf("state = %q, want %q", got, stateIdle)
	}
}

func TestEnemyPatrolReversesAtBoundsAndWalls(t *testing.T) {
	spec := swarmerSpec()
	e, body, _ := spawnTestEnemy(t, spec, 100, 100, nil)
	e.Update(0, enemyIdleMs)
	e.Update(0, 16)
	if e.StateName() != statePatrol {
		t.Fatal("enemy not patrolling")
	}

	// Past the right patrol bound: walk back left.
	body.x = 100 + spec.PatrolDistance + 1
	e.Update(0, 16)
	if body.vx >= 0 {
		t.Fatalf("vx = %v past the right bound, want negative", body.vx)
	}

	// Wall contact on the left flips it again.
	body.x = 100
	body.blockedLeft = true
	e.Update(0, 16)
	if body.vx <= 0 {
		t.Fatalf("vx = %v against a left wall, want positive", body.vx)
	}
}

func TestEnemyNoTargetDistanceIsInfinite(t *testing.T) {
	_, _, dist := distanceTo(10, 10, nil)
	if dist != math.MaxFloat64 {
		t.Fatalf("distance with no target = %v, want MaxFloat64", dist)
	}
}
