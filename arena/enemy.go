package arena

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/fsm"
	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// Archetype tags select which AI routine drives an enemy.
const (
	ArchetypeSwarmer      = "swarmer"
	ArchetypeBrute        = "brute"
	ArchetypeLunger       = "lunger"
	ArchetypeShieldbearer = "shieldbearer"
	ArchetypeLobber       = "lobber"
	ArchetypeDetonator    = "detonator"
)

// archetypeBehavior is the per-tick switch bespoke archetypes run instead
// of the shared state machine. It is not called while the enemy is in
// hitstun.
type archetypeBehavior interface {
	Update(now, delta float64)
	// State names the archetype-local state for debug output.
	State() string
	// OnHitstun fires when a landed hit interrupts the routine.
	OnHitstun()
}

// damageFilter lets a behavior adjust incoming damage before it applies.
// Returning 0 swallows the hit entirely.
type damageFilter interface {
	FilterDamage(amount int, hit combat.Hit) int
}

// EnemyEvent is the payload for the enemy lifecycle topics.
type EnemyEvent struct {
	ID        int
	Archetype string
	Damage    int
	Health    int
	X, Y      float64
	Width     float64
	Height    float64
}

// EnemyConfig wires a new enemy into the arena.
type EnemyConfig struct {
	Spec prefabs.ArchetypeSpec
	X, Y float64
	// Target is who the enemy hunts, usually the player.
	Target Target
	// Projectiles is required for lobbers; other archetypes ignore it.
	Projectiles *ProjectileManager
	// Peers supplies the other live enemies for detonator chain reactions.
	Peers func() []*Enemy
}

// Enemy is one spawned enemy of any archetype. Standard archetypes run on
// the generic state machine; the bespoke ones carry their attack-phase
// timers in a behavior value instead.
type Enemy struct {
	id   int
	cfg  prefabs.ArchetypeSpec
	body phys.Body
	bus  *events.Bus

	health *combat.Health
	target Target

	machine  *fsm.Machine
	behavior archetypeBehavior

	facingLeft bool
	originX    float64
	patrolDir  float64

	hitstunRemaining float64
	lastAttackUse    float64
	lostSightMs      float64

	hurtbox combat.Hurtbox
	melee   combat.Hitbox

	projectiles *ProjectileManager
	peers       func() []*Enemy

	simNow float64

	// shakeX is a cosmetic draw offset used by windup telegraphs.
	shakeX     float64
	alertLevel float64

	deathHandled bool
	fading       bool
	fadeLeft     float64
	alpha        float64
	destroyed    bool
}

const (
	defaultEnemyWidth  = 24.0
	defaultEnemyHeight = 32.0
	defaultFadeMs      = 600.0
)

// NewEnemy spawns an enemy into the world. Unknown archetypes and missing
// archetype parameter blocks are logged and fall back to the standard
// melee state machine.
func NewEnemy(world *phys.World, bus *events.Bus, cfg EnemyConfig) *Enemy {
	spec := cfg.Spec
	if spec.Width <= 0 {
		spec.Width = defaultEnemyWidth
	}
	if spec.Height <= 0 {
		spec.Height = defaultEnemyHeight
	}
	body := world.NewBody(phys.BodyDef{
		X:      cfg.X,
		Y:      cfg.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   1,
	})
	cfg.Spec = spec
	return newEnemy(body, bus, cfg)
}

func newEnemy(body phys.Body, bus *events.Bus, cfg EnemyConfig) *Enemy {
	e := &Enemy{
		id:            newActorID(),
		cfg:           cfg.Spec,
		body:          body,
		bus:           bus,
		health:        combat.NewHealth(cfg.Spec.Health),
		target:        cfg.Target,
		originX:       cfg.X,
		patrolDir:     1,
		lastAttackUse: math.Inf(-1),
		projectiles:   cfg.Projectiles,
		peers:         cfg.Peers,
		alpha:         1,
	}
	e.hurtbox = combat.Hurtbox{
		ID:      fmt.Sprintf("enemy-%d", e.id),
		OwnerID: e.id,
		Faction: combat.FactionEnemy,
		Enabled: true,
	}

	switch e.cfg.Archetype {
	case ArchetypeSwarmer, ArchetypeBrute:
		e.machine = newEnemyMachine(e)
	case ArchetypeLunger:
		if e.cfg.Lunger == nil {
			log.Printf("enemy: %s has no lunger block, using melee behavior", e.cfg.Name)
			e.machine = newEnemyMachine(e)
			break
		}
		e.behavior = newLungerBehavior(e, *e.cfg.Lunger)
	case ArchetypeShieldbearer:
		if e.cfg.Shield == nil {
			log.Printf("enemy: %s has no shield block, using melee behavior", e.cfg.Name)
			e.machine = newEnemyMachine(e)
			break
		}
		e.behavior = newShieldBehavior(e, *e.cfg.Shield)
	case ArchetypeLobber:
		if e.cfg.Lobber == nil {
			log.Printf("enemy: %s has no lobber block, using melee behavior", e.cfg.Name)
			e.machine = newEnemyMachine(e)
			break
		}
		e.behavior = newLobberBehavior(e, *e.cfg.Lobber)
	case ArchetypeDetonator:
		if e.cfg.Detonator == nil {
			log.Printf("enemy: %s has no detonator block, using melee behavior", e.cfg.Name)
			e.machine = newEnemyMachine(e)
			break
		}
		e.behavior = newDetonatorBehavior(e, *e.cfg.Detonator)
	default:
		log.Printf("enemy: unknown archetype %q, using %s", e.cfg.Archetype, ArchetypeSwarmer)
		e.cfg.Archetype = ArchetypeSwarmer
		e.machine = newEnemyMachine(e)
	}

	e.syncBoxes()
	return e
}

// Update runs one simulation tick. Hitstun decrements here so it drains
// exactly once per tick no matter which AI flavor the enemy runs.
func (e *Enemy) Update(now, delta float64) {
	if e == nil || e.destroyed {
		return
	}
	e.simNow = now

	if e.fading {
		e.fadeLeft -= delta
		if e.fadeLeft <= 0 {
			e.fadeLeft = 0
			e.destroyed = true
		}
		e.alpha = e.fadeLeft / e.fadeMs()
		return
	}
	if !e.health.IsAlive() {
		return
	}

	if e.hitstunRemaining > 0 {
		e.hitstunRemaining -= delta
		if e.hitstunRemaining < 0 {
			e.hitstunRemaining = 0
		}
	}

	if e.machine != nil {
		e.machine.Update(now, delta)
	} else if e.behavior != nil {
		if e.hitstunRemaining > 0 {
			e.syncBoxes()
			return
		}
		e.behavior.Update(now, delta)
	}
	e.syncBoxes()
}

// TakeDamage runs the shared damage pipeline: optional behavior filter
// (shield blocks), health, damage event, knockback, hitstun, and death
// handling exactly once.
func (e *Enemy) TakeDamage(amount int, hit combat.Hit) {
	if e == nil || e.destroyed || !e.health.IsAlive() {
		return
	}
	if filter, ok := e.behavior.(damageFilter); ok {
		amount = filter.FilterDamage(amount, hit)
		if amount <= 0 {
			return
		}
	}
	if !e.health.ApplyDamage(amount, hit) {
		return
	}
	e.bus.Publish(events.EnemyDamaged, e.eventPayload(amount))
	if !e.health.IsAlive() {
		e.die(hit)
		return
	}
	if hit.KnockbackX != 0 || hit.KnockbackY != 0 {
		x, _ := e.body.Position()
		kx := hit.KnockbackX
		if hit.OriginX > x {
			kx = -math.Abs(kx)
		} else {
			kx = math.Abs(kx)
		}
		e.body.ApplyImpulse(kx, hit.KnockbackY)
	}
	stun := hit.Hitstun
	if stun <= 0 {
		stun = e.cfg.HitstunMs
	}
	e.applyHitstun(stun)
}

// applyHitstun suppresses AI for at least ms; shorter re-hits never trim
// a longer stun already running.
func (e *Enemy) applyHitstun(ms float64) {
	if e == nil || ms <= 0 || !e.health.IsAlive() {
		return
	}
	if ms > e.hitstunRemaining {
		e.hitstunRemaining = ms
	}
	if e.machine != nil {
		e.machine.Transition(stateHitstun, nil, true)
	} else if e.behavior != nil {
		e.behavior.OnHitstun()
	}
}

// die handles death exactly once. Detonators explode instead of dying
// plainly; everyone else emits the kill and corpse-handoff events and
// fades out.
func (e *Enemy) die(hit combat.Hit) {
	if e.deathHandled {
		return
	}
	e.deathHandled = true
	e.hitstunRemaining = 0
	e.shakeX = 0
	e.disarmMelee()
	if e.machine != nil {
		e.machine.Transition(stateDead, nil, true)
	}
	if det, ok := e.behavior.(*detonatorBehavior); ok {
		det.detonate()
		return
	}
	e.body.SetEnabled(false)
	e.bus.Publish(events.EnemyKilled, e.eventPayload(0))
	e.bus.Publish(events.EnemyDied, e.eventPayload(0))
	e.startFade()
}

func (e *Enemy) startFade() {
	e.fading = true
	e.fadeLeft = e.fadeMs()
}

func (e *Enemy) fadeMs() float64 {
	if e.cfg.FadeMs > 0 {
		return e.cfg.FadeMs
	}
	return defaultFadeMs
}

func (e *Enemy) eventPayload(damage int) EnemyEvent {
	x, y := e.body.Position()
	return EnemyEvent{
		ID:        e.id,
		Archetype: e.cfg.Archetype,
		Damage:    damage,
		Health:    e.health.Current,
		X:         x,
		Y:         y,
		Width:     e.cfg.Width,
		Height:    e.cfg.Height,
	}
}

// seesTarget reports whether the target is alive and inside detection
// range.
func (e *Enemy) seesTarget() bool {
	if e.target == nil || !e.target.Alive() {
		return false
	}
	x, y := e.body.Position()
	_, _, dist := distanceTo(x, y, e.target)
	return dist <= e.cfg.DetectionRange
}

func (e *Enemy) targetDistance() (dx, dy, dist float64) {
	x, y := e.body.Position()
	return distanceTo(x, y, e.target)
}

// attackReady reports whether the attack cooldown has elapsed.
func (e *Enemy) attackReady(now float64) bool {
	return now-e.lastAttackUse >= e.cfg.CooldownMs
}

// patrol oscillates between originX±PatrolDistance, reversing at the
// bounds or on wall contact.
func (e *Enemy) patrol() {
	x, _ := e.body.Position()
	if e.patrolDir == 0 {
		e.patrolDir = 1
	}
	if x >= e.originX+e.cfg.PatrolDistance || e.body.BlockedRight() {
		e.patrolDir = -1
	} else if x <= e.originX-e.cfg.PatrolDistance || e.body.BlockedLeft() {
		e.patrolDir = 1
	}
	e.setWalk(e.patrolDir * e.cfg.MoveSpeed)
}

// setWalk drives horizontal velocity and keeps facing in sync.
func (e *Enemy) setWalk(vx float64) {
	_, vy := e.body.Velocity()
	e.body.SetVelocity(vx, vy)
	if vx < 0 {
		e.facingLeft = true
	} else if vx > 0 {
		e.facingLeft = false
	}
}

func (e *Enemy) moveTowardTarget(speed float64) {
	dx, _, _ := e.targetDistance()
	if dx == 0 {
		e.stop()
		return
	}
	e.setWalk(math.Copysign(speed, dx))
}

func (e *Enemy) moveAwayFromTarget(speed float64) {
	dx, _, _ := e.targetDistance()
	if dx == 0 {
		e.stop()
		return
	}
	e.setWalk(math.Copysign(speed, -dx))
}

func (e *Enemy) stop() {
	_, vy := e.body.Velocity()
	e.body.SetVelocity(0, vy)
}

func (e *Enemy) faceTarget() {
	dx, _, _ := e.targetDistance()
	if dx < 0 {
		e.facingLeft = true
	} else if dx > 0 {
		e.facingLeft = false
	}
}

// dir is the facing as a sign: -1 left, +1 right.
func (e *Enemy) dir() float64 {
	if e.facingLeft {
		return -1
	}
	return 1
}

func (e *Enemy) bodyRect() common.Rect {
	x, y := e.body.Position()
	return common.Centered(x, y, e.cfg.Width, e.cfg.Height)
}

// meleeRect places an attack box of the given reach in front of the enemy.
func (e *Enemy) meleeRect(reach float64) common.Rect {
	if reach <= 0 {
		reach = e.cfg.Width
	}
	x, y := e.body.Position()
	cx := x + e.dir()*(e.cfg.Width+reach)/2
	return common.Centered(cx, y, reach, e.cfg.Height*0.8)
}

func (e *Enemy) armMelee(swing int) {
	e.melee = combat.Hitbox{
		ID:      fmt.Sprintf("melee-%d", swing),
		OwnerID: e.id,
		Faction: combat.FactionEnemy,
		Rect:    e.meleeRect(e.cfg.Attack.Reach),
		Damage: combat.Damage{
			Amount:     e.cfg.Attack.Damage,
			KnockbackX: e.cfg.Attack.KnockbackX,
			KnockbackY: e.cfg.Attack.KnockbackY,
			Hitstun:    e.cfg.Attack.HitstunMs,
			Hitstop:    e.cfg.Attack.HitstopMs,
		},
		Active: true,
	}
}

func (e *Enemy) disarmMelee() {
	e.melee.Active = false
}

func (e *Enemy) syncBoxes() {
	e.hurtbox.Rect = e.bodyRect()
	e.hurtbox.Enabled = e.health.IsAlive()
	if e.melee.Active {
		e.melee.Rect = e.meleeRect(e.cfg.Attack.Reach)
	}
}

func (e *Enemy) ActorID() int { return e.id }

func (e *Enemy) Archetype() string { return e.cfg.Archetype }

func (e *Enemy) Position() (x, y float64) { return e.body.Position() }

func (e *Enemy) Size() (width, height float64) { return e.cfg.Width, e.cfg.Height }

func (e *Enemy) Alive() bool { return e != nil && !e.destroyed && e.health.IsAlive() }

func (e *Enemy) CanBeHit() bool { return e.Alive() }

func (e *Enemy) Destroyed() bool { return e == nil || e.destroyed }

func (e *Enemy) Health() *combat.Health { return e.health }

// Alpha is the current render opacity, dropping during the death fade.
func (e *Enemy) Alpha() float64 { return e.alpha }

// ShakeX is a cosmetic horizontal draw offset for windup telegraphs.
func (e *Enemy) ShakeX() float64 { return e.shakeX }

// Alert is the detonator proximity flicker intensity, 0 for everyone else.
func (e *Enemy) Alert() float64 { return e.alertLevel }

func (e *Enemy) FacingLeft() bool { return e.facingLeft }

func (e *Enemy) Hurtboxes() []combat.Hurtbox {
	if e == nil || !e.Alive() {
		return nil
	}
	return []combat.Hurtbox{e.hurtbox}
}

func (e *Enemy) Hitboxes() []combat.Hitbox {
	if e == nil || !e.Alive() || !e.melee.Active {
		return nil
	}
	return []combat.Hitbox{e.melee}
}

// StateName reports the active AI state for overlays and tests.
func (e *Enemy) StateName() string {
	switch {
	case e == nil || e.destroyed:
		return "destroyed"
	case e.machine != nil:
		return e.machine.Current()
	case e.behavior != nil:
		return e.behavior.State()
	}
	return ""
}

// SetTarget swaps who the enemy hunts; nil clears it and the enemy
// patrols indefinitely.
func (e *Enemy) SetTarget(t Target) {
	if e == nil {
		return
	}
	e.target = t
}
