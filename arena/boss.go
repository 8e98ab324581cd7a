package arena

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/fsm"
	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// Boss state names.
const (
	bossIntro           = "intro"
	bossIdle            = "idle"
	bossAttacking       = "attacking"
	bossPhaseTransition = "phase_transition"
	bossStaggered       = "staggered"
	bossDefeated        = "defeated"
)

// BossEvent is the payload on every boss:* topic.
type BossEvent struct {
	ID        int
	Name      string
	Phase     int
	Damage    int
	Health    int
	MaxHealth int
	X, Y      float64
}

// BossConfig wires one boss into the arena.
type BossConfig struct {
	Spec   prefabs.BossSpec
	X, Y   float64
	Target Target

	Projectiles *ProjectileManager

	// Unlock receives the boss's weapon drop on defeat, usually bound to
	// WeaponManager.Unlock.
	Unlock func(id string) bool
}

// Boss is the arena's setpiece fight. It runs a phase-gated attack
// roster on an fsm and resists hitstun instead of flinching per hit.
type Boss struct {
	id   int
	spec prefabs.BossSpec
	body phys.Body
	bus  *events.Bus

	health  *combat.Health
	target  Target
	machine *fsm.Machine

	attacks  map[string]Attack
	current  Attack
	selector func(ids []string) string

	phase         int
	cooldownUntil map[string]float64
	globalUntil   float64

	projectiles *ProjectileManager
	unlock      func(id string) bool

	facingLeft      bool
	invulnRemaining float64
	simNow          float64
	shakeX          float64

	hurtbox combat.Hurtbox
	strike  combat.Hitbox

	deathHandled bool
	fading       bool
	fadeLeft     float64
	alpha        float64
	destroyed    bool
}

const (
	defaultBossWidth  = 80.0
	defaultBossHeight = 96.0
)

// NewBoss spawns the boss into the world and starts its intro.
func NewBoss(world *phys.World, bus *events.Bus, cfg BossConfig) *Boss {
	spec := cfg.Spec
	if spec.Width <= 0 {
		spec.Width = defaultBossWidth
	}
	if spec.Height <= 0 {
		spec.Height = defaultBossHeight
	}
	body := world.NewBody(phys.BodyDef{
		X:      cfg.X,
		Y:      cfg.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   6,
	})
	cfg.Spec = spec
	return newBoss(body, bus, cfg)
}

func newBoss(body phys.Body, bus *events.Bus, cfg BossConfig) *Boss {
	b := &Boss{
		id:            newActorID(),
		spec:          cfg.Spec,
		body:          body,
		bus:           bus,
		health:        combat.NewHealth(cfg.Spec.Health),
		target:        cfg.Target,
		attacks:       map[string]Attack{},
		cooldownUntil: map[string]float64{},
		projectiles:   cfg.Projectiles,
		unlock:        cfg.Unlock,
		alpha:         1,
	}
	b.selector = func(ids []string) string { return ids[rand.Intn(len(ids))] }
	b.hurtbox = combat.Hurtbox{
		ID:      fmt.Sprintf("boss-%d", b.id),
		OwnerID: b.id,
		Faction: combat.FactionEnemy,
		Enabled: true,
	}

	for _, as := range b.spec.Attacks {
		atk, err := buildAttack(as)
		if err != nil {
			log.Printf("boss: %v", err)
			continue
		}
		b.attacks[as.ID] = atk
	}
	if len(b.spec.Phases) == 0 {
		log.Printf("boss: %s has no phases, it will never attack", b.spec.Name)
	}

	b.machine = newBossMachine(b)
	b.syncBoxes()
	return b
}

func newBossMachine(b *Boss) *fsm.Machine {
	m := fsm.NewMachine()
	m.AddState(&bossIntroState{boss: b})
	m.AddState(&bossIdleState{boss: b})
	m.AddState(&bossAttackingState{boss: b})
	m.AddState(&bossPhaseTransitionState{boss: b})
	m.AddState(&bossStaggeredState{boss: b})
	m.AddState(&bossDefeatedState{boss: b})
	m.Start(bossIntro, nil)
	return m
}

func (b *Boss) Update(now, delta float64) {
	if b == nil || b.destroyed {
		return
	}
	b.simNow = now

	if b.fading {
		b.fadeLeft -= delta
		if b.fadeLeft <= 0 {
			b.fadeLeft = 0
			b.destroyed = true
		}
		b.alpha = b.fadeLeft / b.fadeMs()
		return
	}
	if !b.health.IsAlive() {
		return
	}

	if b.invulnRemaining > 0 {
		b.invulnRemaining -= delta
		if b.invulnRemaining < 0 {
			b.invulnRemaining = 0
		}
	}

	b.machine.Update(now, delta)
	b.syncBoxes()
}

// TakeDamage runs the boss damage pipeline. Hitstun lands scaled by the
// boss's resistance; only a single hit strong enough to clear the stagger
// threshold interrupts it.
func (b *Boss) TakeDamage(amount int, hit combat.Hit) {
	if b == nil || b.destroyed || !b.health.IsAlive() {
		return
	}
	if b.Invulnerable() {
		return
	}
	if !b.health.ApplyDamage(amount, hit) {
		return
	}
	b.bus.Publish(events.BossDamaged, b.eventPayload(amount))

	if !b.health.IsAlive() {
		b.defeat()
		return
	}
	if b.advancePhase() {
		return
	}

	stun := hit.Hitstun * b.spec.HitstunResistance
	if b.spec.StaggerThresholdMs > 0 && stun >= b.spec.StaggerThresholdMs {
		if b.machine.Transition(bossStaggered, nil, true) {
			b.bus.Publish(events.BossStaggered, b.eventPayload(0))
		}
	}
}

// advancePhase promotes the boss when its health fraction crosses a
// threshold. Thresholds are descending fractions; the highest eligible
// index past the current phase wins. Phases never move backward.
func (b *Boss) advancePhase() bool {
	frac := b.health.Fraction()
	next := b.phase
	for i, phase := range b.spec.Phases {
		if i > b.phase && phase.Threshold >= frac {
			next = i
		}
	}
	if next == b.phase {
		return false
	}
	b.phase = next
	b.machine.Transition(bossPhaseTransition, nil, true)
	b.bus.Publish(events.BossPhaseChange, b.eventPayload(0))
	return true
}

// defeat handles death exactly once: the in-progress attack is torn down
// by the forced transition, the weapon drop unlocks, and the boss fades.
func (b *Boss) defeat() {
	if b.deathHandled {
		return
	}
	b.deathHandled = true
	b.machine.Transition(bossDefeated, nil, true)
	b.body.SetEnabled(false)
	if b.spec.UnlocksWeapon != "" && b.unlock != nil {
		b.unlock(b.spec.UnlocksWeapon)
	}
	b.bus.Publish(events.BossDefeated, b.eventPayload(0))
	b.startFade()
}

func (b *Boss) startFade() {
	b.fading = true
	b.fadeLeft = b.fadeMs()
}

func (b *Boss) fadeMs() float64 {
	if b.spec.FadeMs > 0 {
		return b.spec.FadeMs
	}
	return defaultFadeMs
}

// Invulnerable covers the intro, the whole phase transition, and the
// short grace window granted right after one.
func (b *Boss) Invulnerable() bool {
	if b.invulnRemaining > 0 {
		return true
	}
	return b.machine.Is(bossIntro) || b.machine.Is(bossPhaseTransition)
}

// readyAttacks filters the current phase's roster down to attacks that
// exist and are off their per-attack cooldown.
func (b *Boss) readyAttacks(now float64) []string {
	if b.phase >= len(b.spec.Phases) {
		return nil
	}
	roster := b.spec.Phases[b.phase].Attacks
	ids := make([]string, 0, len(roster))
	for _, id := range roster {
		if b.attacks[id] == nil {
			continue
		}
		if now < b.cooldownUntil[id] {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (b *Boss) eventPayload(damage int) BossEvent {
	x, y := b.body.Position()
	return BossEvent{
		ID:        b.id,
		Name:      b.spec.Name,
		Phase:     b.phase,
		Damage:    damage,
		Health:    b.health.Current,
		MaxHealth: b.health.Max,
		X:         x,
		Y:         y,
	}
}

func (b *Boss) targetDistance() (dx, dy, dist float64) {
	x, y := b.body.Position()
	return distanceTo(x, y, b.target)
}

func (b *Boss) setWalk(vx float64) {
	_, vy := b.body.Velocity()
	b.body.SetVelocity(vx, vy)
	if vx < 0 {
		b.facingLeft = true
	} else if vx > 0 {
		b.facingLeft = false
	}
}

func (b *Boss) moveTowardTarget(speed float64) {
	dx, _, _ := b.targetDistance()
	if dx == 0 {
		b.stop()
		return
	}
	b.setWalk(math.Copysign(speed, dx))
}

func (b *Boss) moveAwayFromTarget(speed float64) {
	dx, _, _ := b.targetDistance()
	if dx == 0 {
		b.stop()
		return
	}
	b.setWalk(math.Copysign(speed, -dx))
}

func (b *Boss) stop() {
	_, vy := b.body.Velocity()
	b.body.SetVelocity(0, vy)
}

func (b *Boss) faceTarget() {
	dx, _, _ := b.targetDistance()
	if dx < 0 {
		b.facingLeft = true
	} else if dx > 0 {
		b.facingLeft = false
	}
}

func (b *Boss) dir() float64 {
	if b.facingLeft {
		return -1
	}
	return 1
}

func (b *Boss) bodyRect() common.Rect {
	x, y := b.body.Position()
	return common.Centered(x, y, b.spec.Width, b.spec.Height)
}

// strikeRect places an attack box of the given reach in front of the
// boss.
func (b *Boss) strikeRect(reach float64) common.Rect {
	if reach <= 0 {
		reach = b.spec.Width
	}
	x, y := b.body.Position()
	cx := x + b.dir()*(b.spec.Width+reach)/2
	return common.Centered(cx, y, reach, b.spec.Height*0.8)
}

func (b *Boss) armStrike(id string, rect common.Rect, dmg combat.Damage) {
	b.strike = combat.Hitbox{
		ID:      id,
		OwnerID: b.id,
		Faction: combat.FactionEnemy,
		Rect:    rect,
		Damage:  dmg,
		Active:  true,
	}
}

func (b *Boss) disarmStrike() {
	b.strike.Active = false
}

func (b *Boss) syncBoxes() {
	b.hurtbox.Rect = b.bodyRect()
	b.hurtbox.Enabled = b.health.IsAlive()
}

func (b *Boss) ActorID() int { return b.id }

func (b *Boss) Name() string { return b.spec.Name }

func (b *Boss) Position() (x, y float64) { return b.body.Position() }

func (b *Boss) Size() (width, height float64) { return b.spec.Width, b.spec.Height }

func (b *Boss) Alive() bool { return b != nil && !b.destroyed && b.health.IsAlive() }

func (b *Boss) CanBeHit() bool { return b.Alive() && !b.Invulnerable() }

func (b *Boss) Destroyed() bool { return b == nil || b.destroyed }

func (b *Boss) Health() *combat.Health { return b.health }

// Phase is the current phase index, zero-based.
func (b *Boss) Phase() int { return b.phase }

// Alpha is the render opacity, driven by the death fade.
func (b *Boss) Alpha() float64 { return b.alpha }

// ShakeX is a cosmetic telegraph offset in pixels.
func (b *Boss) ShakeX() float64 { return b.shakeX }

func (b *Boss) FacingLeft() bool { return b.facingLeft }

func (b *Boss) Hurtboxes() []combat.Hurtbox {
	if !b.Alive() {
		return nil
	}
	return []combat.Hurtbox{b.hurtbox}
}

func (b *Boss) Hitboxes() []combat.Hitbox {
	if !b.Alive() || !b.strike.Active {
		return nil
	}
	return []combat.Hitbox{b.strike}
}

func (b *Boss) StateName() string {
	if b.destroyed {
		return "destroyed"
	}
	return b.machine.Current()
}

func (b *Boss) SetTarget(t Target) {
	b.target = t
}

// SetAttackSelector overrides the uniform-random attack pick, mainly for
// scripted sequences and tests.
func (b *Boss) SetAttackSelector(fn func(ids []string) string) {
	if fn != nil {
		b.selector = fn
	}
}
