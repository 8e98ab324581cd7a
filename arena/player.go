package arena

import (
	"fmt"
	"math"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/fsm"
	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// Intent is one tick of player input, already edge-resolved by the
// caller: held fields stay set while held, pressed fields are true only
// on the tick the key went down.
type Intent struct {
	// MoveX is the held horizontal direction, -1..1.
	MoveX float64
	// Jump is pressed.
	Jump bool
	// Light is pressed; grounded it opens the light string, airborne it
	// maps to the air slot.
	Light bool
	// Heavy is pressed; grounded it maps to the heavy slot, airborne to
	// the spin slot.
	Heavy bool
	// Special is pressed.
	Special bool
	// SwapNext and SwapPrev cycle the unlocked weapons.
	SwapNext bool
	SwapPrev bool
	// QuickSwap is a 1-based index into the unlocked weapons, 0 for none.
	QuickSwap int
}

// PlayerEvent is the payload for the player lifecycle topics.
type PlayerEvent struct {
	ID     int
	Damage int
	Health int
	Meter  int
	X, Y   float64
}

// PlayerConfig wires a new player into the arena.
type PlayerConfig struct {
	Spec prefabs.PlayerSpec
	X, Y float64
	// Weapons supplies the equipped attack roster; nil disables attacks.
	Weapons *WeaponManager
}

// Player is the controlled actor. Movement and attacks run on a small
// state machine; weapon swaps route to the weapon manager, which refuses
// them while a swing is still in startup or active frames.
type Player struct {
	id   int
	spec prefabs.PlayerSpec
	body phys.Body
	bus  *events.Bus

	health  *combat.Health
	weapons *WeaponManager
	machine *fsm.Machine

	intent     Intent
	facingLeft bool

	meter int

	// attack is the swing being executed while in the attack state.
	attack AttackData
	// buffered holds an attack press made mid-swing until the cancel
	// window opens.
	buffered AttackSlot
	// swings counts lifetime swings so each one gets a fresh hitbox id.
	swings int

	hurtbox combat.Hurtbox
	strike  combat.Hitbox

	hitstunRemaining float64
	simNow           float64
}

const (
	defaultPlayerWidth  = 28.0
	defaultPlayerHeight = 44.0
	// playerDefaultHitstunMs covers hits whose attack carries no stun.
	playerDefaultHitstunMs = 180.0
)

// NewPlayer spawns the player into the world.
func NewPlayer(world *phys.World, bus *events.Bus, cfg PlayerConfig) *Player {
	spec := cfg.Spec
	if spec.Width <= 0 {
		spec.Width = defaultPlayerWidth
	}
	if spec.Height <= 0 {
		spec.Height = defaultPlayerHeight
	}
	body := world.NewBody(phys.BodyDef{
		X:      cfg.X,
		Y:      cfg.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Mass:   1,
	})
	cfg.Spec = spec
	return newPlayer(body, bus, cfg)
}

func newPlayer(body phys.Body, bus *events.Bus, cfg PlayerConfig) *Player {
	p := &Player{
		id:      newActorID(),
		spec:    cfg.Spec,
		body:    body,
		bus:     bus,
		health:  combat.NewHealth(cfg.Spec.Health),
		weapons: cfg.Weapons,
	}
	p.hurtbox = combat.Hurtbox{
		ID:      fmt.Sprintf("player-%d", p.id),
		OwnerID: p.id,
		Faction: combat.FactionPlayer,
		Enabled: true,
	}
	p.machine = newPlayerMachine(p)
	p.syncBoxes()
	return p
}

// SetIntent stores the input for the next Update. The caller builds a
// fresh Intent every tick; Update consumes it.
func (p *Player) SetIntent(in Intent) {
	if p == nil {
		return
	}
	p.intent = in
}

// Update runs one simulation tick: i-frames and hitstun drain, the swap
// timer advances, then the state machine acts on this tick's intent.
func (p *Player) Update(now, delta float64) {
	if p == nil {
		return
	}
	p.simNow = now
	p.health.Tick(delta)

	if p.hitstunRemaining > 0 {
		p.hitstunRemaining -= delta
		if p.hitstunRemaining < 0 {
			p.hitstunRemaining = 0
		}
	}
	if p.weapons != nil {
		p.weapons.Update(now, delta)
	}
	p.machine.Update(now, delta)
	p.syncBoxes()
	p.intent = Intent{}
}

// TakeDamage runs the shared damage pipeline. I-frames inside Health
// reject the hit outright; accepted hits grant fresh i-frames, knock the
// player away from the hit origin, and stun.
func (p *Player) TakeDamage(amount int, hit combat.Hit) {
	if p == nil || !p.health.IsAlive() {
		return
	}
	if !p.health.ApplyDamage(amount, hit) {
		return
	}
	p.bus.Publish(events.PlayerDamaged, p.eventPayload(amount))
	if !p.health.IsAlive() {
		p.die()
		return
	}
	p.health.StartIFrames(p.spec.HurtIFramesMs)
	if hit.KnockbackX != 0 || hit.KnockbackY != 0 {
		x, _ := p.body.Position()
		kx := hit.KnockbackX
		if hit.OriginX > x {
			kx = -math.Abs(kx)
		} else {
			kx = math.Abs(kx)
		}
		p.body.ApplyImpulse(kx, hit.KnockbackY)
	}
	stun := hit.Hitstun
	if stun <= 0 {
		stun = playerDefaultHitstunMs
	}
	p.applyHitstun(stun)
}

// applyHitstun suppresses control for at least ms; shorter re-hits never
// trim a longer stun already running.
func (p *Player) applyHitstun(ms float64) {
	if ms <= 0 || !p.health.IsAlive() {
		return
	}
	if ms > p.hitstunRemaining {
		p.hitstunRemaining = ms
	}
	p.machine.Transition(playerHitstun, nil, true)
}

func (p *Player) die() {
	p.hitstunRemaining = 0
	p.disarmStrike()
	p.machine.Transition(playerDead, nil, true)
	if p.weapons != nil {
		p.weapons.CancelSwap()
	}
	p.bus.Publish(events.PlayerDied, p.eventPayload(0))
}

// GainMeter adds landed-hit meter, capped at the configured maximum.
func (p *Player) GainMeter(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.meter += n
	if p.meter > p.spec.MeterMax {
		p.meter = p.spec.MeterMax
	}
}

// tryAttack consumes this tick's attack press, if any, against the
// equipped weapon. It returns the attack state name when a swing starts.
// Presses are dropped while a swap is in flight; the weapon is in
// transit.
func (p *Player) tryAttack() string {
	slot, ok := p.attackSlot()
	if !ok {
		return ""
	}
	if p.weapons == nil || p.weapons.Swapping() {
		return ""
	}
	weapon := p.weapons.Equipped()
	if weapon == nil {
		return ""
	}
	data, ok := weapon.Attack(slot)
	if !ok {
		return ""
	}
	p.attack = data
	return playerAttack
}

// attackSlot maps this tick's attack press to a weapon slot. Airborne
// presses pick the air and spin slots so ground strings stay grounded.
func (p *Player) attackSlot() (AttackSlot, bool) {
	grounded := p.body.Grounded()
	switch {
	case p.intent.Light && !grounded:
		return SlotAir, true
	case p.intent.Light:
		return SlotLight1, true
	case p.intent.Heavy && !grounded:
		return SlotSpin, true
	case p.intent.Heavy:
		return SlotHeavy, true
	case p.intent.Special:
		return SlotSpecial, true
	}
	return "", false
}

// chainTarget resolves a buffered press against the current attack's
// combo set. A buffered light advances to the first light-family slot in
// the set, so mashing light walks the string; everything else must match
// the set exactly.
func chainTarget(current AttackData, want AttackSlot) AttackSlot {
	if current.CanChainInto(want) {
		return want
	}
	if want != SlotLight1 {
		return ""
	}
	for _, slot := range current.ComboInto {
		switch slot {
		case SlotLight1, SlotLight2, SlotLight3:
			return slot
		}
	}
	return ""
}

// routeSwap forwards this tick's swap inputs to the weapon manager. The
// attack state only calls this once the swing reaches recovery.
func (p *Player) routeSwap() {
	if p.weapons == nil {
		return
	}
	switch {
	case p.intent.SwapNext:
		p.weapons.SwapNext()
	case p.intent.SwapPrev:
		p.weapons.SwapPrev()
	case p.intent.QuickSwap > 0:
		p.weapons.QuickSwap(p.intent.QuickSwap - 1)
	}
}

// jump launches upward; the caller checks Grounded.
func (p *Player) jump() {
	vx, _ := p.body.Velocity()
	p.body.SetVelocity(vx, -p.spec.JumpSpeed)
}

// setWalk drives horizontal velocity and keeps facing in sync.
func (p *Player) setWalk(vx float64) {
	_, vy := p.body.Velocity()
	p.body.SetVelocity(vx, vy)
	if vx < 0 {
		p.facingLeft = true
	} else if vx > 0 {
		p.facingLeft = false
	}
}

func (p *Player) stop() {
	_, vy := p.body.Velocity()
	p.body.SetVelocity(0, vy)
}

// dir is the facing as a sign: -1 left, +1 right.
func (p *Player) dir() float64 {
	if p.facingLeft {
		return -1
	}
	return 1
}

func (p *Player) bodyRect() common.Rect {
	x, y := p.body.Position()
	return common.Centered(x, y, p.spec.Width, p.spec.Height)
}

// strikeRect places the swing hitbox of the given reach in front of the
// player.
func (p *Player) strikeRect(reach float64) common.Rect {
	if reach <= 0 {
		reach = p.spec.Width
	}
	x, y := p.body.Position()
	cx := x + p.dir()*(p.spec.Width+reach)/2
	return common.Centered(cx, y, reach, p.spec.Height*0.8)
}

// armStrike opens the current swing's hitbox. Each swing gets a fresh id
// so chained hits in one string all land.
func (p *Player) armStrike() {
	p.swings++
	atk := p.attack
	p.strike = combat.Hitbox{
		ID:      fmt.Sprintf("swing-%d", p.swings),
		OwnerID: p.id,
		Faction: combat.FactionPlayer,
		Rect:    p.strikeRect(atk.Reach),
		Damage: combat.Damage{
			Amount:     atk.Damage,
			KnockbackX: atk.KnockbackX,
			KnockbackY: atk.KnockbackY,
			Hitstun:    atk.Hitstun,
			Hitstop:    atk.Hitstop,
			MeterGain:  atk.MeterGain,
		},
		Active: true,
	}
}

func (p *Player) disarmStrike() {
	p.strike.Active = false
}

func (p *Player) syncBoxes() {
	p.hurtbox.Rect = p.bodyRect()
	p.hurtbox.Enabled = p.health.IsAlive()
	if p.strike.Active {
		p.strike.Rect = p.strikeRect(p.attack.Reach)
	}
}

func (p *Player) eventPayload(damage int) PlayerEvent {
	x, y := p.body.Position()
	return PlayerEvent{
		ID:     p.id,
		Damage: damage,
		Health: p.health.Current,
		Meter:  p.meter,
		X:      x,
		Y:      y,
	}
}

func (p *Player) ActorID() int { return p.id }

func (p *Player) Position() (x, y float64) { return p.body.Position() }

func (p *Player) Size() (width, height float64) { return p.spec.Width, p.spec.Height }

func (p *Player) Alive() bool { return p != nil && p.health.IsAlive() }

func (p *Player) CanBeHit() bool { return p.Alive() && !p.health.Invulnerable() }

func (p *Player) Health() *combat.Health { return p.health }

// Meter is the current ultimate meter charge.
func (p *Player) Meter() int { return p.meter }

func (p *Player) Weapons() *WeaponManager { return p.weapons }

func (p *Player) FacingLeft() bool { return p.facingLeft }

func (p *Player) Hurtboxes() []combat.Hurtbox {
	return []combat.Hurtbox{p.hurtbox}
}

func (p *Player) Hitboxes() []combat.Hitbox {
	if !p.strike.Active {
		return nil
	}
	return []combat.Hitbox{p.strike}
}

// StateName reports the active state for overlays and tests.
func (p *Player) StateName() string {
	return p.machine.Current()
}
