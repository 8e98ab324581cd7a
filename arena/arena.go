package arena

import (
	"fmt"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/phys"
	"github.com/milk9111/brawl/prefabs"
)

// Config wires an Arena from loaded specs.
type Config struct {
	Arena   *prefabs.ArenaSpec
	Weapons *prefabs.WeaponsSpec
	// PlayerX/PlayerY place the player; both zero means center floor.
	PlayerX float64
	PlayerY float64
}

// EventRecord is one bus event tagged with the sim time it fired at.
type EventRecord struct {
	At    float64
	Topic string
	Data  any
}

// eventTail is how many recent events the arena keeps for overlays and
// the headless log.
const eventTail = 64

// Arena owns the world, the bus, and every actor, and drives one
// simulation tick: player, enemies, boss, projectiles, physics, hit
// resolution, corpses. Time scale stretches gameplay; hitstop freezes
// it outright for a few real milliseconds while draws keep reading
// valid state.
type Arena struct {
	spec *prefabs.ArenaSpec

	world   *phys.World
	bus     *events.Bus
	weapons *WeaponManager
	player  *Player

	enemies []*Enemy
	boss    *Boss

	projectiles *ProjectileManager
	corpses     *CorpseManager

	// playerHits resolves the player's swings, enemyHits everything
	// aimed back. Separate resolvers keep combo scaling player-only.
	playerHits *combat.Resolver
	enemyHits  *combat.Resolver

	simTime    float64
	scale      float64
	freezeLeft float64

	recent []EventRecord
}

// New builds an arena from its specs. Spec problems are returned, not
// logged; the caller decides whether they are fatal.
func New(cfg Config) (*Arena, error) {
	if cfg.Arena == nil {
		return nil, fmt.Errorf("arena: nil arena spec")
	}
	if cfg.Weapons == nil {
		return nil, fmt.Errorf("arena: nil weapons spec")
	}

	a := &Arena{
		spec:  cfg.Arena,
		scale: 1,
	}
	a.world = phys.NewWorld(phys.Config{
		Width:   cfg.Arena.Width,
		Height:  cfg.Arena.Height,
		Gravity: cfg.Arena.Gravity,
	})
	a.bus = events.NewBus()
	a.bus.SubscribeAll(a.recordEvent)

	set, err := NewWeaponSet(cfg.Weapons)
	if err != nil {
		return nil, err
	}
	a.weapons = NewWeaponManager(set, cfg.Weapons.Starting, cfg.Weapons.SwapMs, a.bus)

	a.projectiles = NewProjectileManager(a.world)
	a.corpses = NewCorpseManager(a.world, cfg.Arena.Corpses)
	a.bus.Subscribe(events.EnemyDied, func(evt events.Event) {
		if ev, ok := evt.Data.(EnemyEvent); ok {
			a.corpses.Spawn(ev.X, ev.Y, ev.Width, ev.Height)
		}
	})

	x, y := cfg.PlayerX, cfg.PlayerY
	if x == 0 && y == 0 {
		x = cfg.Arena.Width / 2
		y = cfg.Arena.Height - cfg.Arena.Player.Height
	}
	a.player = NewPlayer(a.world, a.bus, PlayerConfig{
		Spec:    cfg.Arena.Player,
		X:       x,
		Y:       y,
		Weapons: a.weapons,
	})

	a.playerHits = combat.NewResolver()
	a.playerHits.ComboScale = cfg.Arena.Combo.Scale
	if cfg.Arena.Combo.WindowMs > 0 {
		a.playerHits.ComboWindow = cfg.Arena.Combo.WindowMs
	}
	a.playerHits.OnHitstop = a.RequestFreeze
	a.playerHits.OnHit = func(hit combat.Hit) {
		a.player.GainMeter(hit.MeterGain)
	}

	a.enemyHits = combat.NewResolver()
	a.enemyHits.OnHitstop = a.RequestFreeze

	return a, nil
}

// SpawnEnemy adds an enemy hunting the player.
func (a *Arena) SpawnEnemy(spec prefabs.ArchetypeSpec, x, y float64) *Enemy {
	e := NewEnemy(a.world, a.bus, EnemyConfig{
		Spec:        spec,
		X:           x,
		Y:           y,
		Target:      a.player,
		Projectiles: a.projectiles,
		Peers:       a.liveEnemies,
	})
	a.enemies = append(a.enemies, e)
	return e
}

// SpawnBoss adds the boss. Its weapon unlock routes into the manager.
func (a *Arena) SpawnBoss(spec prefabs.BossSpec, x, y float64) *Boss {
	b := NewBoss(a.world, a.bus, BossConfig{
		Spec:        spec,
		X:           x,
		Y:           y,
		Target:      a.player,
		Projectiles: a.projectiles,
		Unlock:      a.weapons.Unlock,
	})
	a.boss = b
	return b
}

func (a *Arena) liveEnemies() []*Enemy { return a.enemies }

// Update advances the simulation by deltaMs of real time under the
// player's intent for this tick.
func (a *Arena) Update(deltaMs float64, in Intent) {
	if a == nil {
		return
	}
	// Hitstop burns real time so slow motion never stretches it.
	if a.freezeLeft > 0 {
		a.freezeLeft -= deltaMs
		if a.freezeLeft < 0 {
			a.freezeLeft = 0
		}
		return
	}
	delta := deltaMs * a.scale
	if delta <= 0 {
		return
	}
	a.simTime += delta
	now := a.simTime

	a.player.SetIntent(in)
	a.player.Update(now, delta)
	for _, e := range a.enemies {
		e.Update(now, delta)
	}
	if a.boss != nil {
		a.boss.Update(now, delta)
	}
	a.projectiles.Update(now, delta)
	a.world.Step(delta / 1000)

	a.resolveHits(now)

	a.corpses.Update(now, delta)
	a.sweep()
}

func (a *Arena) resolveHits(now float64) {
	targets := make([]combat.Target, 0, len(a.enemies)+1)
	for _, e := range a.enemies {
		targets = append(targets, e)
	}
	if a.boss != nil {
		targets = append(targets, a.boss)
	}
	a.playerHits.Resolve(now, a.player, targets...)

	for _, e := range a.enemies {
		a.enemyHits.Resolve(now, e, a.player)
	}
	if a.boss != nil {
		a.enemyHits.Resolve(now, a.boss, a.player)
	}
	a.projectiles.Resolve(a.player)
}

// sweep drops fully faded actors and their bodies.
func (a *Arena) sweep() {
	kept := a.enemies[:0]
	for _, e := range a.enemies {
		if e.Destroyed() {
			a.removeBody(e.body)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(a.enemies); i++ {
		a.enemies[i] = nil
	}
	a.enemies = kept

	if a.boss != nil && a.boss.Destroyed() {
		a.removeBody(a.boss.body)
		a.boss = nil
	}
}

// removeBody detaches a swept actor's body from the space. Test doubles
// that are not world bodies fall through.
func (a *Arena) removeBody(b phys.Body) {
	if db, ok := b.(*phys.DynamicBody); ok {
		a.world.Remove(db)
	}
}

// RequestFreeze pauses gameplay for ms of real time. Overlapping
// requests keep the longest remaining freeze, clamped to the arena's
// hitstop cap.
func (a *Arena) RequestFreeze(ms float64) {
	if a == nil || ms <= 0 {
		return
	}
	if limit := a.spec.HitstopMaxMs; limit > 0 && ms > limit {
		ms = limit
	}
	if ms > a.freezeLeft {
		a.freezeLeft = ms
	}
}

// SetScale sets the slow-motion multiplier. Zero pauses gameplay.
func (a *Arena) SetScale(s float64) {
	if a == nil {
		return
	}
	if s < 0 {
		s = 0
	}
	a.scale = s
}

func (a *Arena) Scale() float64 { return a.scale }

// Frozen reports whether a hitstop freeze is still burning off.
func (a *Arena) Frozen() bool { return a != nil && a.freezeLeft > 0 }

func (a *Arena) SimTime() float64 { return a.simTime }

func (a *Arena) Player() *Player { return a.player }

func (a *Arena) Enemies() []*Enemy { return a.enemies }

func (a *Arena) Boss() *Boss { return a.boss }

func (a *Arena) Weapons() *WeaponManager { return a.weapons }

func (a *Arena) Projectiles() *ProjectileManager { return a.projectiles }

func (a *Arena) Corpses() *CorpseManager { return a.corpses }

func (a *Arena) Bus() *events.Bus { return a.bus }

func (a *Arena) World() *phys.World { return a.world }

func (a *Arena) recordEvent(evt events.Event) {
	if len(a.recent) == eventTail {
		copy(a.recent, a.recent[1:])
		a.recent = a.recent[:eventTail-1]
	}
	a.recent = append(a.recent, EventRecord{At: a.simTime, Topic: evt.Topic, Data: evt.Data})
}

// RecentEvents returns a copy of the newest-last event tail.
func (a *Arena) RecentEvents() []EventRecord {
	out := make([]EventRecord, len(a.recent))
	copy(out, a.recent)
	return out
}
