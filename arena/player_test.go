package arena

import (
	"testing"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/events"
	"github.com/milk9111/brawl/prefabs"
)

// playerWeaponsSpec carries a full light string plus heavy and air slots
// on two weapons so swap tests have somewhere to go.
func playerWeaponsSpec() *prefabs.WeaponsSpec {
	slots := map[string]prefabs.WeaponAttackSpec{
		"light1": {
			StartupMs:    100,
			ActiveMs:     100,
			RecoveryMs:   200,
			Damage:       2,
			Reach:        40,
			KnockbackX:   160,
			HitstunMs:    150,
			HitstopMs:    30,
			ComboInto:    []string{"light2"},
			CancelWindow: 0.5,
			MeterGain:    4,
		},
		"light2": {
			StartupMs:    100,
			ActiveMs:     100,
			RecoveryMs:   200,
			Damage:       2,
			Reach:        44,
			KnockbackX:   180,
			HitstunMs:    160,
			ComboInto:    []string{"light3", "heavy"},
			CancelWindow: 0.5,
			MeterGain:    4,
		},
		"light3": {
			StartupMs:    150,
			ActiveMs:     100,
			RecoveryMs:   250,
			Damage:       4,
			Reach:        50,
			KnockbackX:   320,
			HitstunMs:    260,
			CancelWindow: 0.2,
			MeterGain:    8,
		},
		"heavy": {
			StartupMs:  250,
			ActiveMs:   100,
			RecoveryMs: 300,
			Damage:     6,
			Reach:      58,
			KnockbackX: 420,
			HitstunMs:  320,
			MeterGain:  12,
		},
		"air": {
			StartupMs:  80,
			ActiveMs:   120,
			RecoveryMs: 100,
			Damage:     2,
			Reach:      36,
			HitstunMs:  120,
			MeterGain:  4,
		},
	}
	return &prefabs.WeaponsSpec{
		Starting: "saber",
		SwapMs:   400,
		Weapons: []prefabs.WeaponSpec{
			{ID: "saber", Name: "Saber", Slots: slots},
			{ID: "maul", Name: "Maul", Slots: slots},
		},
	}
}

func playerSpec() prefabs.PlayerSpec {
	return prefabs.PlayerSpec{
		Health:        10,
		Width:         28,
		Height:        44,
		MoveSpeed:     220,
		JumpSpeed:     560,
		HurtIFramesMs: 800,
		MeterMax:      100,
	}
}

func spawnTestPlayer(t *testing.T) (*Player, *fakeBody, *WeaponManager, *events.Bus) {
	t.Helper()
	set, err := NewWeaponSet(playerWeaponsSpec())
	if err != nil {
		t.Fatalf("NewWeaponSet: %v", err)
	}
	bus := events.NewBus()
	weapons := NewWeaponManager(set, "saber", 400, bus)
	weapons.Unlock("maul")
	body := newFakeBody(100, 300)
	body.grounded = true
	p := newPlayer(body, bus, PlayerConfig{Spec: playerSpec(), X: 100, Y: 300, Weapons: weapons})
	return p, body, weapons, bus
}

func TestPlayerWalksAndIdles(t *testing.T) {
	p, body, _, _ := spawnTestPlayer(t)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("initial state = %q, want %q", got, playerIdle)
	}

	p.SetIntent(Intent{MoveX: 1})
	p.Update(0, 16)
	if got := p.StateName(); got != playerMove {
		t.Fatalf("state = %q after a move press, want %q", got, playerMove)
	}
	p.SetIntent(Intent{MoveX: 1})
	p.Update(16, 16)
	if body.vx != 220 {
		t.Fatalf("vx = %v while walking right, want 220", body.vx)
	}
	if p.FacingLeft() {
		t.Fatal("player faces left while walking right")
	}

	p.SetIntent(Intent{MoveX: -1})
	p.Update(32, 16)
	if body.vx != -220 {
		t.Fatalf("vx = %v while walking left, want -220", body.vx)
	}
	if !p.FacingLeft() {
		t.Fatal("player faces right while walking left")
	}

	p.Update(48, 16)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after input stops, want %q", got, playerIdle)
	}
	if body.vx != 0 {
		t.Fatalf("vx = %v after stopping, want 0", body.vx)
	}
}

func TestPlayerJumpLaunchesUpward(t *testing.T) {
	p, body, _, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Jump: true})
	p.Update(0, 16)
	if body.vy != -560 {
		t.Fatalf("vy = %v after jump, want -560", body.vy)
	}
	if got := p.StateName(); got != playerMove {
		t.Fatalf("state = %q after jump, want %q", got, playerMove)
	}

	// Airborne with no held direction stays in move.
	body.grounded = false
	p.Update(16, 16)
	if got := p.StateName(); got != playerMove {
		t.Fatalf("state = %q while airborne, want %q", got, playerMove)
	}

	body.grounded = true
	body.vy = 0
	p.Update(32, 16)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after landing, want %q", got, playerIdle)
	}
}

func TestPlayerAttackPhases(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	if got := p.StateName(); got != playerAttack {
		t.Fatalf("state = %q after attack press, want %q", got, playerAttack)
	}
	if p.attack.Slot != SlotLight1 {
		t.Fatalf("attack slot = %q, want %q", p.attack.Slot, SlotLight1)
	}
	if boxes := p.Hitboxes(); len(boxes) != 0 {
		t.Fatalf("hitboxes = %d before startup ends, want 0", len(boxes))
	}

	p.Update(16, 84)
	if boxes := p.Hitboxes(); len(boxes) != 0 {
		t.Fatalf("hitboxes = %d during startup, want 0", len(boxes))
	}

	p.Update(100, 20)
	boxes := p.Hitboxes()
	if len(boxes) != 1 {
		t.Fatalf("hitboxes = %d during active frames, want 1", len(boxes))
	}
	hb := boxes[0]
	if hb.ID != "swing-1" {
		t.Fatalf("hitbox id = %q, want swing-1", hb.ID)
	}
	if hb.Damage.Amount != 2 || hb.Damage.MeterGain != 4 || hb.Damage.Hitstun != 150 {
		t.Fatalf("hitbox damage = %+v, want amount 2 meter 4 hitstun 150", hb.Damage)
	}
	// Reach 40 in front of a 28-wide player at x=100 centers at 134.
	if got := hb.Rect.CenterX(); got != 134 {
		t.Fatalf("hitbox center x = %v, want 134", got)
	}

	p.Update(120, 100)
	if boxes := p.Hitboxes(); len(boxes) != 0 {
		t.Fatalf("hitboxes = %d during recovery, want 0", len(boxes))
	}

	p.Update(220, 200)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after the attack ends, want %q", got, playerIdle)
	}
}

func TestPlayerAttackFacesHeldDirection(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Light: true, MoveX: -1})
	p.Update(0, 16)
	if !p.FacingLeft() {
		t.Fatal("attack did not face the held direction")
	}

	p.Update(16, 120)
	boxes := p.Hitboxes()
	if len(boxes) != 1 {
		t.Fatalf("hitboxes = %d during active frames, want 1", len(boxes))
	}
	if got := boxes[0].Rect.CenterX(); got != 66 {
		t.Fatalf("hitbox center x = %v facing left, want 66", got)
	}
}

func TestPlayerComboChainsInCancelWindow(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	p.Update(16, 120)
	if boxes := p.Hitboxes(); len(boxes) != 1 || boxes[0].ID != "swing-1" {
		t.Fatalf("first swing not armed: %+v", boxes)
	}

	// Buffer the next light mid-active; the chain fires once the cancel
	// window opens.
	p.SetIntent(Intent{Light: true})
	p.Update(136, 30)
	if p.attack.Slot != SlotLight1 {
		t.Fatalf("chained before the cancel window: slot %q", p.attack.Slot)
	}
	p.Update(166, 60)
	if p.attack.Slot != SlotLight2 {
		t.Fatalf("attack slot = %q after the window opened, want %q", p.attack.Slot, SlotLight2)
	}
	if got := p.StateName(); got != playerAttack {
		t.Fatalf("state = %q mid-string, want %q", got, playerAttack)
	}

	p.Update(226, 120)
	if boxes := p.Hitboxes(); len(boxes) != 1 || boxes[0].ID != "swing-2" {
		t.Fatalf("second swing not armed: %+v", boxes)
	}

	// A buffered heavy takes the branch light2 offers.
	p.SetIntent(Intent{Heavy: true})
	p.Update(346, 30)
	p.Update(376, 60)
	if p.attack.Slot != SlotHeavy {
		t.Fatalf("attack slot = %q after heavy branch, want %q", p.attack.Slot, SlotHeavy)
	}

	p.Update(436, 300)
	boxes := p.Hitboxes()
	if len(boxes) != 1 || boxes[0].ID != "swing-3" {
		t.Fatalf("heavy swing not armed: %+v", boxes)
	}
	if boxes[0].Damage.Amount != 6 {
		t.Fatalf("heavy damage = %d, want 6", boxes[0].Damage.Amount)
	}

	p.Update(736, 350)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after the heavy ends, want %q", got, playerIdle)
	}
}

func TestPlayerLightStringEndsAtFinisher(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	// Mash light through the whole string.
	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	p.Update(16, 120)
	p.SetIntent(Intent{Light: true})
	p.Update(136, 30)
	p.Update(166, 60)
	if p.attack.Slot != SlotLight2 {
		t.Fatalf("slot = %q after first chain, want %q", p.attack.Slot, SlotLight2)
	}
	p.Update(226, 120)
	p.SetIntent(Intent{Light: true})
	p.Update(346, 30)
	p.Update(376, 60)
	if p.attack.Slot != SlotLight3 {
		t.Fatalf("slot = %q after second chain, want %q", p.attack.Slot, SlotLight3)
	}

	p.Update(436, 160)
	if boxes := p.Hitboxes(); len(boxes) != 1 || boxes[0].ID != "swing-3" {
		t.Fatalf("finisher swing not armed: %+v", boxes)
	}

	// The finisher has no combo entries, so a buffered light fizzles.
	p.SetIntent(Intent{Light: true})
	p.Update(596, 40)
	p.Update(636, 210)
	if p.attack.Slot != SlotLight3 {
		t.Fatalf("slot = %q, finisher must not chain", p.attack.Slot)
	}
	p.Update(846, 100)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after the string ends, want %q", got, playerIdle)
	}
	if p.swings != 3 {
		t.Fatalf("swings = %d across the string, want 3", p.swings)
	}
}

func TestPlayerAirAttackUsesAirSlot(t *testing.T) {
	p, body, _, _ := spawnTestPlayer(t)
	body.grounded = false
	body.vx = 150

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	if p.attack.Slot != SlotAir {
		t.Fatalf("attack slot = %q while airborne, want %q", p.attack.Slot, SlotAir)
	}
	// Air swings keep their momentum.
	if body.vx != 150 {
		t.Fatalf("vx = %v at air swing start, want 150", body.vx)
	}
}

func TestPlayerSwapRejectedUntilRecovery(t *testing.T) {
	p, _, weapons, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)

	// Startup and active frames refuse the swap.
	p.SetIntent(Intent{SwapNext: true})
	p.Update(16, 50)
	if weapons.Swapping() {
		t.Fatal("swap accepted during startup")
	}
	p.SetIntent(Intent{SwapNext: true})
	p.Update(66, 100)
	if weapons.Swapping() {
		t.Fatal("swap accepted during active frames")
	}

	// Recovery routes it through.
	p.SetIntent(Intent{SwapNext: true})
	p.Update(166, 100)
	if !weapons.Swapping() {
		t.Fatal("swap rejected during recovery")
	}
	if pending := weapons.Pending(); pending == nil || pending.ID() != "maul" {
		t.Fatalf("pending = %v, want maul", pending)
	}

	p.Update(266, 150)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after the attack ends, want %q", got, playerIdle)
	}
	p.Update(416, 250)
	if weapons.Swapping() {
		t.Fatal("swap still in flight after its duration")
	}
	if got := weapons.Equipped().ID(); got != "maul" {
		t.Fatalf("equipped = %q after the swap, want maul", got)
	}
}

func TestPlayerAttackIgnoredWhileSwapping(t *testing.T) {
	p, _, weapons, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{SwapNext: true})
	p.Update(0, 16)
	if !weapons.Swapping() {
		t.Fatal("swap not started from idle")
	}

	p.SetIntent(Intent{Light: true})
	p.Update(16, 16)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q attacking mid-swap, want %q", got, playerIdle)
	}

	p.Update(32, 400)
	if weapons.Swapping() {
		t.Fatal("swap still in flight after its duration")
	}
	p.SetIntent(Intent{Light: true})
	p.Update(432, 16)
	if got := p.StateName(); got != playerAttack {
		t.Fatalf("state = %q attacking after the swap, want %q", got, playerAttack)
	}
}

func TestPlayerTakeDamageKnocksBackAndStuns(t *testing.T) {
	p, body, _, bus := spawnTestPlayer(t)
	damaged := 0
	var last PlayerEvent
	bus.Subscribe(events.PlayerDamaged, func(evt events.Event) {
		damaged++
		last = evt.Data.(PlayerEvent)
	})

	hit := combat.Hit{
		Damage:     combat.Damage{Amount: 3, KnockbackX: 200, KnockbackY: -120, Hitstun: 250},
		AttackerID: 77,
		HitboxID:   "melee-1",
		Faction:    combat.FactionEnemy,
		OriginX:    140,
		OriginY:    300,
	}
	p.TakeDamage(3, hit)

	if p.health.Current != 7 {
		t.Fatalf("health = %d after the hit, want 7", p.health.Current)
	}
	if damaged != 1 || last.Damage != 3 || last.Health != 7 {
		t.Fatalf("damaged events = %d payload %+v, want 1 event with damage 3 health 7", damaged, last)
	}
	if got := p.StateName(); got != playerHitstun {
		t.Fatalf("state = %q after the hit, want %q", got, playerHitstun)
	}
	// Hit came from the right, so the knockback pushes left.
	if body.vx != -200 || body.vy != -120 {
		t.Fatalf("velocity = (%v, %v) after knockback, want (-200, -120)", body.vx, body.vy)
	}
	if p.CanBeHit() {
		t.Fatal("player hittable during i-frames")
	}

	// A second hit inside the i-frames does nothing.
	p.TakeDamage(3, hit)
	if p.health.Current != 7 || damaged != 1 {
		t.Fatalf("health = %d events = %d after an i-framed hit, want 7 and 1", p.health.Current, damaged)
	}

	p.Update(0, 250)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after hitstun drains, want %q", got, playerIdle)
	}
	if p.CanBeHit() {
		t.Fatal("i-frames ended with the hitstun")
	}
	p.Update(250, 600)
	if !p.CanBeHit() {
		t.Fatal("player still invulnerable after i-frames expire")
	}
}

func TestPlayerHitstunInterruptsAttack(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	p.Update(16, 120)
	if len(p.Hitboxes()) != 1 {
		t.Fatal("swing not armed")
	}

	hit := combat.Hit{
		Damage:  combat.Damage{Amount: 2, Hitstun: 300},
		OriginX: 50,
	}
	p.TakeDamage(2, hit)
	if got := p.StateName(); got != playerHitstun {
		t.Fatalf("state = %q after a mid-swing hit, want %q", got, playerHitstun)
	}
	if boxes := p.Hitboxes(); len(boxes) != 0 {
		t.Fatalf("hitboxes = %d after the interrupt, want 0", len(boxes))
	}

	p.Update(136, 300)
	if got := p.StateName(); got != playerIdle {
		t.Fatalf("state = %q after hitstun drains, want %q", got, playerIdle)
	}

	// The next swing continues the lifetime counter.
	p.SetIntent(Intent{Light: true})
	p.Update(436, 16)
	p.Update(452, 120)
	if boxes := p.Hitboxes(); len(boxes) != 1 || boxes[0].ID != "swing-2" {
		t.Fatalf("post-stun swing = %+v, want swing-2", boxes)
	}
}

func TestPlayerDeathPublishesAndLocksControls(t *testing.T) {
	p, _, _, bus := spawnTestPlayer(t)
	died := 0
	bus.Subscribe(events.PlayerDied, func(events.Event) { died++ })

	p.TakeDamage(10, combat.Hit{Damage: combat.Damage{Amount: 10}, OriginX: 0})
	if p.Alive() {
		t.Fatal("player alive after lethal damage")
	}
	if died != 1 {
		t.Fatalf("died events = %d, want 1", died)
	}
	if got := p.StateName(); got != playerDead {
		t.Fatalf("state = %q after death, want %q", got, playerDead)
	}

	p.SetIntent(Intent{Light: true})
	p.Update(0, 16)
	if got := p.StateName(); got != playerDead {
		t.Fatalf("state = %q after a post-death press, want %q", got, playerDead)
	}
	if hurts := p.Hurtboxes(); hurts[0].Enabled {
		t.Fatal("hurtbox still enabled after death")
	}

	p.TakeDamage(5, combat.Hit{Damage: combat.Damage{Amount: 5}})
	if died != 1 {
		t.Fatalf("died events = %d after a post-death hit, want 1", died)
	}
}

func TestPlayerMeterCapsAtMax(t *testing.T) {
	p, _, _, _ := spawnTestPlayer(t)

	p.GainMeter(60)
	if p.Meter() != 60 {
		t.Fatalf("meter = %d, want 60", p.Meter())
	}
	p.GainMeter(60)
	if p.Meter() != 100 {
		t.Fatalf("meter = %d after overfill, want the 100 cap", p.Meter())
	}
	p.GainMeter(0)
	p.GainMeter(-5)
	if p.Meter() != 100 {
		t.Fatalf("meter = %d after no-op gains, want 100", p.Meter())
	}
}
