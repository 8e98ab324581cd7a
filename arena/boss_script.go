package arena

import (
	"fmt"
	"log"
	"math"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/brawl/combat"
	"github.com/milk9111/brawl/common"
	"github.com/milk9111/brawl/prefabs"
)

// bossScriptDispatch is appended to every attack script. Scripts define
// on_start, on_tick, and on_end.
const bossScriptDispatch = `
if __phase == "start" {
	on_start(__engine, __state)
} else if __phase == "tick" {
	on_tick(__engine, __state, __elapsed, __delta)
} else if __phase == "end" {
	on_end(__engine, __state)
}
`

// scriptAttack runs a tengo-scripted attack pattern. The script compiles
// once; each execution gets a fresh state map shared across its phases.
type scriptAttack struct {
	spec      prefabs.BossAttackSpec
	compiled  *tengo.Compiled
	stateData *tengo.Map

	elapsed float64
	done    bool
	strikes int
}

func newScriptAttack(spec prefabs.BossAttackSpec) (*scriptAttack, error) {
	src, err := prefabs.LoadScript(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("attack script %s: %w", spec.Script, err)
	}

	script := tengo.NewScript(append(src, []byte("\n"+bossScriptDispatch)...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__elapsed", 0.0)
	_ = script.Add("__delta", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("attack script %s: %w", spec.Script, err)
	}
	return &scriptAttack{spec: spec, compiled: compiled}, nil
}

func (a *scriptAttack) ID() string { return a.spec.ID }

func (a *scriptAttack) Duration() float64 { return a.spec.DurationMs }

func (a *scriptAttack) Cooldown() float64 { return a.spec.CooldownMs }

func (a *scriptAttack) Start(b *Boss) {
	a.elapsed = 0
	a.done = false
	a.strikes = 0
	a.stateData = &tengo.Map{Value: map[string]tengo.Object{}}
	b.stop()
	a.runPhase("start", b, 0, 0)
}

func (a *scriptAttack) Tick(b *Boss, now, delta float64) bool {
	a.elapsed += delta
	a.runPhase("tick", b, a.elapsed, delta)
	return a.done
}

func (a *scriptAttack) End(b *Boss) {
	a.runPhase("end", b, a.elapsed, 0)
	b.shakeX = 0
}

func (a *scriptAttack) runPhase(phase string, b *Boss, elapsed, delta float64) {
	if a.compiled == nil {
		a.done = true
		return
	}
	if a.stateData == nil {
		a.stateData = &tengo.Map{Value: map[string]tengo.Object{}}
	}
	engine := a.buildEngine(b)
	if err := a.compiled.Set("__phase", phase); err != nil {
		log.Printf("boss: attack script %s: %v", a.spec.Script, err)
		a.done = true
		return
	}
	_ = a.compiled.Set("__engine", engine)
	_ = a.compiled.Set("__state", a.stateData)
	_ = a.compiled.Set("__elapsed", elapsed)
	_ = a.compiled.Set("__delta", delta)
	if err := a.compiled.Run(); err != nil {
		log.Printf("boss: attack script %s phase %s: %v", a.spec.Script, phase, err)
		// A broken script ends the attack instead of wedging the boss.
		a.done = true
	}
}

func (a *scriptAttack) buildEngine(b *Boss) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["target_distance"] = &tengo.UserFunction{Name: "target_distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		_, _, dist := b.targetDistance()
		return &tengo.Float{Value: dist}, nil
	}}

	values["direction_to_target"] = &tengo.UserFunction{Name: "direction_to_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
		dx, _, _ := b.targetDistance()
		switch {
		case dx < 0:
			return &tengo.Float{Value: -1}, nil
		case dx > 0:
			return &tengo.Float{Value: 1}, nil
		default:
			return &tengo.Float{Value: 0}, nil
		}
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y := b.body.Position()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}, nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		vx, okX := tengo.ToFloat64(args[0])
		vy, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		b.body.SetVelocity(vx, vy)
		return tengo.TrueValue, nil
	}}

	values["move_toward_target"] = &tengo.UserFunction{Name: "move_toward_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
		speed := b.spec.MoveSpeed
		if len(args) > 0 {
			if v, ok := tengo.ToFloat64(args[0]); ok && v > 0 {
				speed = v
			}
		}
		b.moveTowardTarget(speed)
		return tengo.TrueValue, nil
	}}

	values["face_target"] = &tengo.UserFunction{Name: "face_target", Value: func(args ...tengo.Object) (tengo.Object, error) {
		b.faceTarget()
		return tengo.TrueValue, nil
	}}

	values["is_wall_blocked"] = &tengo.UserFunction{Name: "is_wall_blocked", Value: func(args ...tengo.Object) (tengo.Object, error) {
		blocked := (b.facingLeft && b.body.BlockedLeft()) ||
			(!b.facingLeft && b.body.BlockedRight())
		if blocked {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["strike"] = &tengo.UserFunction{Name: "strike", Value: func(args ...tengo.Object) (tengo.Object, error) {
		scale := 1.0
		if len(args) > 0 {
			if v, ok := tengo.ToFloat64(args[0]); ok && v > 0 {
				scale = v
			}
		}
		if a.pulse(b, scale) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["complete"] = &tengo.UserFunction{Name: "complete", Value: func(args ...tengo.Object) (tengo.Object, error) {
		a.done = true
		return tengo.TrueValue, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		topic, ok := tengo.ToString(args[0])
		if !ok || topic == "" {
			return tengo.FalseValue, nil
		}
		b.bus.Publish(topic, b.eventPayload(0))
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// pulse lands one immediate ground strike centered on the boss. The reach
// scales per pulse so scripted waves expand outward; each pulse carries
// its own hitbox id so a target caught in the wave is hit by every ring.
func (a *scriptAttack) pulse(b *Boss, scale float64) bool {
	a.strikes++
	reach := a.spec.Reach * scale
	if reach <= 0 {
		reach = b.spec.Width * scale
	}
	target := b.target
	if target == nil || !target.Alive() || !target.CanBeHit() {
		return false
	}

	x, y := b.body.Position()
	rect := common.Centered(x, y, reach*2, b.spec.Height)
	caught := false
	for _, hb := range target.Hurtboxes() {
		if hb.Enabled && rect.Intersects(hb.Rect) {
			caught = true
			break
		}
	}
	if !caught {
		return false
	}

	tx, _ := target.Position()
	dmg := damageFrom(a.spec)
	// Knockback weakens toward the rim of the pulse.
	if falloff := 1 - math.Abs(tx-x)/reach; falloff > 0 && falloff < 1 {
		dmg.KnockbackX *= falloff
	}
	target.TakeDamage(dmg.Amount, combat.Hit{
		Damage:     dmg,
		AttackerID: b.id,
		HitboxID:   fmt.Sprintf("%s-%d", a.spec.ID, a.strikes),
		Faction:    combat.FactionEnemy,
		OriginX:    x,
		OriginY:    y,
	})
	return true
}
