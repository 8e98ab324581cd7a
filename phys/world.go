// Package phys wraps the Chipmunk space behind the handful of operations
// the simulation needs: rectangular bodies inside a walled arena, wall and
// ground contact flags, impulses, and per-body gravity control.
package phys

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/brawl/common"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
)

// groundGraceSteps keeps Grounded true for a few steps after the last
// floor contact so jitter at rest does not flicker the flag.
const groundGraceSteps = 6

const maxImpulseDeltaV = 900.0

// Config sizes the arena and sets global gravity (px/s^2, y-down).
type Config struct {
	Width   float64
	Height  float64
	Gravity float64
}

// World owns the Chipmunk space, the arena bounds, and every dynamic body.
type World struct {
	space   *cp.Space
	bounds  common.Rect
	gravity float64

	bodies map[*cp.Shape]*DynamicBody
	all    []*DynamicBody
}

func NewWorld(cfg Config) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	w := &World{
		space:   space,
		bounds:  common.Rect{Width: cfg.Width, Height: cfg.Height},
		gravity: cfg.Gravity,
		bodies:  make(map[*cp.Shape]*DynamicBody),
	}
	w.buildBounds()
	w.setupHandlers()
	return w
}

// Bounds returns the arena rect (origin at 0,0).
func (w *World) Bounds() common.Rect {
	if w == nil {
		return common.Rect{}
	}
	return w.bounds
}

// Gravity returns the global gravity in px/s^2.
func (w *World) Gravity() float64 {
	if w == nil {
		return 0
	}
	return w.gravity
}

func (w *World) buildBounds() {
	thickness := 1.0
	width, height := w.bounds.Width, w.bounds.Height
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: width, Y: 0}},
		{a: cp.Vector{X: 0, Y: height}, b: cp.Vector{X: width, Y: height}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: height}},
		{a: cp.Vector{X: width, Y: 0}, b: cp.Vector{X: width, Y: height}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		w.space.AddShape(shape)
	}
}

func (w *World) setupHandlers() {
	solid := w.space.NewCollisionHandler(collisionTypeActor, collisionTypeSolid)
	solid.UserData = w
	solid.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		body, bodyIsA := world.bodies[shapeA], true
		if body == nil {
			body, bodyIsA = world.bodies[shapeB], false
		}
		if body == nil {
			return true
		}
		// Normal points from the body into the solid.
		n := arb.Normal()
		if !bodyIsA {
			n = n.Neg()
		}
		if n.X < -0.5 {
			body.blockedLeft = true
		} else if n.X > 0.5 {
			body.blockedRight = true
		}
		if n.Y > 0.5 {
			body.groundGrace = groundGraceSteps
		}
		return true
	}

	// Actors never block each other; contact damage is resolved by
	// hitbox overlap, not by the solver.
	pass := w.space.NewCollisionHandler(collisionTypeActor, collisionTypeActor)
	pass.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		return false
	}
}

// BodyDef describes a new dynamic body. Zero Mass defaults to 1.
type BodyDef struct {
	X, Y          float64
	Width, Height float64
	Mass          float64
	GravityOff    bool
}

// NewBody adds a fixed-rotation box body to the space.
func (w *World) NewBody(def BodyDef) *DynamicBody {
	if w == nil || w.space == nil {
		return nil
	}
	mass := def.Mass
	if mass <= 0 {
		mass = 1.0
	}
	cpBody := cp.NewBody(mass, math.Inf(1))
	cpBody.SetAngle(0)
	cpBody.SetAngularVelocity(0)
	cpBody.SetPosition(cp.Vector{X: def.X, Y: def.Y})
	shape := cp.NewBox(cpBody, def.Width, def.Height, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeActor)

	w.space.AddBody(cpBody)
	w.space.AddShape(shape)

	b := &DynamicBody{
		world:   w,
		body:    cpBody,
		shape:   shape,
		width:   def.Width,
		height:  def.Height,
		gravity: !def.GravityOff,
		enabled: true,
	}
	if def.GravityOff {
		b.installVelocityFunc()
	}
	w.bodies[shape] = b
	w.all = append(w.all, b)
	return b
}

// Step advances the simulation by dt seconds and refreshes contact flags.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	for _, b := range w.all {
		b.blockedLeft = false
		b.blockedRight = false
		if b.groundGrace > 0 {
			b.groundGrace--
		}
	}
	w.space.Step(dt)
}

// Remove detaches the body from the space permanently.
func (w *World) Remove(b *DynamicBody) {
	if w == nil || b == nil || b.world != w {
		return
	}
	b.SetEnabled(false)
	delete(w.bodies, b.shape)
	for i, other := range w.all {
		if other == b {
			w.all = append(w.all[:i], w.all[i+1:]...)
			break
		}
	}
	b.world = nil
}

// DynamicBody is a fixed-rotation box in the world. It implements Body.
type DynamicBody struct {
	world  *World
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64

	blockedLeft  bool
	blockedRight bool
	groundGrace  int
	gravity      bool
	enabled      bool
}

func (b *DynamicBody) Position() (float64, float64) {
	if b == nil || b.body == nil {
		return 0, 0
	}
	pos := b.body.Position()
	return pos.X, pos.Y
}

func (b *DynamicBody) SetPosition(x, y float64) {
	if b == nil || b.body == nil {
		return
	}
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (b *DynamicBody) Velocity() (float64, float64) {
	if b == nil || b.body == nil {
		return 0, 0
	}
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *DynamicBody) SetVelocity(vx, vy float64) {
	if b == nil || b.body == nil {
		return
	}
	b.body.SetVelocity(vx, vy)
}

// ApplyImpulse kicks the body and clamps the resulting speed along the
// impulse direction so stacked hits cannot launch it through walls.
func (b *DynamicBody) ApplyImpulse(ix, iy float64) {
	if b == nil || b.body == nil {
		return
	}
	mass := b.body.Mass()
	b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: ix * mass, Y: iy * mass}, b.body.Position())

	mag := math.Hypot(ix, iy)
	if mag <= 0 {
		return
	}
	nx, ny := ix/mag, iy/mag
	v := b.body.Velocity()
	along := v.X*nx + v.Y*ny
	if along > maxImpulseDeltaV {
		excess := along - maxImpulseDeltaV
		b.body.SetVelocity(v.X-excess*nx, v.Y-excess*ny)
	}
}

func (b *DynamicBody) SetGravityEnabled(enabled bool) {
	if b == nil || b.body == nil || b.gravity == enabled {
		return
	}
	b.gravity = enabled
	if enabled {
		b.body.SetVelocityUpdateFunc(cp.BodyUpdateVelocity)
		return
	}
	b.installVelocityFunc()
}

func (b *DynamicBody) installVelocityFunc() {
	b.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
}

func (b *DynamicBody) GravityEnabled() bool { return b != nil && b.gravity }

func (b *DynamicBody) Grounded() bool { return b != nil && b.groundGrace > 0 }

func (b *DynamicBody) BlockedLeft() bool { return b != nil && b.blockedLeft }

func (b *DynamicBody) BlockedRight() bool { return b != nil && b.blockedRight }

// SetEnabled adds or removes the body from the space. A disabled body keeps
// its last position but no longer moves or collides.
func (b *DynamicBody) SetEnabled(enabled bool) {
	if b == nil || b.body == nil || b.world == nil || b.world.space == nil || b.enabled == enabled {
		return
	}
	b.enabled = enabled
	if enabled {
		b.world.space.AddBody(b.body)
		b.world.space.AddShape(b.shape)
		return
	}
	b.body.SetVelocity(0, 0)
	b.world.space.RemoveShape(b.shape)
	b.world.space.RemoveBody(b.body)
	b.blockedLeft = false
	b.blockedRight = false
	b.groundGrace = 0
}

func (b *DynamicBody) Enabled() bool { return b != nil && b.enabled }

// Size returns the body's box dimensions.
func (b *DynamicBody) Size() (width, height float64) {
	if b == nil {
		return 0, 0
	}
	return b.width, b.height
}
