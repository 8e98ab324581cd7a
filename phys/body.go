package phys

// Body is the movement handle actors drive. The world implementation is
// backed by a Chipmunk rigid body; tests substitute simpler fakes.
type Body interface {
	// Position reports the body center in world pixels.
	Position() (x, y float64)
	SetPosition(x, y float64)
	// Velocity is in pixels per second, y-down.
	Velocity() (vx, vy float64)
	SetVelocity(vx, vy float64)
	// ApplyImpulse kicks the body by roughly the given velocity delta.
	ApplyImpulse(ix, iy float64)
	SetGravityEnabled(enabled bool)
	GravityEnabled() bool
	// Grounded reports floor contact within the grace window.
	Grounded() bool
	BlockedLeft() bool
	BlockedRight() bool
	// SetEnabled removes a disabled body from the simulation entirely.
	SetEnabled(enabled bool)
	Enabled() bool
}
