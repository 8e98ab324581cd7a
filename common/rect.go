package common

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Centered returns a rect of the given size centered on (cx, cy).
func Centered(cx, cy, width, height float64) Rect {
	return Rect{X: cx - width/2, Y: cy - height/2, Width: width, Height: height}
}
