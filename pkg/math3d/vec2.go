package math3d

// Vec2 represents a 2D vector, mostly used for texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Pixel rounds the vector to the nearest pixel.
func (a Vec2) Pixel() (x, y int) {
	return round(a.X), round(a.Y)
}

// Vec2i is an integer 2D vector addressing a pixel.
type Vec2i struct {
	X, Y int
}

// V2i creates a new Vec2i.
func V2i(x, y int) Vec2i {
	return Vec2i{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a.X - b.X, a.Y - b.Y}
}

// Pixel returns the components unchanged.
func (a Vec2i) Pixel() (x, y int) {
	return a.X, a.Y
}

// Vec2f converts to a float vector.
func (a Vec2i) Vec2f() Vec2 {
	return Vec2{float64(a.X), float64(a.Y)}
}

// Point is satisfied by any vector that can address a pixel. It lets one
// line-drawing entry point accept integer and float coordinates alike.
type Point interface {
	Vec2i | Vec2 | Vec3
	Pixel() (x, y int)
}
