package render

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	// Translate shifts the image by (tx, ty).
	Translate(tx, ty float64)

	// Scale scales the image by (sx, sy).
	Scale(sx, sy float64)

	// Apply transforms the point (x, y).
	Apply(x, y float64) (float64, float64)
}

// Matrix is a GeoM for backends without their own transform type:
//
//	| a  b  tx |
//	| c  d  ty |
//
// The zero value is the identity.
type Matrix struct {
	// Stored as deltas from identity so the zero value is usable.
	a1, b, c, d1, tx, ty float64
}

// Translate shifts subsequent output by (tx, ty).
func (m *Matrix) Translate(tx, ty float64) {
	m.tx += tx
	m.ty += ty
}

// Scale scales the current transform by (sx, sy).
func (m *Matrix) Scale(sx, sy float64) {
	a := (m.a1 + 1) * sx
	d := (m.d1 + 1) * sy
	m.a1 = a - 1
	m.b *= sx
	m.c *= sy
	m.d1 = d - 1
	m.tx *= sx
	m.ty *= sy
}

// Apply transforms the point (x, y).
func (m *Matrix) Apply(x, y float64) (float64, float64) {
	return (m.a1+1)*x + m.b*y + m.tx, m.c*x + (m.d1+1)*y + m.ty
}
