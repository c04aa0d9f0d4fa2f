// Package geom provides the small set of vector, triangle and polygon
// helpers that the mesh data structures are built on. All functions are
// pure, deterministic and operate on sdfx v3 vectors.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Distance returns the euclidean distance between a and b.
func Distance(a, b v3.Vec) float64 {
	return b.Sub(a).Length()
}

// Lerp returns the point on the line through a and b at parameter t.
// t=0 yields a, t=1 yields b; values outside [0,1] extrapolate.
func Lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b v3.Vec) v3.Vec {
	return Lerp(a, b, 0.5)
}

// Centroid returns the arithmetic mean of the given points.
// The centroid of an empty set is the zero vector.
func Centroid(pts []v3.Vec) v3.Vec {
	if len(pts) == 0 {
		return v3.Vec{}
	}
	var sum v3.Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.DivScalar(float64(len(pts)))
}

// TriangleNormal returns the unit normal of triangle (a, b, c) following
// the right-hand rule on the winding order, or the zero vector if the
// triangle is degenerate.
func TriangleNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.DivScalar(l)
}

// TriangleArea returns the area of triangle (a, b, c).
func TriangleArea(a, b, c v3.Vec) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Length()
}

// PolygonNormal returns the unit Newell normal of a closed polygon given
// as an ordered vertex cycle, or the zero vector if the polygon is
// degenerate. For planar polygons this matches the plane normal.
func PolygonNormal(cycle []v3.Vec) v3.Vec {
	var n v3.Vec
	for i, p := range cycle {
		q := cycle[(i+1)%len(cycle)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.DivScalar(l)
}

// LineLineIntersectionXY intersects two lines in the XY plane, each given
// by two points on it. Z components are ignored and the result has Z=0.
// The boolean is false when the lines are parallel (or either is
// degenerate).
func LineLineIntersectionXY(a1, a2, b1, b2 v3.Vec) (v3.Vec, bool) {
	l1 := v3.Vec{X: a1.X, Y: a1.Y, Z: 1}.Cross(v3.Vec{X: a2.X, Y: a2.Y, Z: 1})
	l2 := v3.Vec{X: b1.X, Y: b1.Y, Z: 1}.Cross(v3.Vec{X: b2.X, Y: b2.Y, Z: 1})
	p := l1.Cross(l2)
	if math.Abs(p.Z) < 1e-12 {
		return v3.Vec{}, false
	}
	return v3.Vec{X: p.X / p.Z, Y: p.Y / p.Z}, true
}

// GeometricKey maps a point to a string key with the given number of
// decimals, so that nearly coincident points hash to the same key.
// Used for welding vertices when building meshes from triangle soup.
func GeometricKey(p v3.Vec, decimals int) string {
	x, y, z := p.X, p.Y, p.Z
	// Avoid distinct keys for 0 and -0.
	if x == 0 {
		x = 0
	}
	if y == 0 {
		y = 0
	}
	if z == 0 {
		z = 0
	}
	return fmt.Sprintf("%.*f,%.*f,%.*f", decimals, x, decimals, y, decimals, z)
}
