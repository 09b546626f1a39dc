// Package geom provides the small amount of vector geometry the interlink
// engine needs: Euclidean distances between satellites and the spherical-Earth
// line-of-sight test. All vectors are Earth-centered inertial, in kilometres.
package geom

import "math"

// Vec3 is an Earth-centered inertial position vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// ChordClearance returns the minimum distance from Earth's centre (the
// origin) to the straight segment between p1 and p2.
//
// The closest point on the segment Q(t) = p1 + t(p2-p1) to the origin is at
// t* = clamp(-p1·(p2-p1) / |p2-p1|², 0, 1). For the degenerate case p1 == p2
// the segment is a point and the clearance is simply |p1|.
func ChordClearance(p1, p2 Vec3) float64 {
	d := p2.Sub(p1)
	a := d.Dot(d)
	if a == 0 {
		return p1.Norm()
	}

	t := -p1.Dot(d) / a
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Vec3{
		X: p1.X + d.X*t,
		Y: p1.Y + d.Y*t,
		Z: p1.Z + d.Z*t,
	}
	return closest.Norm()
}

// HasLineOfSight reports whether the straight segment between p1 and p2
// clears a spherical Earth of the given radius. Coincident positions have
// no segment to occlude and always see each other.
func HasLineOfSight(p1, p2 Vec3, earthRadiusKm float64) bool {
	if p1 == p2 {
		return true
	}
	return ChordClearance(p1, p2) >= earthRadiusKm
}
