package grin

import "math"

// Vec3 is a point or direction in lens coordinates; Z is the optical axis.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }
func (v Vec3) Sub(u Vec3) Vec3 { return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(u Vec3) float64 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Radial returns the transverse distance from the optical axis.
func (v Vec3) Radial() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// IsFinite reports whether no component is NaN or Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Lerp interpolates between v (s=0) and u (s=1).
func (v Vec3) Lerp(u Vec3, s float64) Vec3 {
	return Vec3{
		v.X + (u.X-v.X)*s,
		v.Y + (u.Y-v.Y)*s,
		v.Z + (u.Z-v.Z)*s,
	}
}
