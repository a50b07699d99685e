package scene

import (
	stdmath "math"

	"pathtracer/materials"
	"pathtracer/math"
)

// Sphere is the sole supported primitive: a center, a positive radius, and a
// material. The BVH carries each leaf's scene index through the build, so
// flattening maps leaves back to scene indices without comparing Spheres.
type Sphere struct {
	Center math.Vec3
	Radius float32
	Mat    materials.Material
}

func NewSphere(center math.Vec3, radius float32, mat materials.Material) Sphere {
	return Sphere{Center: center, Radius: radius, Mat: mat}
}

// BoundingBox returns [center-r, center+r] per axis.
func (s Sphere) BoundingBox() math.AABB {
	rvec := math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return math.AABBFromPoints(s.Center.Sub(rvec), s.Center.Add(rvec))
}

// Hit solves the ray/sphere quadratic and, on a hit within rayT, fills in a
// HitRecord oriented against the incoming ray.
func (s Sphere) Hit(r math.Ray, rayT math.Interval) (materials.HitRecord, bool) {
	oc := s.Center.Sub(r.Origin)
	a := r.Dir.Dot(r.Dir)
	h := r.Dir.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := h*h - a*c
	if disc < 0 {
		return materials.HitRecord{}, false
	}
	sqrtd := float32(stdmath.Sqrt(float64(disc)))

	root := (h - sqrtd) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtd) / a
		if !rayT.Surrounds(root) {
			return materials.HitRecord{}, false
		}
	}

	var rec materials.HitRecord
	rec.T = root
	rec.P = r.At(root)
	outwardNormal := rec.P.Sub(s.Center).Div(s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	rec.Mat = s.Mat
	return rec, true
}
