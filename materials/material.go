package materials

import (
	stdmath "math"

	"pathtracer/math"
)

// Type discriminates the closed set of material variants. Adding a new
// material is a new constant, a new Scatter branch below, and a new
// mat_type case in the compute shader — never a new interface.
type Type int32

const (
	Lambertian Type = iota
	Metallic
	Dielectric
)

// Material is a tagged variant over the three supported surface models.
// Albedo is meaningful for Lambertian and Metallic; Fuzz only for Metallic;
// RefractionIndex only for Dielectric.
type Material struct {
	Type            Type
	Albedo          math.Vec3
	Fuzz            float32
	RefractionIndex float32
}

func NewLambertian(albedo math.Vec3) Material {
	return Material{Type: Lambertian, Albedo: albedo}
}

func NewMetallic(albedo math.Vec3, fuzz float32) Material {
	if fuzz > 1 {
		fuzz = 1
	}
	return Material{Type: Metallic, Albedo: albedo, Fuzz: fuzz}
}

func NewDielectric(refractionIndex float32) Material {
	return Material{Type: Dielectric, RefractionIndex: refractionIndex}
}

// --- Default material library, mirroring the small catalog of ready-made
// materials a host scene commonly reaches for. ---

func DefaultMaterial() Material { return NewLambertian(math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}) }
func RedMaterial() Material     { return NewLambertian(math.Vec3{X: 0.8, Y: 0.1, Z: 0.1}) }
func GreenMaterial() Material   { return NewLambertian(math.Vec3{X: 0.1, Y: 0.6, Z: 0.1}) }
func BlueMaterial() Material    { return NewLambertian(math.Vec3{X: 0.1, Y: 0.2, Z: 0.8}) }

func PolishedMetal() Material {
	return NewMetallic(math.Vec3{X: 0.8, Y: 0.8, Z: 0.9}, 0.0)
}

func BrushedMetal(fuzz float32) Material {
	return NewMetallic(math.Vec3{X: 0.7, Y: 0.6, Z: 0.5}, fuzz)
}

func Glass() Material {
	return NewDielectric(1.5)
}

// HitRecord is the outcome of a ray/primitive intersection: the point of
// intersection, a normal already disambiguated to face the incoming ray,
// the ray parameter, and a copy of the hit material.
type HitRecord struct {
	P         math.Vec3
	Normal    math.Vec3
	T         float32
	FrontFace bool
	Mat       Material
}

// SetFaceNormal orients Normal to point against the incoming ray direction
// and records whether the hit was on the outward-facing side.
func (h *HitRecord) SetFaceNormal(r math.Ray, outwardNormal math.Vec3) {
	h.FrontFace = r.Dir.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Scatter applies this material's scattering model to an incoming ray at a
// hit point. It returns ok=false when the ray is absorbed.
func Scatter(m Material, rIn math.Ray, rec HitRecord, rng *math.RNG) (attenuation math.Vec3, scattered math.Ray, ok bool) {
	switch m.Type {
	case Lambertian:
		dir := rec.Normal.Add(math.RandomUnitVector(rng))
		if dir.NearZero() {
			dir = rec.Normal
		}
		return m.Albedo, math.NewRay(rec.P, dir), true

	case Metallic:
		reflected := rIn.Dir.Normalize().Reflect(rec.Normal)
		reflected = reflected.Add(math.RandomUnitVector(rng).Mul(m.Fuzz))
		if reflected.Dot(rec.Normal) <= 0 {
			return math.Vec3{}, math.Ray{}, false
		}
		return m.Albedo, math.NewRay(rec.P, reflected), true

	case Dielectric:
		eta := m.RefractionIndex
		if rec.FrontFace {
			eta = 1.0 / m.RefractionIndex
		}

		unitDir := rIn.Dir.Normalize()
		cosTheta := minF32(unitDir.Negate().Dot(rec.Normal), 1.0)
		sinTheta := sqrt32(1.0 - cosTheta*cosTheta)

		cannotRefract := eta*sinTheta > 1.0

		var dir math.Vec3
		if cannotRefract || reflectance(cosTheta, eta) > rng.Float32() {
			dir = unitDir.Reflect(rec.Normal)
		} else {
			dir = unitDir.Refract(rec.Normal, eta)
		}

		return math.Vec3{X: 1, Y: 1, Z: 1}, math.NewRay(rec.P, dir), true
	}

	return math.Vec3{}, math.Ray{}, false
}

// Reflectance is Schlick's approximation: R0 + (1-R0)(1-cos)^5, where R0 is
// the reflectance at normal incidence.
func reflectance(cosine, refractionIndex float32) float32 {
	r0 := (1 - refractionIndex) / (1 + refractionIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*pow5(1-cosine)
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func sqrt32(x float32) float32 {
	if x < 0 {
		return 0
	}
	return float32(stdmath.Sqrt(float64(x)))
}
