package materials

import (
	"math"
	"testing"

	pmath "pathtracer/math"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestReflectLaw(t *testing.T) {
	d := pmath.NewVec3(1, -1, 0).Normalize()
	n := pmath.Vec3Up

	r := d.Reflect(n)
	expected := d.Sub(n.Mul(2 * d.Dot(n)))
	if !approxEqual(r.X, expected.X, 1e-6) || !approxEqual(r.Y, expected.Y, 1e-6) || !approxEqual(r.Z, expected.Z, 1e-6) {
		t.Errorf("Reflect: expected %v, got %v", expected, r)
	}
	if !approxEqual(r.Length(), 1, 1e-5) {
		t.Errorf("Reflect: expected unit length for a unit input, got %v", r.Length())
	}
}

func TestRefractEtaOne(t *testing.T) {
	d := pmath.NewVec3(0.4, -0.8, 0.2).Normalize()
	n := pmath.Vec3Up

	r := d.Refract(n, 1.0)
	if !approxEqual(r.X, d.X, 1e-4) || !approxEqual(r.Y, d.Y, 1e-4) || !approxEqual(r.Z, d.Z, 1e-4) {
		t.Errorf("Refract with eta=1: expected input direction %v, got %v", d, r)
	}
}

func TestSchlickBounds(t *testing.T) {
	ior := float32(1.5)
	r0 := (1 - ior) / (1 + ior)
	r0 = r0 * r0

	for _, cos := range []float32{0, 0.25, 0.5, 0.75, 1.0} {
		r := reflectance(cos, ior)
		if r < 0 || r > 1 {
			t.Errorf("reflectance(%v): expected value in [0,1], got %v", cos, r)
		}
	}

	if got := reflectance(0, ior); !approxEqual(got, 1, 1e-6) {
		t.Errorf("reflectance(0): expected 1, got %v", got)
	}
	if got := reflectance(1, ior); !approxEqual(got, r0, 1e-6) {
		t.Errorf("reflectance(1): expected R0=%v, got %v", r0, got)
	}
}

func TestDielectricGrazingAlwaysReflects(t *testing.T) {
	// A ray nearly parallel to the surface, leaving the denser medium
	// (back face, so eta = ior = 1.5 > 1), must exceed the critical angle
	// and always take the reflection branch.
	mat := NewDielectric(1.5)
	rIn := pmath.NewRay(pmath.Vec3Zero, pmath.NewVec3(1, -0.01, 0))
	rec := HitRecord{
		P:         pmath.NewVec3(0, 0, 0),
		Normal:    pmath.Vec3Up,
		FrontFace: false,
		Mat:       mat,
	}
	rng := pmath.NewRNG(1)
	_, scattered, ok := Scatter(mat, rIn, rec, rng)
	if !ok {
		t.Fatal("dielectric scatter should never absorb")
	}

	unitDir := rIn.Dir.Normalize()
	reflected := unitDir.Reflect(rec.Normal)
	got := scattered.Dir.Normalize()
	if !approxEqual(got.X, reflected.X, 1e-4) || !approxEqual(got.Y, reflected.Y, 1e-4) || !approxEqual(got.Z, reflected.Z, 1e-4) {
		t.Errorf("expected total internal reflection at grazing angle, got direction %v (reflect would be %v)", got, reflected)
	}
}

func TestLambertianAlbedoIsAttenuation(t *testing.T) {
	mat := NewLambertian(pmath.NewVec3(1, 0, 0))
	rec := HitRecord{P: pmath.Vec3Zero, Normal: pmath.Vec3Up, FrontFace: true, Mat: mat}
	rng := pmath.NewRNG(99)

	att, _, ok := Scatter(mat, pmath.NewRay(pmath.Vec3Zero, pmath.NewVec3(0, -1, 0)), rec, rng)
	if !ok {
		t.Fatal("lambertian scatter should not absorb")
	}
	if att != mat.Albedo {
		t.Errorf("expected attenuation to equal albedo %v, got %v", mat.Albedo, att)
	}
}

func TestMetallicReflectsNormalIncidence(t *testing.T) {
	mat := NewMetallic(pmath.NewVec3(1, 1, 1), 0)
	rec := HitRecord{P: pmath.Vec3Zero, Normal: pmath.Vec3Up, FrontFace: true, Mat: mat}
	rng := pmath.NewRNG(3)

	// A ray coming straight down reflects straight back up; should not absorb.
	_, _, ok := Scatter(mat, pmath.NewRay(pmath.Vec3Zero, pmath.NewVec3(0, -1, 0)), rec, rng)
	if !ok {
		t.Fatal("expected straight-down incidence to reflect, not absorb")
	}
}

func TestPow5(t *testing.T) {
	got := pow5(2)
	want := float32(math.Pow(2, 5))
	if !approxEqual(got, want, 1e-3) {
		t.Errorf("pow5(2): expected %v, got %v", want, got)
	}
}
