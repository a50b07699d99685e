package math

import (
	"math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	result = v1.Mul(2)
	expected = NewVec3(2, 4, 6)
	if result != expected {
		t.Errorf("Mul: expected %v, got %v", expected, result)
	}

	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	length := normalized.Length()
	if math.Abs(float64(length-1)) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}
}

func TestVec3Reflect(t *testing.T) {
	d := NewVec3(1, -1, 0).Normalize()
	n := Vec3Up

	r := d.Reflect(n)
	expected := d.Sub(n.Mul(2 * d.Dot(n)))
	if r != expected {
		t.Errorf("Reflect: expected %v, got %v", expected, r)
	}

	if math.Abs(float64(r.Length()-1)) > 1e-5 {
		t.Errorf("Reflect: expected unit length, got %v", r.Length())
	}
}

func TestVec3RefractIdentityEta(t *testing.T) {
	d := NewVec3(0.3, -0.9, 0.1).Normalize()
	n := Vec3Up

	r := d.Refract(n, 1.0)
	tol := float32(1e-4)
	if math.Abs(float64(r.X-d.X)) > float64(tol) ||
		math.Abs(float64(r.Y-d.Y)) > float64(tol) ||
		math.Abs(float64(r.Z-d.Z)) > float64(tol) {
		t.Errorf("Refract with eta=1: expected %v, got %v", d, r)
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()

	for i := 0; i < 4; i++ {
		if m[i][i] != 1 {
			t.Errorf("Identity: expected diagonal to be 1, got %v", m[i][i])
		}
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j && m[i][j] != 0 {
				t.Errorf("Identity: expected non-diagonal to be 0, got %v", m[i][j])
			}
		}
	}
}

func TestMat4Multiplication(t *testing.T) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	result := m1.Mul(m2)

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			if result[i][j] != expected {
				t.Errorf("Mul: expected [%d][%d] = %v, got %v", i, j, expected, result[i][j])
			}
		}
	}
}

func TestIntervalSurroundsAndClamp(t *testing.T) {
	iv := NewInterval(0.001, 10)
	if !iv.Surrounds(5) {
		t.Error("Surrounds: expected 5 to be strictly inside [0.001, 10]")
	}
	if iv.Surrounds(0.001) || iv.Surrounds(10) {
		t.Error("Surrounds: endpoints must not be strictly inside")
	}
	if iv.Clamp(20) != 10 || iv.Clamp(-5) != 0.001 {
		t.Error("Clamp: expected out-of-range values to clamp to the interval bounds")
	}
}

func TestUnionInterval(t *testing.T) {
	a := NewInterval(0, 2)
	b := NewInterval(-1, 1)
	u := UnionInterval(a, b)
	if u.Min != -1 || u.Max != 2 {
		t.Errorf("UnionInterval: expected [-1, 2], got [%v, %v]", u.Min, u.Max)
	}
}

func TestAABBHitMissesDisjointBox(t *testing.T) {
	box := AABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	r := NewRay(NewVec3(10, 10, 10), NewVec3(1, 0, 0))
	if box.Hit(r, NewInterval(0.001, math.MaxFloat32)) {
		t.Error("expected a ray that never crosses the box to miss")
	}
}

func TestAABBHitHitsContainingBox(t *testing.T) {
	box := AABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	r := NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0))
	if !box.Hit(r, NewInterval(0.001, math.MaxFloat32)) {
		t.Error("expected a ray aimed through the box to hit")
	}
}

func TestUnionAABB(t *testing.T) {
	a := AABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := AABBFromPoints(NewVec3(-1, -1, -1), NewVec3(0.5, 0.5, 0.5))
	u := UnionAABB(a, b)
	if u.X.Min != -1 || u.X.Max != 1 {
		t.Errorf("UnionAABB: expected X=[-1,1], got [%v,%v]", u.X.Min, u.X.Max)
	}
}

func TestRNGDeterministicStream(t *testing.T) {
	a := NewRNG(12345)
	b := NewRNG(12345)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("two RNGs seeded identically diverged at draw %d", i)
		}
	}
}

func TestRNGDifferentSeedsDiffer(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	if a.Uint64() == b.Uint64() {
		t.Error("expected different seeds to produce different first draws")
	}
}

func TestRNGFloat32Range(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 1000; i++ {
		v := r.Float32()
		if v < 0 || v >= 1 {
			t.Fatalf("Float32 out of [0,1): %v", v)
		}
	}
}

func TestRandomInUnitDiskStaysInDisk(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(r)
		if p.X*p.X+p.Y*p.Y >= 1 {
			t.Fatalf("point %v outside unit disk", p)
		}
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
