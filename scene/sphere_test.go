package scene

import (
	"testing"

	"pathtracer/materials"
	"pathtracer/math"
)

func TestSphereHitFrontFace(t *testing.T) {
	s := NewSphere(math.NewVec3(0, 0, -1), 0.5, materials.RedMaterial())
	r := math.NewRay(math.Vec3Zero, math.NewVec3(0, 0, -1))

	rec, ok := s.Hit(r, math.NewInterval(0.001, 1e9))
	if !ok {
		t.Fatal("expected ray straight at the sphere to hit")
	}
	if !rec.FrontFace {
		t.Error("expected front_face hit when ray originates outside the sphere")
	}
	if rec.T <= 0 {
		t.Errorf("expected positive t, got %v", rec.T)
	}
}

func TestSphereHitMiss(t *testing.T) {
	s := NewSphere(math.NewVec3(0, 0, -1), 0.5, materials.RedMaterial())
	r := math.NewRay(math.Vec3Zero, math.NewVec3(1, 0, 0))

	if _, ok := s.Hit(r, math.NewInterval(0.001, 1e9)); ok {
		t.Error("expected a ray aimed away from the sphere to miss")
	}
}

func TestSphereBoundingBox(t *testing.T) {
	s := NewSphere(math.NewVec3(1, 2, 3), 2, materials.RedMaterial())
	box := s.BoundingBox()
	if box.X.Min != -1 || box.X.Max != 3 {
		t.Errorf("expected X=[-1,3], got [%v,%v]", box.X.Min, box.X.Max)
	}
}

func TestCameraBasisRecomputesAfterMutation(t *testing.T) {
	cam := NewCamera(100, 100, 1)
	first := cam.Basis().Pixel00

	cam.SetLookFrom(math.NewVec3(0, 5, 0))
	second := cam.Basis().Pixel00

	if first == second {
		t.Error("expected Pixel00 to change after moving the camera")
	}
}

func TestCameraGetRayHasNonZeroDirection(t *testing.T) {
	cam := NewCamera(10, 10, 4)
	rng := math.NewRNG(1)
	r := cam.GetRay(5, 5, rng)
	if r.Dir.LengthSqr() == 0 {
		t.Error("expected a non-degenerate ray direction")
	}
}
