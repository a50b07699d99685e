package render

import (
	"testing"

	"pathtracer/bvh"
	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

func TestSkyColorIsBlueLookingStraightUp(t *testing.T) {
	c := skyColor(math.NewVec3(0, 1, 0))
	want := math.NewVec3(0.5, 0.7, 1.0)
	if c != want {
		t.Errorf("straight up: expected %v, got %v", want, c)
	}
}

func TestSkyColorIsWhiteLookingStraightDown(t *testing.T) {
	c := skyColor(math.NewVec3(0, -1, 0))
	want := math.Vec3One
	if c != want {
		t.Errorf("straight down: expected %v, got %v", want, c)
	}
}

func TestTraceReturnsSkyForMissedRay(t *testing.T) {
	spheres := []scene.Sphere{
		scene.NewSphere(math.NewVec3(0, 0, -100), 1, materials.DefaultMaterial()),
	}
	tree := bvh.Build(spheres)
	flat := bvh.Flatten(tree)

	r := math.NewRay(math.Vec3Zero, math.NewVec3(0, 1, 0))
	rng := math.NewRNG(1)
	prof := &workerProfile{}

	got := trace(r, 10, spheres, flat, rng, prof)
	want := skyColor(r.Dir)
	if got != want {
		t.Errorf("expected pure sky color %v, got %v", want, got)
	}
}

func TestTraceAbsorbsOnZeroDepth(t *testing.T) {
	spheres := []scene.Sphere{
		scene.NewSphere(math.NewVec3(0, 0, -1), 0.5, materials.DefaultMaterial()),
	}
	tree := bvh.Build(spheres)
	flat := bvh.Flatten(tree)

	r := math.NewRay(math.Vec3Zero, math.NewVec3(0, 0, -1))
	rng := math.NewRNG(1)
	prof := &workerProfile{}

	got := trace(r, 0, spheres, flat, rng, prof)
	if got != math.Vec3Zero {
		t.Errorf("expected zero radiance at maxDepth=0, got %v", got)
	}
}
