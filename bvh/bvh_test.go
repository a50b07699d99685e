package bvh

import (
	"testing"

	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

func testSpheres() []scene.Sphere {
	return []scene.Sphere{
		scene.NewSphere(math.NewVec3(-3, 0, 0), 1, materials.RedMaterial()),
		scene.NewSphere(math.NewVec3(3, 0, 0), 1, materials.GreenMaterial()),
		scene.NewSphere(math.NewVec3(0, 4, 0), 1, materials.BlueMaterial()),
		scene.NewSphere(math.NewVec3(0, -4, 0), 0.5, materials.DefaultMaterial()),
		scene.NewSphere(math.NewVec3(0, 0, 5), 2, materials.PolishedMetal()),
	}
}

func TestBuildEmpty(t *testing.T) {
	if root := Build(nil); root != nil {
		t.Fatal("expected nil tree for empty primitive list")
	}
	if flat := Flatten(nil); len(flat) != 0 {
		t.Fatal("expected empty flat array for nil tree")
	}
}

func TestRootAABBIsUnionOfPrimitives(t *testing.T) {
	spheres := testSpheres()
	root := Build(spheres)

	want := math.AABBEmpty
	for _, s := range spheres {
		want = math.UnionAABB(want, s.BoundingBox())
	}

	if root.Box.X.Min != want.X.Min || root.Box.X.Max != want.X.Max ||
		root.Box.Y.Min != want.Y.Min || root.Box.Y.Max != want.Y.Max ||
		root.Box.Z.Min != want.Z.Min || root.Box.Z.Max != want.Z.Max {
		t.Errorf("root AABB %+v does not match union of primitive boxes %+v", root.Box, want)
	}
}

func TestFlattenPreorderVisitsEveryNodeOnce(t *testing.T) {
	spheres := testSpheres()
	root := Build(spheres)
	flat := Flatten(root)

	if len(flat) == 0 {
		t.Fatal("expected a non-empty flat array")
	}
	if len(flat) > 2*len(spheres)-1 {
		t.Errorf("flat array has %d entries, expected at most %d", len(flat), 2*len(spheres)-1)
	}

	seenLeafPrimitives := map[int]bool{}
	for _, n := range flat {
		if n.IsLeaf() {
			idx := n.PrimitiveIndex()
			if seenLeafPrimitives[idx] {
				t.Errorf("primitive %d referenced by more than one leaf", idx)
			}
			seenLeafPrimitives[idx] = true
		}
	}
	if len(seenLeafPrimitives) != len(spheres) {
		t.Errorf("expected %d distinct leaves, saw %d", len(spheres), len(seenLeafPrimitives))
	}
}

func TestLeafDecodingRoundTrips(t *testing.T) {
	n := FlatNode{LeftIdx: -1, RightOrObjIdx: -5}
	if !n.IsLeaf() {
		t.Fatal("expected left_idx == -1 to decode as a leaf")
	}
	if got := n.PrimitiveIndex(); got != 4 {
		t.Errorf("expected primitive index 4, got %d", got)
	}
}

func TestIterativeMatchesRecursiveTraversal(t *testing.T) {
	spheres := testSpheres()
	root := Build(spheres)
	flat := Flatten(root)

	rays := []math.Ray{
		math.NewRay(math.NewVec3(-3, 0, -10), math.NewVec3(0, 0, 1)),
		math.NewRay(math.NewVec3(3, 0, -10), math.NewVec3(0, 0, 1)),
		math.NewRay(math.NewVec3(0, 4, -10), math.NewVec3(0, 0, 1)),
		math.NewRay(math.NewVec3(100, 100, 100), math.NewVec3(1, 1, 1)),
	}

	for i, r := range rays {
		wantRec, wantHit := TraverseTree(root, spheres, r, math.NewInterval(0.001, 1e9))
		gotRec, gotHit := Traverse(flat, spheres, r, math.NewInterval(0.001, 1e9))

		if wantHit != gotHit {
			t.Fatalf("ray %d: recursive hit=%v, iterative hit=%v", i, wantHit, gotHit)
		}
		if wantHit && (wantRec.T != gotRec.T || wantRec.P != gotRec.P) {
			t.Errorf("ray %d: recursive and iterative disagree on hit record: %+v vs %+v", i, wantRec, gotRec)
		}
	}
}

func TestAABBMissImpliesNoHit(t *testing.T) {
	spheres := testSpheres()
	root := Build(spheres)
	flat := Flatten(root)

	r := math.NewRay(math.NewVec3(0, 0, -1000), math.NewVec3(1, 0, 0))
	if root.Box.Hit(r, math.NewInterval(0.001, 1e9)) {
		t.Skip("ray happens to clip the root AABB; not a useful case for this check")
	}

	_, hit := Traverse(flat, spheres, r, math.NewInterval(0.001, 1e9))
	if hit {
		t.Error("expected a ray missing the root AABB to miss every primitive")
	}
}

func TestNearerFirstPicksCloserCentroidAlongDominantAxis(t *testing.T) {
	left := FlatNode{AABBMin: [3]float32{-2, -1, -1}, AABBMax: [3]float32{-1, 1, 1}}
	right := FlatNode{AABBMin: [3]float32{1, -1, -1}, AABBMax: [3]float32{2, 1, 1}}

	if !nearerFirst(left, right, math.NewVec3(1, 0, 0)) {
		t.Error("ray moving in +X should reach the left (smaller-X) child first")
	}
	if nearerFirst(left, right, math.NewVec3(-1, 0, 0)) {
		t.Error("ray moving in -X should reach the right (larger-X) child first")
	}
}

func TestSplitAxisPicksMostSeparatedCentroid(t *testing.T) {
	left := FlatNode{AABBMin: [3]float32{0, -5, 0}, AABBMax: [3]float32{1, -3, 1}}
	right := FlatNode{AABBMin: [3]float32{0, 5, 0}, AABBMax: [3]float32{1, 7, 1}}

	if axis := splitAxis(left, right); axis != 1 {
		t.Errorf("expected axis 1 (Y), got %d", axis)
	}
}

func TestSingleSphereBVH(t *testing.T) {
	spheres := []scene.Sphere{scene.NewSphere(math.NewVec3(0, 0, 0), 1, materials.RedMaterial())}
	root := Build(spheres)
	if !root.IsLeaf {
		t.Fatal("single-primitive BVH should be a single leaf")
	}
	flat := Flatten(root)
	if len(flat) != 1 {
		t.Fatalf("expected exactly one flat node, got %d", len(flat))
	}
}
