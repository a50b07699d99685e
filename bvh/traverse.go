package bvh

import (
	stdmath "math"

	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

const maxStackDepth = 64

// hitAABB runs the slab test against a flat node's bounding box without
// allocating a math.AABB, since this sits on the hottest loop in the
// renderer.
func hitAABB(n FlatNode, r math.Ray, tMin, tMax float32) bool {
	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Dir.X, r.Dir.Y, r.Dir.Z}

	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if abs32(d) < 1e-8 {
			if origin[axis] < n.AABBMin[axis] || origin[axis] > n.AABBMax[axis] {
				return false
			}
			continue
		}
		invD := 1 / d
		t0 := (n.AABBMin[axis] - origin[axis]) * invD
		t1 := (n.AABBMax[axis] - origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}

func abs32(x float32) float32 {
	return float32(stdmath.Abs(float64(x)))
}

// Traverse walks the flat BVH iteratively with a fixed-capacity index
// stack. Pushing past maxStackDepth silently drops the node rather than
// overflowing the stack array; this never happens for trees built by
// Build/Flatten, which never exceed the stack's depth for any primitive
// count this renderer targets.
func Traverse(nodes []FlatNode, spheres []scene.Sphere, r math.Ray, rayT math.Interval) (materials.HitRecord, bool) {
	if len(nodes) == 0 {
		return materials.HitRecord{}, false
	}

	var stack [maxStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	closest := rayT.Max
	var best materials.HitRecord
	hitAnything := false

	for sp > 0 {
		sp--
		idx := stack[sp]
		node := nodes[idx]

		if !hitAABB(node, r, rayT.Min, closest) {
			continue
		}

		if node.IsLeaf() {
			primIdx := node.PrimitiveIndex()
			rec, ok := spheres[primIdx].Hit(r, math.NewInterval(rayT.Min, closest))
			if ok {
				hitAnything = true
				closest = rec.T
				best = rec
			}
			continue
		}

		left := nodes[node.LeftIdx]
		right := nodes[node.RightOrObjIdx]
		nearIdx, farIdx := node.LeftIdx, node.RightOrObjIdx
		if !nearerFirst(left, right, r.Dir) {
			nearIdx, farIdx = farIdx, nearIdx
		}

		// Push the farther child first so the nearer one is on top of
		// the stack and pops (and is tested) first.
		if sp < maxStackDepth {
			stack[sp] = farIdx
			sp++
		}
		if sp < maxStackDepth {
			stack[sp] = nearIdx
			sp++
		}
	}

	return best, hitAnything
}

// nearerFirst reports whether left is the child the ray reaches first,
// judged along the axis the two children are most separated on and
// oriented by the sign of the ray's direction on that axis.
func nearerFirst(left, right FlatNode, dir math.Vec3) bool {
	axis := splitAxis(left, right)
	d := dirComponent(dir, axis)
	leftCentroid := centroid(left, axis)
	rightCentroid := centroid(right, axis)
	if d >= 0 {
		return leftCentroid <= rightCentroid
	}
	return leftCentroid >= rightCentroid
}

func splitAxis(left, right FlatNode) int {
	best := 0
	bestDiff := float32(-1)
	for axis := 0; axis < 3; axis++ {
		diff := abs32(centroid(left, axis) - centroid(right, axis))
		if diff > bestDiff {
			bestDiff = diff
			best = axis
		}
	}
	return best
}

func centroid(n FlatNode, axis int) float32 {
	return (n.AABBMin[axis] + n.AABBMax[axis]) * 0.5
}

func dirComponent(d math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return d.X
	case 1:
		return d.Y
	default:
		return d.Z
	}
}
