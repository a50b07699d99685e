// Package bvh builds a bounding volume hierarchy over scene spheres and
// flattens it into a fixed-layout array suitable for iterative CPU
// traversal and direct upload to the GPU backend.
package bvh

import (
	"sort"

	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

// Node is the pointer-tree form of the hierarchy, built once at session
// start and walked recursively only by TraverseTree, below, which the
// tests use as an equivalence oracle; the hot path always uses the flat
// array.
type Node struct {
	Box         math.AABB
	Left, Right *Node
	ObjIndex    int // valid only when Left == nil && Right == nil
	IsLeaf      bool
}

// Build constructs the pointer-tree BVH over spheres by recursive median
// split on the axis of largest extent. An empty slice yields a nil tree.
func Build(spheres []scene.Sphere) *Node {
	if len(spheres) == 0 {
		return nil
	}
	indices := make([]int, len(spheres))
	for i := range indices {
		indices[i] = i
	}
	return buildRange(spheres, indices)
}

func buildRange(spheres []scene.Sphere, indices []int) *Node {
	if len(indices) == 1 {
		return &Node{
			Box:      spheres[indices[0]].BoundingBox(),
			ObjIndex: indices[0],
			IsLeaf:   true,
		}
	}

	box := math.AABBEmpty
	for _, idx := range indices {
		box = math.UnionAABB(box, spheres[idx].BoundingBox())
	}
	axis := box.LongestAxis()

	sort.SliceStable(indices, func(a, b int) bool {
		ca := centerAxis(spheres[indices[a]], axis)
		cb := centerAxis(spheres[indices[b]], axis)
		return ca < cb
	})

	mid := len(indices) / 2
	left := buildRange(spheres, indices[:mid])
	right := buildRange(spheres, indices[mid:])

	return &Node{
		Box:    math.UnionAABB(left.Box, right.Box),
		Left:   left,
		Right:  right,
		IsLeaf: false,
	}
}

func centerAxis(s scene.Sphere, axis int) float32 {
	switch axis {
	case 0:
		return s.Center.X
	case 1:
		return s.Center.Y
	default:
		return s.Center.Z
	}
}

// TraverseTree walks the pointer BVH recursively. It exists purely as the
// equivalence oracle named alongside the iterative flat traversal; it is
// never called from the render loop.
func TraverseTree(node *Node, spheres []scene.Sphere, r math.Ray, rayT math.Interval) (materials.HitRecord, bool) {
	if node == nil || !node.Box.Hit(r, rayT) {
		return materials.HitRecord{}, false
	}

	if node.IsLeaf {
		return spheres[node.ObjIndex].Hit(r, rayT)
	}

	leftRec, leftHit := TraverseTree(node.Left, spheres, r, rayT)
	closest := rayT
	if leftHit {
		closest = math.NewInterval(rayT.Min, leftRec.T)
	}
	rightRec, rightHit := TraverseTree(node.Right, spheres, r, closest)
	if rightHit {
		return rightRec, true
	}
	if leftHit {
		return leftRec, true
	}
	return materials.HitRecord{}, false
}
