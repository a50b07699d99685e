package math

// AABB is an axis-aligned bounding box expressed as three per-axis
// intervals, used both to bound primitives and as the slab-test volume of
// a BVH node.
type AABB struct {
	X, Y, Z Interval
}

var AABBEmpty = AABB{X: IntervalEmpty, Y: IntervalEmpty, Z: IntervalEmpty}

func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x, Y: y, Z: z}
}

// AABBFromPoints builds the tight box containing both corner points, in
// either order.
func AABBFromPoints(a, b Vec3) AABB {
	return AABB{
		X: intervalFromPair(a.X, b.X),
		Y: intervalFromPair(a.Y, b.Y),
		Z: intervalFromPair(a.Z, b.Z),
	}
}

func intervalFromPair(a, b float32) Interval {
	if a <= b {
		return Interval{Min: a, Max: b}
	}
	return Interval{Min: b, Max: a}
}

// UnionAABB returns the smallest box containing both a and b.
func UnionAABB(a, b AABB) AABB {
	return AABB{
		X: UnionInterval(a.X, b.X),
		Y: UnionInterval(a.Y, b.Y),
		Z: UnionInterval(a.Z, b.Z),
	}
}

// Axis returns the n'th interval (0=X, 1=Y, 2=Z).
func (b AABB) Axis(n int) Interval {
	switch n {
	case 0:
		return b.X
	case 1:
		return b.Y
	default:
		return b.Z
	}
}

// LongestAxis returns the index (0, 1, or 2) of the axis with the greatest
// extent, used by the BVH builder to choose a split axis.
func (b AABB) LongestAxis() int {
	xSize, ySize, zSize := b.X.Size(), b.Y.Size(), b.Z.Size()
	if xSize > ySize && xSize > zSize {
		return 0
	}
	if ySize > zSize {
		return 1
	}
	return 2
}

// Hit runs the slab test against the box, narrowing ray the admissible
// parameter range. It returns false as soon as any axis rules the ray out.
func (b AABB) Hit(r Ray, rayT Interval) bool {
	for axis := 0; axis < 3; axis++ {
		ax := b.Axis(axis)
		var origin, dir float32
		switch axis {
		case 0:
			origin, dir = r.Origin.X, r.Dir.X
		case 1:
			origin, dir = r.Origin.Y, r.Dir.Y
		default:
			origin, dir = r.Origin.Z, r.Dir.Z
		}

		if abs32(dir) < 1e-8 {
			if origin < ax.Min || origin > ax.Max {
				return false
			}
			continue
		}

		invD := 1.0 / dir
		t0 := (ax.Min - origin) * invD
		t1 := (ax.Max - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > rayT.Min {
			rayT.Min = t0
		}
		if t1 < rayT.Max {
			rayT.Max = t1
		}
		if rayT.Max <= rayT.Min {
			return false
		}
	}
	return true
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
