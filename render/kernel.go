package render

import (
	"pathtracer/bvh"
	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

const shadowAcneBias = 0.001

// trace walks a primary ray through up to maxDepth bounces, accumulating
// radiance against the flat BVH. It is the CPU-side twin of the GPU
// compute shader's main loop — the same contract, the same sky formula,
// the same depth-exhausted behavior.
func trace(r math.Ray, maxDepth int, spheres []scene.Sphere, flat []bvh.FlatNode, rng *math.RNG, prof *workerProfile) math.Vec3 {
	throughput := math.Vec3One
	radiance := math.Vec3Zero

	for depth := 0; depth < maxDepth; depth++ {
		intersectScope := startScope(prof, phaseIntersect)
		rec, hit := bvh.Traverse(flat, spheres, r, math.NewInterval(shadowAcneBias, math.IntervalUniverse.Max))
		intersectScope.stop()

		if !hit {
			bgScope := startScope(prof, phaseBackground)
			sky := skyColor(r.Dir)
			bgScope.stop()
			return radiance.Add(throughput.MulVec(sky))
		}

		scatterScope := startScope(prof, phaseScatter)
		attenuation, scattered, ok := materials.Scatter(rec.Mat, r, rec, rng)
		scatterScope.stop()

		if !ok {
			return radiance
		}

		throughput = throughput.MulVec(attenuation)
		r = scattered
	}

	return radiance
}

// skyColor is the fixed linear-gradient background, blended on the
// direction's y component: white looking straight down, pale blue
// (0.5, 0.7, 1.0) straight up, and an even mix of the two at the horizon.
func skyColor(dir math.Vec3) math.Vec3 {
	unit := dir.Normalize()
	a := 0.5 * (unit.Y + 1)
	white := math.Vec3One
	blue := math.NewVec3(0.5, 0.7, 1.0)
	return white.Mul(1 - a).Add(blue.Mul(a))
}
