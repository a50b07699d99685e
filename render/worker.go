package render

import (
	"sync/atomic"

	"pathtracer/math"
	"pathtracer/scene"
	"pathtracer/tile"
)

// worker holds the per-thread state: its own RNG and its own profile
// counters. Scene data and the flat BVH are read through the Session,
// and pixels are written into the Session's buffer only inside the
// worker's claimed tiles. No worker ever touches another worker's tiles,
// so the pixel buffer needs no lock.
type worker struct {
	rng     *math.RNG
	profile *workerProfile
}

// runWorker loops claiming tiles from the shared next counter until the
// list is exhausted or the session is aborted. It holds no mutex in the
// steady state — the next and completed counters and the aborted flag
// are the only shared state, all accessed atomically.
func runWorker(w *worker, s *Session) {
	cam := s.scn.Camera
	spheres := s.scn.Spheres
	maxDepth := cam.MaxDepth
	spp := cam.SamplesPerPixel
	scale := 1.0 / float32(spp)

	for {
		if atomic.LoadInt32(&s.aborted) != 0 {
			return
		}

		i := atomic.AddInt64(&s.next, 1) - 1
		if i >= int64(len(s.tiles)) {
			return
		}

		renderTile(w, s, s.tiles[i], cam, spheres, maxDepth, spp, scale)

		atomic.AddInt64(&s.completed, 1)

		if atomic.LoadInt32(&s.aborted) != 0 {
			return
		}
	}
}

// renderTile always runs a claimed tile to completion. A tile already in
// flight is never left half-written: the abort flag is only consulted
// between tiles, in runWorker, not at any point inside this loop.
func renderTile(w *worker, s *Session, t tile.Tile, cam *scene.Camera, spheres []scene.Sphere, maxDepth, spp int, scale float32) {
	flat := s.flatBVH
	width := s.width

	for y := t.StartY; y < t.EndY; y++ {
		for x := t.StartX; x < t.EndX; x++ {
			sum := math.Vec3Zero

			for sIdx := 0; sIdx < spp; sIdx++ {
				rayGenScope := startScope(w.profile, phaseRayGen)
				r := cam.GetRay(x, y, w.rng)
				rayGenScope.stop()

				sum = sum.Add(trace(r, maxDepth, spheres, flat, w.rng, w.profile))
			}

			pixelScope := startScope(w.profile, phasePixelSetup)
			s.pixels[y*width+x] = sum.Mul(scale)
			pixelScope.stop()
		}
	}
}
