package render

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pathtracer/bvh"
	"pathtracer/math"
	"pathtracer/scene"
	"pathtracer/tile"
)

// Session owns everything a single render run needs: the pixel buffer,
// the flat BVH, the tile list, and either a pool of CPU workers or a GPU
// backend standing in for them. Exactly one lifecycle applies per
// session: Start/StartAuto, then Progress polled any number of times,
// then Finish once, then Free.
type Session struct {
	scn    *scene.Scene
	width  int
	height int

	pixels []math.Vec3
	tiles  []tile.Tile

	flatBVH []bvh.FlatNode

	next      int64
	completed int64
	aborted   int32

	wg        sync.WaitGroup
	profiles  []*workerProfile
	config    Config
	startTime time.Time

	finishOnce sync.Once
	summary    ProfileSummary
	finished   bool

	gpu      *gpuBackend
	usingGPU bool
}

// Start builds a CPU-only session with the given thread count. It is the
// low-level entry point; StartAuto additionally tries the GPU backend.
func Start(scn *scene.Scene, numThreads int) (*Session, error) {
	cfg := DefaultConfig()
	cfg.NumThreads = numThreads
	cfg.UseGPU = false
	return StartAuto(scn, cfg)
}

// StartAuto builds a session per cfg. When cfg.UseGPU is set, it first
// attempts to initialize the GPU backend; any failure there (no GPU, no
// compute support, shader compile error) is not surfaced as an error —
// it silently falls back to the CPU path with a log line, per the
// session's external contract.
func StartAuto(scn *scene.Scene, cfg Config) (*Session, error) {
	if scn == nil || scn.Camera == nil {
		return nil, fmt.Errorf("render: scene and camera are required")
	}

	cam := scn.Camera
	width, height := cam.ImageWidth, cam.ImageHeight
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid image dimensions %dx%d", width, height)
	}

	s := &Session{
		scn:       scn,
		width:     width,
		height:    height,
		pixels:    make([]math.Vec3, width*height),
		tiles:     tile.GenerateSized(width, height, cfg.TileSize),
		config:    cfg,
		startTime: time.Now(),
	}

	tree := bvh.Build(scn.Spheres)
	s.flatBVH = bvh.Flatten(tree)

	// Derive the camera basis here so the render goroutines only read it.
	cam.Basis()

	if cfg.UseGPU {
		gpu, err := newGPUBackend(cam, scn, s.flatBVH, cam.SamplesPerPixel)
		if err != nil {
			fmt.Printf("render: GPU backend unavailable (%v), falling back to CPU\n", err)
		} else {
			s.gpu = gpu
			s.usingGPU = true
			return s, nil
		}
	}

	numThreads := cfg.NumThreads
	if numThreads <= 0 {
		numThreads = 1
	}

	s.profiles = make([]*workerProfile, numThreads)
	s.wg.Add(numThreads)
	for i := 0; i < numThreads; i++ {
		prof := &workerProfile{}
		s.profiles[i] = prof
		w := &worker{
			rng:     math.NewRNG(cfg.BaseSeed + uint64(i)),
			profile: prof,
		}
		go func() {
			defer s.wg.Done()
			runWorker(w, s)
		}()
	}

	return s, nil
}

// Progress reports completed/total in [0,1]. It is safe to call at any
// time, including before Start has spawned every worker and after
// Finish has torn them down.
func (s *Session) Progress() float32 {
	if s.usingGPU {
		current, total := s.gpu.getSamples()
		if total == 0 {
			return 1.0
		}
		return float32(current) / float32(total)
	}

	total := len(s.tiles)
	if total == 0 {
		return 1.0
	}
	completed := atomic.LoadInt64(&s.completed)
	return float32(completed) / float32(total)
}

// Abort requests cooperative cancellation: a CPU worker finishes the
// tile it already claimed (a tile in flight always runs to completion)
// and checks the flag before claiming the next one; the GPU backend
// checks between samples. Finish still blocks until every worker has
// actually exited.
func (s *Session) Abort() {
	atomic.StoreInt32(&s.aborted, 1)
	if s.usingGPU {
		s.gpu.abort()
	}
}

// Finish waits for every worker to exit (or the GPU backend to reach its
// target sample count), releases the BVH, and aggregates the per-worker
// profile counters. Calling Finish more than once is a no-op on the
// second and later calls.
func (s *Session) Finish() ProfileSummary {
	s.finishOnce.Do(func() {
		if s.usingGPU {
			<-s.gpu.done
			s.gpu.destroy()
		} else {
			s.wg.Wait()
		}

		summary := aggregateProfiles(s.profiles)
		summary.TotalDuration = time.Since(s.startTime)
		summary.TilesTotal = len(s.tiles)
		summary.TilesCompleted = int(atomic.LoadInt64(&s.completed))
		summary.UsedGPU = s.usingGPU
		s.summary = summary

		s.flatBVH = nil
		s.profiles = nil
		s.finished = true
	})
	return s.summary
}

// Free releases the pixel buffer and tile list. The session record
// itself becomes unusable after this call.
func (s *Session) Free() {
	s.pixels = nil
	s.tiles = nil
}

// GetProfile returns the aggregated profile recorded at Finish. It is
// the zero value until Finish has been called.
func (s *Session) GetProfile() ProfileSummary {
	return s.summary
}

func (s *Session) Width() int  { return s.width }
func (s *Session) Height() int { return s.height }

// RawPixels exposes the in-flight pixel buffer (pre-gamma, already
// averaged: a CPU pixel holds its mean over all samples once its tile
// completes, a GPU pixel its mean over the samples dispatched so far).
// Reading it mid-render may observe a partially-written tile;
// that is intentional, the buffer being meant as a live preview.
func (s *Session) RawPixels() []math.Vec3 {
	if s.usingGPU {
		return s.gpu.pixels()
	}
	return s.pixels
}
