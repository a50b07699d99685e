package render

import (
	"sync"
	"sync/atomic"

	"pathtracer/bvh"
	"pathtracer/math"
	"pathtracer/renderer"
	"pathtracer/scene"
)

// gpuBackend stands in for the CPU worker pool when Session.usingGPU is
// set: it owns a Vulkan compute engine and drives one dispatch per
// progressive sample in its own goroutine, exactly as the CPU workers
// drive one tile per claim.
type gpuBackend struct {
	engine *renderer.Engine
	cam    *scene.Camera

	totalSamples  int
	currentSample int32
	aborted       int32

	width, height int
	raw           []math.Vec3
	mu            sync.Mutex

	done chan struct{}
}

// newGPUBackend initializes the Vulkan engine for scn and starts the
// dispatch loop. totalSamples is the number of progressive samples to
// accumulate, mirroring cam.SamplesPerPixel on the CPU path.
func newGPUBackend(cam *scene.Camera, scn *scene.Scene, flatBVH []bvh.FlatNode, totalSamples int) (*gpuBackend, error) {
	engine, err := renderer.NewEngine(scn, flatBVH)
	if err != nil {
		return nil, err
	}

	g := &gpuBackend{
		engine:       engine,
		cam:          cam,
		totalSamples: totalSamples,
		width:        cam.ImageWidth,
		height:       cam.ImageHeight,
		raw:          make([]math.Vec3, cam.ImageWidth*cam.ImageHeight),
		done:         make(chan struct{}),
	}

	go g.run()

	return g, nil
}

func (g *gpuBackend) run() {
	defer close(g.done)

	out := make([][4]float32, g.width*g.height)

	for sample := 0; sample < g.totalSamples; sample++ {
		if atomic.LoadInt32(&g.aborted) != 0 {
			return
		}

		ubo := renderer.ToCameraUBO(g.cam, int32(g.totalSamples), int32(sample))
		if err := g.engine.Dispatch(ubo); err != nil {
			return
		}

		g.engine.ReadOutput(out)
		g.publish(out, sample+1)

		atomic.StoreInt32(&g.currentSample, int32(sample+1))
	}
}

// publish divides the raw accumulation by the samples taken so far and
// writes the result into the session-visible pixel buffer, matching the
// CPU path's scale-by-1/spp at tile completion.
func (g *gpuBackend) publish(accum [][4]float32, samplesTaken int) {
	scale := 1.0 / float32(samplesTaken)

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range accum {
		g.raw[i] = math.NewVec3(c[0], c[1], c[2]).Mul(scale)
	}
}

func (g *gpuBackend) pixels() []math.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]math.Vec3, len(g.raw))
	copy(out, g.raw)
	return out
}

func (g *gpuBackend) getSamples() (current, total int) {
	return int(atomic.LoadInt32(&g.currentSample)), g.totalSamples
}

func (g *gpuBackend) abort() {
	atomic.StoreInt32(&g.aborted, 1)
}

func (g *gpuBackend) destroy() {
	g.abort()
	<-g.done
	g.engine.Destroy()
}
