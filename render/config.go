// Package render owns the non-blocking render session: tile scheduling,
// the CPU worker pool, the iterative path-trace kernel, and the optional
// GPU backend that can stand in for the CPU workers entirely.
package render

import "runtime"

// Config controls how a session schedules work. DefaultConfig mirrors
// what a host would want out of the box: one worker per logical core,
// CPU-only, standard tile size.
type Config struct {
	NumThreads int
	UseGPU     bool
	TileSize   int
	BaseSeed   uint64
}

func DefaultConfig() Config {
	return Config{
		NumThreads: runtime.NumCPU(),
		UseGPU:     false,
		TileSize:   32,
		BaseSeed:   0x2545F4914F6CDD1D,
	}
}
