package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"pathtracer/core"
	"pathtracer/opengl"
	"pathtracer/render"
)

func main() {
	sceneName := flag.String("scene", "sphere", "canned scene: empty, sphere, or book1")
	width := flag.Int("w", 400, "image width")
	height := flag.Int("h", 225, "image height")
	spp := flag.Int("spp", 50, "samples per pixel")
	threads := flag.Int("threads", runtime.NumCPU(), "CPU worker count (ignored with -gpu)")
	useGPU := flag.Bool("gpu", false, "use the Vulkan compute backend instead of CPU workers")
	out := flag.String("out", "out.ppm", "output PPM path")
	preview := flag.Bool("preview", false, "open a live GLFW/OpenGL preview window instead of running headless")
	profile := flag.Bool("profile", false, "print the per-phase profile summary after finish")
	flag.Parse()

	scn, err := buildScene(*sceneName, *width, *height, *spp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pathtracer:", err)
		os.Exit(1)
	}

	cfg := render.DefaultConfig()
	cfg.NumThreads = *threads
	cfg.UseGPU = *useGPU

	session, err := render.StartAuto(scn, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pathtracer: start failed:", err)
		os.Exit(1)
	}

	if *preview {
		err = runPreview(session, *width, *height)
	} else {
		err = runHeadless(session)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pathtracer:", err)
		os.Exit(1)
	}

	summary := session.Finish()
	if *profile {
		fmt.Println(summary.String())
	}

	if err := writePPM(*out, session); err != nil {
		fmt.Fprintln(os.Stderr, "pathtracer: write failed:", err)
		os.Exit(1)
	}
	session.Free()

	fmt.Printf("pathtracer: wrote %s\n", *out)
}

// runHeadless polls progress on a ticker and prints percentage lines.
func runHeadless(session *render.Session) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		p := session.Progress()
		fmt.Printf("\rpathtracer: %5.1f%%", p*100)
		if p >= 1.0 {
			break
		}
	}
	fmt.Println()
	return nil
}

// runPreview opens a window and blits the in-flight pixel buffer once
// per frame until either the render completes or the window is closed.
func runPreview(session *render.Session, width, height int) error {
	window, err := core.NewWindow(core.WindowConfig{
		Width: width, Height: height, Title: "Path Tracer Preview", Resizable: false, VSync: true,
	})
	if err != nil {
		return fmt.Errorf("preview window: %w", err)
	}
	defer window.Destroy()

	gl, err := opengl.NewRenderer()
	if err != nil {
		return fmt.Errorf("preview renderer: %w", err)
	}
	defer gl.Destroy()

	gl.SetViewport(width, height)
	gl.BeginFrame(core.ColorBlack)

	for !window.ShouldClose() {
		window.PollEvents()

		gl.UpdateFrame(session.Image(), width, height)
		gl.DrawFrame()
		window.SwapBuffers()

		if session.Progress() >= 1.0 {
			break
		}
	}

	return nil
}
