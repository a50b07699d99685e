package render

import (
	"testing"
	"time"

	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

func testScene(width, height, spp int) *scene.Scene {
	cam := scene.NewCamera(width, height, spp)
	cam.MaxDepth = 5
	scn := scene.NewScene(cam)
	scn.AddSphere(scene.NewSphere(math.NewVec3(0, 0, -1), 0.5, materials.DefaultMaterial()))
	scn.AddSphere(scene.NewSphere(math.NewVec3(0, -100.5, -1), 100, materials.DefaultMaterial()))
	return scn
}

func TestStartProducesFullySizedImage(t *testing.T) {
	scn := testScene(16, 12, 2)
	s, err := Start(scn, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.Finish()
	img := s.Image()
	if len(img) != 16*12*4 {
		t.Fatalf("expected %d bytes, got %d", 16*12*4, len(img))
	}
	for i := 3; i < len(img); i += 4 {
		if img[i] != 255 {
			t.Errorf("alpha at pixel %d: expected 255, got %d", i/4, img[i])
		}
	}
}

func TestProgressReachesOneAfterFinish(t *testing.T) {
	scn := testScene(32, 32, 1)
	s, err := Start(scn, 4)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Finish()

	if got := s.Progress(); got != 1.0 {
		t.Errorf("Progress after Finish: expected 1.0, got %v", got)
	}
}

// TestAbortNeverCountsAPartialTile asserts the completion guarantee: a
// tile already claimed by a worker always finishes before the abort
// flag can stop it, so TilesCompleted*pixelsPerTile pixels are always
// fully written, never a fraction of one. With a single worker on a
// large image, Abort() should also land before every tile has run.
func TestAbortNeverCountsAPartialTile(t *testing.T) {
	scn := testScene(256, 256, 64)
	s, err := Start(scn, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.Abort()
	summary := s.Finish()

	if summary.TilesCompleted > summary.TilesTotal {
		t.Fatalf("TilesCompleted %d exceeds TilesTotal %d", summary.TilesCompleted, summary.TilesTotal)
	}
	if summary.TilesCompleted == summary.TilesTotal {
		t.Skip("worker finished before abort was observed; not a failure, just a race this test can't force")
	}

	img := s.Image()
	nonBlack := 0
	for i := 0; i < len(img); i += 4 {
		if img[i] != 0 || img[i+1] != 0 || img[i+2] != 0 {
			nonBlack++
		}
	}
	pixelsPerTile := 32 * 32
	wantAtMost := int(summary.TilesCompleted) * pixelsPerTile
	if nonBlack > wantAtMost {
		t.Errorf("more written pixels (%d) than completed tiles (%d) account for: got more than %d", nonBlack, summary.TilesCompleted, wantAtMost)
	}
}

func TestFinishIsIdempotent(t *testing.T) {
	scn := testScene(8, 8, 1)
	s, err := Start(scn, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first := s.Finish()
	second := s.Finish()
	if first.TotalDuration != second.TotalDuration {
		t.Errorf("Finish was not idempotent: %v != %v", first.TotalDuration, second.TotalDuration)
	}
}

func TestStartAutoRejectsMissingCamera(t *testing.T) {
	scn := &scene.Scene{}
	if _, err := StartAuto(scn, DefaultConfig()); err == nil {
		t.Fatal("expected error for a scene with no camera")
	}
}

func TestStartAutoRejectsZeroSizedImage(t *testing.T) {
	cam := scene.NewCamera(0, 0, 1)
	scn := scene.NewScene(cam)
	if _, err := StartAuto(scn, DefaultConfig()); err == nil {
		t.Fatal("expected error for a zero-sized image")
	}
}

func TestDefaultConfigHasPositiveThreadCount(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumThreads <= 0 {
		t.Errorf("expected a positive default thread count, got %d", cfg.NumThreads)
	}
	if cfg.UseGPU {
		t.Error("expected GPU off by default")
	}
}

func TestWidthHeightMatchCamera(t *testing.T) {
	scn := testScene(20, 10, 1)
	s, err := Start(scn, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Finish()

	if s.Width() != 20 || s.Height() != 10 {
		t.Errorf("expected 20x10, got %dx%d", s.Width(), s.Height())
	}
}

func TestGetProfileZeroBeforeFinish(t *testing.T) {
	scn := testScene(64, 64, 8)
	s, err := Start(scn, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Finish()

	// Give workers a moment to start without racing Finish.
	time.Sleep(time.Millisecond)
	if p := s.GetProfile(); p != (ProfileSummary{}) {
		t.Errorf("expected zero-value profile before Finish, got %+v", p)
	}
}
