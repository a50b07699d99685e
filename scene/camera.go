package scene

import (
	stdmath "math"

	"pathtracer/math"
)

// Camera is a pinhole camera with optional thin-lens defocus blur. Fields
// set directly by the host (VfovDegrees, LookFrom, LookAt, VUp,
// DefocusAngle, FocusDist) describe intent; Basis() derives the orthonormal
// frame and per-pixel deltas actually used to generate rays.
//
// Mutators mark the derived basis stale and Basis() recomputes once, on
// first access after a change, rather than eagerly.
type Camera struct {
	ImageWidth, ImageHeight int
	SamplesPerPixel         int
	MaxDepth                int

	VfovDegrees  float32
	LookFrom     math.Vec3
	LookAt       math.Vec3
	VUp          math.Vec3
	DefocusAngle float32 // degrees; <=0 disables defocus blur
	FocusDist    float32

	basis CameraBasis
	dirty bool
}

// CameraBasis is the fully-derived, ready-to-sample state: the pinhole's
// orthonormal frame, the top-left pixel position, the per-pixel step
// vectors, and the defocus-disk basis.
type CameraBasis struct {
	U, V, W           math.Vec3
	Pixel00           math.Vec3
	PixelDeltaU       math.Vec3
	PixelDeltaV       math.Vec3
	DefocusDiskU      math.Vec3
	DefocusDiskV      math.Vec3
	PixelSamplesScale float32
}

// NewCamera constructs a camera for an image of the given dimensions and
// per-pixel sample count, with the remaining defaults from the reference
// configuration (vfov 90, looking down -Z, no defocus).
func NewCamera(width, height, samplesPerPixel int) *Camera {
	return &Camera{
		ImageWidth:      width,
		ImageHeight:     height,
		SamplesPerPixel: samplesPerPixel,
		MaxDepth:        20,
		VfovDegrees:     90,
		LookFrom:        math.Vec3Zero,
		LookAt:          math.NewVec3(0, 0, -1),
		VUp:             math.Vec3Up,
		DefocusAngle:    0,
		FocusDist:       1,
		dirty:           true,
	}
}

func (c *Camera) SetLookFrom(p math.Vec3) { c.LookFrom = p; c.dirty = true }
func (c *Camera) SetLookAt(p math.Vec3)   { c.LookAt = p; c.dirty = true }
func (c *Camera) SetVUp(v math.Vec3)      { c.VUp = v; c.dirty = true }
func (c *Camera) SetVfov(degrees float32) { c.VfovDegrees = degrees; c.dirty = true }
func (c *Camera) SetDefocus(angleDegrees, focusDist float32) {
	c.DefocusAngle = angleDegrees
	c.FocusDist = focusDist
	c.dirty = true
}

// Basis returns the derived camera frame, recomputing it first if any
// mutator has been called since the last access.
func (c *Camera) Basis() CameraBasis {
	if c.dirty {
		c.recompute()
	}
	return c.basis
}

func (c *Camera) recompute() {
	w := c.LookFrom.Sub(c.LookAt).Normalize()
	u := c.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	thetaRad := float64(c.VfovDegrees) * stdmath.Pi / 180
	h := float32(stdmath.Tan(thetaRad / 2))
	viewportHeight := 2 * h * c.FocusDist
	viewportWidth := viewportHeight * float32(c.ImageWidth) / float32(c.ImageHeight)

	viewportU := u.Mul(viewportWidth)
	viewportV := v.Negate().Mul(viewportHeight)

	pixelDeltaU := viewportU.Div(float32(c.ImageWidth))
	pixelDeltaV := viewportV.Div(float32(c.ImageHeight))

	viewportUpperLeft := c.LookFrom.
		Sub(w.Mul(c.FocusDist)).
		Sub(viewportU.Div(2)).
		Sub(viewportV.Div(2))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Mul(0.5))

	defocusRadiusRad := float64(c.DefocusAngle/2) * stdmath.Pi / 180
	defocusRadius := c.FocusDist * float32(stdmath.Tan(defocusRadiusRad))

	c.basis = CameraBasis{
		U: u, V: v, W: w,
		Pixel00:           pixel00,
		PixelDeltaU:       pixelDeltaU,
		PixelDeltaV:       pixelDeltaV,
		DefocusDiskU:      u.Mul(defocusRadius),
		DefocusDiskV:      v.Mul(defocusRadius),
		PixelSamplesScale: 1.0 / float32(c.SamplesPerPixel),
	}
	c.dirty = false
}

// GetRay generates a jittered primary ray through pixel (x, y), sampling the
// defocus disk for its origin when DefocusAngle > 0.
func (c *Camera) GetRay(x, y int, rng *math.RNG) math.Ray {
	b := c.Basis()

	ou := rng.Float32() - 0.5
	ov := rng.Float32() - 0.5

	pixelSample := b.Pixel00.
		Add(b.PixelDeltaU.Mul(float32(x) + ou)).
		Add(b.PixelDeltaV.Mul(float32(y) + ov))

	origin := c.LookFrom
	if c.DefocusAngle > 0 {
		p := math.RandomInUnitDisk(rng)
		origin = c.LookFrom.Add(b.DefocusDiskU.Mul(p.X)).Add(b.DefocusDiskV.Mul(p.Y))
	}

	return math.NewRay(origin, pixelSample.Sub(origin))
}
