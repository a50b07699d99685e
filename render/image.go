package render

import stdmath "math"

// Image renders the session's current pixel buffer to 8-bit RGBA,
// applying gamma correction and clamping. Safe to call mid-render for a
// progressive preview, or after Finish for the final frame.
func (s *Session) Image() []byte {
	out := make([]byte, s.width*s.height*4)
	for i, c := range s.RawPixels() {
		out[i*4+0] = quantize(c.X)
		out[i*4+1] = quantize(c.Y)
		out[i*4+2] = quantize(c.Z)
		out[i*4+3] = 255
	}
	return out
}

const gammaClampMax = 0.999

func quantize(x float32) byte {
	if x < 0 {
		x = 0
	}
	g := float32(stdmath.Sqrt(float64(x)))
	if g > gammaClampMax {
		g = gammaClampMax
	}
	return byte(g * 255)
}
