package math

// RNG is a per-worker pseudo-random stream. The generator is Xoshiro256++,
// chosen for its long period and cheap state (four uint64 words) relative to
// crypto-grade generators that this domain has no use for.
type RNG struct {
	s [4]uint64
}

// NewRNG seeds a stream from a single 64-bit value via four rounds of
// splitmix64, the standard way to spread a small seed across xoshiro's
// 256 bits of state without leaving any word at zero.
func NewRNG(seed uint64) *RNG {
	r := &RNG{}
	sm := seed
	for i := range r.s {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		r.s[i] = z
	}
	return r
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// Uint64 returns the next 64-bit value in the stream.
func (r *RNG) Uint64() uint64 {
	result := rotl(r.s[0]+r.s[3], 23) + r.s[0]

	t := r.s[1] << 17

	r.s[2] ^= r.s[0]
	r.s[3] ^= r.s[1]
	r.s[1] ^= r.s[2]
	r.s[0] ^= r.s[3]

	r.s[2] ^= t

	r.s[3] = rotl(r.s[3], 45)

	return result
}

// Float32 returns a value in [0, 1).
func (r *RNG) Float32() float32 {
	return float32(r.Uint64()>>40) / float32(1<<24)
}

// Float32Range returns a value in [min, max).
func (r *RNG) Float32Range(min, max float32) float32 {
	return min + (max-min)*r.Float32()
}

// RandomVec3 returns a vector with each component independently in [0, 1).
func RandomVec3(r *RNG) Vec3 {
	return Vec3{X: r.Float32(), Y: r.Float32(), Z: r.Float32()}
}

// RandomVec3Range returns a vector with each component independently in
// [min, max).
func RandomVec3Range(r *RNG, min, max float32) Vec3 {
	return Vec3{
		X: r.Float32Range(min, max),
		Y: r.Float32Range(min, max),
		Z: r.Float32Range(min, max),
	}
}

// RandomUnitVector rejection-samples a point inside the unit ball, with the
// admissible squared length restricted to (1e-30, 1] to avoid the numerical
// blowup of normalizing a near-zero vector, then scales by 1/l² rather than
// 1/l. This is not a unit vector in the strict sense; it is the exact
// scatter-direction perturbation the material model was authored against and
// changing it changes every render's appearance.
func RandomUnitVector(r *RNG) Vec3 {
	for {
		p := RandomVec3Range(r, -1, 1)
		lensq := p.LengthSqr()
		if lensq > 1e-30 && lensq <= 1.0 {
			return p.Div(lensq)
		}
	}
}

// RandomInUnitDisk rejection-samples a point in the unit disk on the xy
// plane, used for defocus-disk sampling.
func RandomInUnitDisk(r *RNG) Vec2 {
	for {
		p := Vec2{X: r.Float32Range(-1, 1), Y: r.Float32Range(-1, 1)}
		if p.X*p.X+p.Y*p.Y < 1 {
			return p
		}
	}
}
