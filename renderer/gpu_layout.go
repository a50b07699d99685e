package renderer

import (
	"unsafe"

	"pathtracer/bvh"
	"pathtracer/materials"
	"pathtracer/scene"
)

// CameraUBO mirrors the compute shader's std140 camera uniform block
// byte for byte. Each vec3 field carries an explicit pad to match
// std140's 16-byte vec3 alignment; the layout must not be reordered
// without updating the shader source in compute_shader.go to match.
type CameraUBO struct {
	CameraCenter [3]float32
	_pad0        float32
	Pixel00      [3]float32
	_pad1        float32
	PixelDeltaU  [3]float32
	_pad2        float32
	PixelDeltaV  [3]float32
	_pad3        float32
	DefocusDiskU [3]float32
	DefocusAngle float32
	DefocusDiskV [3]float32
	_pad4        float32
	Width        int32
	Height       int32
	MaxDepth     int32
	TotalSamples int32
	CurrentSample int32
	_pad5        [3]int32
}

const cameraUBOSize = 128

var _ [cameraUBOSize - int(unsafe.Sizeof(CameraUBO{}))]byte
var _ [int(unsafe.Sizeof(CameraUBO{})) - cameraUBOSize]byte

// ToCameraUBO converts a scene camera's derived basis into the GPU's
// uniform block, the seam between a Go-side tagged type and its flat
// GPU counterpart.
func ToCameraUBO(cam *scene.Camera, totalSamples, currentSample int32) CameraUBO {
	b := cam.Basis()
	return CameraUBO{
		CameraCenter:  [3]float32{cam.LookFrom.X, cam.LookFrom.Y, cam.LookFrom.Z},
		Pixel00:       [3]float32{b.Pixel00.X, b.Pixel00.Y, b.Pixel00.Z},
		PixelDeltaU:   [3]float32{b.PixelDeltaU.X, b.PixelDeltaU.Y, b.PixelDeltaU.Z},
		PixelDeltaV:   [3]float32{b.PixelDeltaV.X, b.PixelDeltaV.Y, b.PixelDeltaV.Z},
		DefocusDiskU:  [3]float32{b.DefocusDiskU.X, b.DefocusDiskU.Y, b.DefocusDiskU.Z},
		DefocusAngle:  cam.DefocusAngle,
		DefocusDiskV:  [3]float32{b.DefocusDiskV.X, b.DefocusDiskV.Y, b.DefocusDiskV.Z},
		Width:         int32(cam.ImageWidth),
		Height:        int32(cam.ImageHeight),
		MaxDepth:      int32(cam.MaxDepth),
		TotalSamples:  totalSamples,
		CurrentSample: currentSample,
	}
}

// GPUSphereHeader is the 16-byte header preceding the sphere array in
// SSBO binding 1.
type GPUSphereHeader struct {
	Count int32
	_pad  [3]int32
}

// GPUSphere is the 48-byte std430 sphere record. Dielectric materials
// upload Albedo=(1,1,1) and FuzzOrIOR=refraction index, per the shared
// material-type convention (Lambertian=0, Metallic=1, Dielectric=2).
type GPUSphere struct {
	Center     [3]float32
	Radius     float32
	Albedo     [3]float32
	MatType    int32
	FuzzOrIOR  float32
	_pad       [3]float32
}

const gpuSphereSize = 48

var _ [gpuSphereSize - int(unsafe.Sizeof(GPUSphere{}))]byte
var _ [int(unsafe.Sizeof(GPUSphere{})) - gpuSphereSize]byte

// ToGPUSphere flattens a scene sphere and its tagged material into the
// GPU's struct-of-payload representation.
func ToGPUSphere(s scene.Sphere) GPUSphere {
	g := GPUSphere{
		Center:  [3]float32{s.Center.X, s.Center.Y, s.Center.Z},
		Radius:  s.Radius,
		MatType: int32(s.Mat.Type),
	}
	switch s.Mat.Type {
	case materials.Dielectric:
		g.Albedo = [3]float32{1, 1, 1}
		g.FuzzOrIOR = s.Mat.RefractionIndex
	default:
		g.Albedo = [3]float32{s.Mat.Albedo.X, s.Mat.Albedo.Y, s.Mat.Albedo.Z}
		g.FuzzOrIOR = s.Mat.Fuzz
	}
	return g
}

// BVHHeader is the 16-byte header preceding the flat BVH array in SSBO
// binding 2.
type BVHHeader struct {
	Count int32
	_pad  [3]int32
}

const bvhHeaderSize = 16

var _ [bvhHeaderSize - int(unsafe.Sizeof(BVHHeader{}))]byte
var _ [int(unsafe.Sizeof(BVHHeader{})) - bvhHeaderSize]byte

// sphereSSBOSize returns the total byte size of binding 1's buffer for
// a scene with the given sphere count.
func sphereSSBOSize(count int) uint64 {
	return uint64(bvhHeaderSize + count*gpuSphereSize)
}

func bvhSSBOSize(count int) uint64 {
	return uint64(bvhHeaderSize + count*int(unsafe.Sizeof(bvh.FlatNode{})))
}

func outputSSBOSize(width, height int) uint64 {
	return uint64(width*height) * 16 // vec4 per pixel
}
