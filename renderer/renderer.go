package renderer

/*
#include <vulkan/vulkan.h>
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"pathtracer/bvh"
	"pathtracer/scene"
	"pathtracer/vulkan"
)

// Engine owns the full Vulkan compute pipeline for the GPU path-tracing
// backend: instance, device, the three scene-describing buffers, the
// output accumulation buffer, and the descriptor set binding them to the
// compute shader. render.gpuBackend drives one Dispatch per sample and
// reads Output back after each.
type Engine struct {
	instance *vulkan.Instance
	device   *vulkan.Device
	pipeline *vulkan.Pipeline

	descLayout C.VkDescriptorSetLayout
	descPool   *vulkan.DescriptorPool
	descSet    vulkan.DescriptorSet

	cmdBuffers []vulkan.CommandBuffer
	fence      *vulkan.Fence

	uboBuf    *vulkan.Buffer
	sphereBuf *vulkan.Buffer
	bvhBuf    *vulkan.Buffer
	outputBuf *vulkan.Buffer

	width, height int
}

// NewEngine stands up a headless compute-only Vulkan context sized for
// the given scene and flattened BVH, uploads both once, and compiles the
// path-tracing compute shader. Any failure here — no Vulkan loader, no
// compute-capable device, no shader compiler on PATH — is returned to the
// caller, which (per the session's GPU-fallback contract) logs it and
// continues on the CPU.
func NewEngine(scn *scene.Scene, flatBVH []bvh.FlatNode) (*Engine, error) {
	cam := scn.Camera
	e := &Engine{width: cam.ImageWidth, height: cam.ImageHeight}

	instance, err := vulkan.NewInstance(vulkan.DefaultInstanceConfig())
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	e.instance = instance

	device, err := vulkan.PickPhysicalDevice(instance)
	if err != nil {
		e.Destroy()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	if err := device.CreateLogicalDevice(); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	e.device = device

	if err := e.createBuffers(scn, flatBVH); err != nil {
		e.Destroy()
		return nil, err
	}

	if err := e.createPipeline(); err != nil {
		e.Destroy()
		return nil, err
	}

	if err := e.createCommandBuffer(); err != nil {
		e.Destroy()
		return nil, err
	}

	fmt.Printf("renderer: GPU backend initialized on %s (%s)\n", device.GetGPUName(), device.GetDeviceType())

	return e, nil
}

func (e *Engine) createBuffers(scn *scene.Scene, flatBVH []bvh.FlatNode) error {
	var err error

	e.uboBuf, err = vulkan.CreateUniformBuffer(e.device, cameraUBOSize)
	if err != nil {
		return fmt.Errorf("renderer: camera UBO: %w", err)
	}

	sphereSize := sphereSSBOSize(len(scn.Spheres))
	e.sphereBuf, err = vulkan.CreateHostStorageBuffer(e.device, sphereSize, 0)
	if err != nil {
		return fmt.Errorf("renderer: sphere SSBO: %w", err)
	}
	writeSphereBuffer(e.sphereBuf, scn.Spheres)

	bvhSize := bvhSSBOSize(len(flatBVH))
	e.bvhBuf, err = vulkan.CreateHostStorageBuffer(e.device, bvhSize, 0)
	if err != nil {
		return fmt.Errorf("renderer: BVH SSBO: %w", err)
	}
	writeBVHBuffer(e.bvhBuf, flatBVH)

	outSize := outputSSBOSize(e.width, e.height)
	e.outputBuf, err = vulkan.CreateHostStorageBuffer(e.device, outSize, 0)
	if err != nil {
		return fmt.Errorf("renderer: output SSBO: %w", err)
	}

	return nil
}

func writeSphereBuffer(buf *vulkan.Buffer, spheres []scene.Sphere) {
	header := GPUSphereHeader{Count: int32(len(spheres))}
	buf.CopyData(unsafe.Pointer(&header), uint64(bvhHeaderSize))

	gpuSpheres := make([]GPUSphere, len(spheres))
	for i, s := range spheres {
		gpuSpheres[i] = ToGPUSphere(s)
	}
	if len(gpuSpheres) > 0 {
		buf.CopyDataAt(uint64(bvhHeaderSize), unsafe.Pointer(&gpuSpheres[0]), uint64(len(gpuSpheres)*gpuSphereSize))
	}
}

func writeBVHBuffer(buf *vulkan.Buffer, nodes []bvh.FlatNode) {
	header := BVHHeader{Count: int32(len(nodes))}
	buf.CopyData(unsafe.Pointer(&header), uint64(bvhHeaderSize))

	if len(nodes) > 0 {
		buf.CopyDataAt(uint64(bvhHeaderSize), unsafe.Pointer(&nodes[0]), uint64(len(nodes))*uint64(unsafe.Sizeof(bvh.FlatNode{})))
	}
}

func (e *Engine) createPipeline() error {
	bindings := []C.VkDescriptorSetLayoutBinding{
		vulkan.UniformBufferBinding(0, C.VK_SHADER_STAGE_COMPUTE_BIT),
		vulkan.StorageBufferBinding(1, C.VK_SHADER_STAGE_COMPUTE_BIT),
		vulkan.StorageBufferBinding(2, C.VK_SHADER_STAGE_COMPUTE_BIT),
		vulkan.StorageBufferBinding(3, C.VK_SHADER_STAGE_COMPUTE_BIT),
	}

	layout, err := vulkan.CreateDescriptorSetLayout(e.device, bindings)
	if err != nil {
		return fmt.Errorf("renderer: descriptor set layout: %w", err)
	}
	e.descLayout = layout

	poolSizes := []C.VkDescriptorPoolSize{
		{_type: C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, descriptorCount: 1},
		{_type: C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, descriptorCount: 3},
	}
	pool, err := vulkan.CreateDescriptorPool(e.device, poolSizes, 1)
	if err != nil {
		return fmt.Errorf("renderer: descriptor pool: %w", err)
	}
	e.descPool = pool

	sets, err := pool.AllocateDescriptorSets(e.device, []C.VkDescriptorSetLayout{layout})
	if err != nil {
		return fmt.Errorf("renderer: descriptor set: %w", err)
	}
	e.descSet = sets[0]

	vulkan.UpdateDescriptorSetBuffer(e.device, e.descSet.Handle, 0, C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER, e.uboBuf.Handle, 0, e.uboBuf.Size)
	vulkan.UpdateDescriptorSetBuffer(e.device, e.descSet.Handle, 1, C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, e.sphereBuf.Handle, 0, e.sphereBuf.Size)
	vulkan.UpdateDescriptorSetBuffer(e.device, e.descSet.Handle, 2, C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, e.bvhBuf.Handle, 0, e.bvhBuf.Size)
	vulkan.UpdateDescriptorSetBuffer(e.device, e.descSet.Handle, 3, C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER, e.outputBuf.Handle, 0, e.outputBuf.Size)

	shaderPath := filepath.Join(os.TempDir(), "pathtracer-compute.spv")
	code, err := CompiledComputeShader(shaderPath)
	if err != nil {
		return fmt.Errorf("renderer: compute shader: %w", err)
	}

	pipeline, err := vulkan.CreateComputePipeline(e.device, vulkan.ComputePipelineConfig{
		ShaderCode:          code,
		DescriptorSetLayout: layout,
	})
	if err != nil {
		return fmt.Errorf("renderer: compute pipeline: %w", err)
	}
	e.pipeline = pipeline

	return nil
}

func (e *Engine) createCommandBuffer() error {
	buffers, err := vulkan.AllocateCommandBuffers(e.device, e.device.CommandPool, 1)
	if err != nil {
		return fmt.Errorf("renderer: command buffer: %w", err)
	}
	e.cmdBuffers = buffers

	fence, err := vulkan.CreateFence(e.device, false)
	if err != nil {
		return fmt.Errorf("renderer: fence: %w", err)
	}
	e.fence = fence

	return nil
}

// Dispatch writes the camera UBO for the given sample index, records and
// submits one dispatch over the whole image, and blocks until it
// completes. It is called once per progressive sample.
func (e *Engine) Dispatch(cam CameraUBO) error {
	e.uboBuf.CopyData(unsafe.Pointer(&cam), cameraUBOSize)

	cb := e.cmdBuffers[0]
	if err := cb.Begin(true); err != nil {
		return err
	}

	cb.BindComputePipeline(e.pipeline.Handle)
	cb.BindComputeDescriptorSets(e.pipeline.Layout, 0, []C.VkDescriptorSet{e.descSet.Handle})

	groupsX := uint32((e.width + 7) / 8)
	groupsY := uint32((e.height + 7) / 8)
	cb.Dispatch(groupsX, groupsY, 1)

	vulkan.StorageBufferBarrier(cb.Handle, e.outputBuf.Handle, e.outputBuf.Size)

	if err := cb.End(); err != nil {
		return err
	}

	if err := e.fence.Reset(e.device); err != nil {
		return err
	}
	if err := vulkan.SubmitCompute(e.device.ComputeQueue, cb, e.fence); err != nil {
		return err
	}
	return e.fence.Wait(e.device, ^uint64(0))
}

// ReadOutput copies the accumulation SSBO back into dst, a caller-owned
// slice of width*height vec4s.
func (e *Engine) ReadOutput(dst [][4]float32) {
	if len(dst) == 0 {
		return
	}
	e.outputBuf.ReadData(unsafe.Pointer(&dst[0]), uint64(len(dst))*16)
}

func (e *Engine) Destroy() {
	if e.device != nil {
		e.device.WaitIdle()
	}
	if e.fence != nil {
		e.fence.Destroy(e.device)
	}
	if len(e.cmdBuffers) > 0 {
		vulkan.FreeCommandBuffers(e.device, e.device.CommandPool, e.cmdBuffers)
	}
	if e.pipeline != nil {
		e.pipeline.Destroy(e.device)
	}
	if e.descPool != nil {
		e.descPool.Destroy(e.device)
	}
	if e.uboBuf != nil {
		e.uboBuf.Destroy(e.device)
	}
	if e.sphereBuf != nil {
		e.sphereBuf.Destroy(e.device)
	}
	if e.bvhBuf != nil {
		e.bvhBuf.Destroy(e.device)
	}
	if e.outputBuf != nil {
		e.outputBuf.Destroy(e.device)
	}
	if e.device != nil {
		e.device.Destroy()
	}
	if e.instance != nil {
		e.instance.Destroy()
	}
}
