package vulkan

/*
#include <vulkan/vulkan.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Buffer wraps a VkBuffer and its backing memory. The compute backend uses
// this for three shapes: a host-visible UBO (camera uniforms), two
// host-visible SSBOs (scene + BVH, written once before dispatch), and a
// host-visible SSBO (accumulation output, read back after every sample).
// There is no Image/depth-buffer counterpart here: a compute pipeline with
// no rasterization pass has nothing to attach a depth image to.
type Buffer struct {
	Handle     C.VkBuffer
	Memory     C.VkDeviceMemory
	Size       uint64
	MappedData unsafe.Pointer
}

func CreateBuffer(device *Device, size uint64, usage C.VkBufferUsageFlags, properties C.VkMemoryPropertyFlags) (*Buffer, error) {
	bufferInfo := C.VkBufferCreateInfo{
		sType:       C.VK_STRUCTURE_TYPE_BUFFER_CREATE_INFO,
		size:        C.VkDeviceSize(size),
		usage:       usage,
		sharingMode: C.VK_SHARING_MODE_EXCLUSIVE,
	}

	buffer := &Buffer{Size: size}

	result := C.vkCreateBuffer(device.Device, &bufferInfo, nil, &buffer.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create buffer: %d", result)
	}

	var memRequirements C.VkMemoryRequirements
	C.vkGetBufferMemoryRequirements(device.Device, buffer.Handle, &memRequirements)

	memType, err := device.FindMemoryType(uint32(memRequirements.memoryTypeBits), properties)
	if err != nil {
		return nil, err
	}

	allocInfo := C.VkMemoryAllocateInfo{
		sType:           C.VK_STRUCTURE_TYPE_MEMORY_ALLOCATE_INFO,
		allocationSize:  memRequirements.size,
		memoryTypeIndex: C.uint32_t(memType),
	}

	result = C.vkAllocateMemory(device.Device, &allocInfo, nil, &buffer.Memory)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate buffer memory: %d", result)
	}

	result = C.vkBindBufferMemory(device.Device, buffer.Handle, buffer.Memory, 0)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to bind buffer memory: %d", result)
	}

	return buffer, nil
}

// CreateHostStorageBuffer allocates an SSBO-usable buffer backed by
// host-visible, host-coherent memory, so the Go side can fill or read it
// with a plain CopyData/Read without a separate staging buffer and copy.
// Scene size is capped in the low hundreds of primitives, so skipping the
// device-local-plus-staging dance costs nothing measurable.
func CreateHostStorageBuffer(device *Device, size uint64, extraUsage C.VkBufferUsageFlags) (*Buffer, error) {
	usage := C.VkBufferUsageFlags(C.VK_BUFFER_USAGE_STORAGE_BUFFER_BIT) | extraUsage
	props := C.VkMemoryPropertyFlags(C.VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT | C.VK_MEMORY_PROPERTY_HOST_COHERENT_BIT)
	buf, err := CreateBuffer(device, size, usage, props)
	if err != nil {
		return nil, err
	}
	if err := buf.Map(device); err != nil {
		buf.Destroy(device)
		return nil, err
	}
	return buf, nil
}

// CreateUniformBuffer allocates the camera UBO, host-visible for the same
// reason as CreateHostStorageBuffer: it is rewritten before every dispatch.
func CreateUniformBuffer(device *Device, size uint64) (*Buffer, error) {
	usage := C.VkBufferUsageFlags(C.VK_BUFFER_USAGE_UNIFORM_BUFFER_BIT)
	props := C.VkMemoryPropertyFlags(C.VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT | C.VK_MEMORY_PROPERTY_HOST_COHERENT_BIT)
	buf, err := CreateBuffer(device, size, usage, props)
	if err != nil {
		return nil, err
	}
	if err := buf.Map(device); err != nil {
		buf.Destroy(device)
		return nil, err
	}
	return buf, nil
}

func (b *Buffer) Map(device *Device) error {
	if b.MappedData != nil {
		return nil
	}
	result := C.vkMapMemory(device.Device, b.Memory, 0, C.VkDeviceSize(b.Size), 0, &b.MappedData)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to map buffer memory: %d", result)
	}
	return nil
}

func (b *Buffer) Unmap(device *Device) {
	if b.MappedData != nil {
		C.vkUnmapMemory(device.Device, b.Memory)
		b.MappedData = nil
	}
}

func (b *Buffer) CopyData(data unsafe.Pointer, size uint64) {
	if b.MappedData != nil {
		C.memcpy(b.MappedData, data, C.size_t(size))
	}
}

// CopyDataAt writes size bytes into the mapped buffer starting at offset,
// used to fill an SSBO's element array after its fixed-size header.
func (b *Buffer) CopyDataAt(offset uint64, data unsafe.Pointer, size uint64) {
	if b.MappedData != nil {
		dst := unsafe.Pointer(uintptr(b.MappedData) + uintptr(offset))
		C.memcpy(dst, data, C.size_t(size))
	}
}

// ReadData copies size bytes out of the mapped buffer into dst, used for
// pulling the accumulation SSBO back to the host after a dispatch.
func (b *Buffer) ReadData(dst unsafe.Pointer, size uint64) {
	if b.MappedData != nil {
		C.memcpy(dst, b.MappedData, C.size_t(size))
	}
}

func (b *Buffer) Destroy(device *Device) {
	b.Unmap(device)
	if b.Handle != nil {
		C.vkDestroyBuffer(device.Device, b.Handle, nil)
	}
	if b.Memory != nil {
		C.vkFreeMemory(device.Device, b.Memory, nil)
	}
}

func CopyBuffer(device *Device, srcBuffer, dstBuffer C.VkBuffer, size uint64, commandPool C.VkCommandPool, queue C.VkQueue) error {
	allocInfo := C.VkCommandBufferAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_ALLOCATE_INFO,
		level:              C.VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		commandPool:        commandPool,
		commandBufferCount: 1,
	}

	var commandBuffer C.VkCommandBuffer
	C.vkAllocateCommandBuffers(device.Device, &allocInfo, &commandBuffer)

	beginInfo := C.VkCommandBufferBeginInfo{
		sType: C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_BEGIN_INFO,
		flags: C.VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT,
	}

	C.vkBeginCommandBuffer(commandBuffer, &beginInfo)

	copyRegion := C.VkBufferCopy{
		size: C.VkDeviceSize(size),
	}

	C.vkCmdCopyBuffer(commandBuffer, srcBuffer, dstBuffer, 1, &copyRegion)

	C.vkEndCommandBuffer(commandBuffer)

	submitInfo := C.VkSubmitInfo{
		sType:              C.VK_STRUCTURE_TYPE_SUBMIT_INFO,
		commandBufferCount: 1,
		pCommandBuffers:    &commandBuffer,
	}

	C.vkQueueSubmit(queue, 1, &submitInfo, nil)
	C.vkQueueWaitIdle(queue)

	C.vkFreeCommandBuffers(device.Device, commandPool, 1, &commandBuffer)

	return nil
}
