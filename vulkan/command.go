package vulkan

/*
#include <vulkan/vulkan.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

type CommandBuffer struct {
	Handle C.VkCommandBuffer
}

func AllocateCommandBuffers(device *Device, pool C.VkCommandPool, count uint32) ([]CommandBuffer, error) {
	allocInfo := C.VkCommandBufferAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_ALLOCATE_INFO,
		commandPool:        pool,
		level:              C.VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		commandBufferCount: C.uint32_t(count),
	}

	buffers := make([]CommandBuffer, count)
	handles := make([]C.VkCommandBuffer, count)

	result := C.vkAllocateCommandBuffers(device.Device, &allocInfo, &handles[0])
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate command buffers: %d", result)
	}

	for i := range buffers {
		buffers[i].Handle = handles[i]
	}

	return buffers, nil
}

func (cb *CommandBuffer) Begin(oneTime bool) error {
	beginInfo := C.VkCommandBufferBeginInfo{
		sType: C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_BEGIN_INFO,
	}

	if oneTime {
		beginInfo.flags = C.VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT
	}

	result := C.vkBeginCommandBuffer(cb.Handle, &beginInfo)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to begin recording command buffer: %d", result)
	}
	return nil
}

func (cb *CommandBuffer) End() error {
	result := C.vkEndCommandBuffer(cb.Handle)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to end recording command buffer: %d", result)
	}
	return nil
}

func (cb *CommandBuffer) BindComputePipeline(pipeline C.VkPipeline) {
	C.vkCmdBindPipeline(cb.Handle, C.VK_PIPELINE_BIND_POINT_COMPUTE, pipeline)
}

func (cb *CommandBuffer) BindComputeDescriptorSets(layout C.VkPipelineLayout, firstSet uint32, descriptorSets []C.VkDescriptorSet) {
	C.vkCmdBindDescriptorSets(cb.Handle, C.VK_PIPELINE_BIND_POINT_COMPUTE, layout, C.uint32_t(firstSet), C.uint32_t(len(descriptorSets)), &descriptorSets[0], 0, nil)
}

func (cb *CommandBuffer) PushConstants(layout C.VkPipelineLayout, stageFlags C.VkShaderStageFlags, offset uint32, size uint32, values unsafe.Pointer) {
	C.vkCmdPushConstants(cb.Handle, layout, stageFlags, C.uint32_t(offset), C.uint32_t(size), values)
}

// Dispatch records a compute dispatch over groupsX*groupsY*groupsZ
// workgroups. One dispatch traces one sample per pixel across the whole
// image; the caller re-records and resubmits per sample.
func (cb *CommandBuffer) Dispatch(groupsX, groupsY, groupsZ uint32) {
	C.vkCmdDispatch(cb.Handle, C.uint32_t(groupsX), C.uint32_t(groupsY), C.uint32_t(groupsZ))
}

// StorageBufferBarrier records a full read-after-write barrier on a
// storage buffer between a compute dispatch and a subsequent host
// readback (or the next dispatch, for the accumulation buffer which is
// both read and written every sample).
func StorageBufferBarrier(cmdBuffer C.VkCommandBuffer, buffer C.VkBuffer, size uint64) {
	barrier := C.VkBufferMemoryBarrier{
		sType:               C.VK_STRUCTURE_TYPE_BUFFER_MEMORY_BARRIER,
		srcAccessMask:       C.VK_ACCESS_SHADER_WRITE_BIT,
		dstAccessMask:       C.VK_ACCESS_SHADER_READ_BIT | C.VK_ACCESS_HOST_READ_BIT,
		srcQueueFamilyIndex: C.VK_QUEUE_FAMILY_IGNORED,
		dstQueueFamilyIndex: C.VK_QUEUE_FAMILY_IGNORED,
		buffer:              buffer,
		offset:              0,
		size:                C.VkDeviceSize(size),
	}

	C.vkCmdPipelineBarrier(
		cmdBuffer,
		C.VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT,
		C.VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT|C.VK_PIPELINE_STAGE_HOST_BIT,
		0,
		0, nil,
		1, &barrier,
		0, nil,
	)
}

func FreeCommandBuffers(device *Device, pool C.VkCommandPool, buffers []CommandBuffer) {
	handles := make([]C.VkCommandBuffer, len(buffers))
	for i, buf := range buffers {
		handles[i] = buf.Handle
	}
	C.vkFreeCommandBuffers(device.Device, pool, C.uint32_t(len(handles)), &handles[0])
}
