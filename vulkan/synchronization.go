package vulkan

/*
#include <vulkan/vulkan.h>
*/
import "C"
import (
	"fmt"
)

type Semaphore struct {
	Handle C.VkSemaphore
}

type Fence struct {
	Handle C.VkFence
}

func CreateSemaphore(device *Device) (*Semaphore, error) {
	semaphoreInfo := C.VkSemaphoreCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_SEMAPHORE_CREATE_INFO,
	}
	
	var semaphore C.VkSemaphore
	result := C.vkCreateSemaphore(device.Device, &semaphoreInfo, nil, &semaphore)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create semaphore: %d", result)
	}
	
	return &Semaphore{Handle: semaphore}, nil
}

func (s *Semaphore) Destroy(device *Device) {
	C.vkDestroySemaphore(device.Device, s.Handle, nil)
}

func CreateFence(device *Device, signaled bool) (*Fence, error) {
	flags := C.VkFenceCreateFlags(0)
	if signaled {
		flags = C.VK_FENCE_CREATE_SIGNALED_BIT
	}
	
	fenceInfo := C.VkFenceCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_FENCE_CREATE_INFO,
		flags: flags,
	}
	
	var fence C.VkFence
	result := C.vkCreateFence(device.Device, &fenceInfo, nil, &fence)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create fence: %d", result)
	}
	
	return &Fence{Handle: fence}, nil
}

func (f *Fence) Destroy(device *Device) {
	C.vkDestroyFence(device.Device, f.Handle, nil)
}

func (f *Fence) Wait(device *Device, timeout uint64) error {
	result := C.vkWaitForFences(device.Device, 1, &f.Handle, C.VK_TRUE, C.uint64_t(timeout))
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to wait for fence: %d", result)
	}
	return nil
}

func (f *Fence) Reset(device *Device) error {
	result := C.vkResetFences(device.Device, 1, &f.Handle)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to reset fence: %d", result)
	}
	return nil
}

// SubmitCompute submits a single command buffer with no semaphore
// dependencies, signaling fence on completion. This is the common case
// for a dispatch-then-readback loop: each sample's dispatch neither
// waits on nor signals another queue operation, only the host waiting
// on the fence.
func SubmitCompute(queue C.VkQueue, cmdBuffer CommandBuffer, fence *Fence) error {
	var fenceHandle C.VkFence
	if fence != nil {
		fenceHandle = fence.Handle
	}

	submitInfo := C.VkSubmitInfo{
		sType:              C.VK_STRUCTURE_TYPE_SUBMIT_INFO,
		commandBufferCount: 1,
		pCommandBuffers:    &cmdBuffer.Handle,
	}

	result := C.vkQueueSubmit(queue, 1, &submitInfo, fenceHandle)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to submit compute command buffer: %d", result)
	}

	return nil
}

func SubmitQueue(queue C.VkQueue, commandBuffers []CommandBuffer, waitSemaphores []C.VkSemaphore, signalSemaphores []C.VkSemaphore, fence *Fence) error {
	cmdBufferHandles := make([]C.VkCommandBuffer, len(commandBuffers))
	for i, cb := range commandBuffers {
		cmdBufferHandles[i] = cb.Handle
	}

	waitStages := make([]C.VkPipelineStageFlags, len(waitSemaphores))
	for i := range waitStages {
		waitStages[i] = C.VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT
	}

	var fenceHandle C.VkFence
	if fence != nil {
		fenceHandle = fence.Handle
	}
	
	submitInfo := C.VkSubmitInfo{
		sType:                C.VK_STRUCTURE_TYPE_SUBMIT_INFO,
		waitSemaphoreCount:   C.uint32_t(len(waitSemaphores)),
		pWaitSemaphores:      &waitSemaphores[0],
		pWaitDstStageMask:    &waitStages[0],
		commandBufferCount:   C.uint32_t(len(cmdBufferHandles)),
		pCommandBuffers:      &cmdBufferHandles[0],
		signalSemaphoreCount: C.uint32_t(len(signalSemaphores)),
		pSignalSemaphores:    &signalSemaphores[0],
	}
	
	result := C.vkQueueSubmit(queue, 1, &submitInfo, fenceHandle)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to submit draw command buffer: %d", result)
	}
	
	return nil
}
