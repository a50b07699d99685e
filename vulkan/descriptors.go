package vulkan

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

type DescriptorPool struct {
	Handle C.VkDescriptorPool
}

type DescriptorSet struct {
	Handle C.VkDescriptorSet
}

func CreateDescriptorSetLayout(device *Device, bindings []C.VkDescriptorSetLayoutBinding) (C.VkDescriptorSetLayout, error) {
	bindingsSize := C.size_t(len(bindings)) * C.size_t(unsafe.Sizeof(C.VkDescriptorSetLayoutBinding{}))
	cBindings := C.malloc(bindingsSize)
	defer C.free(cBindings)
	C.memcpy(cBindings, unsafe.Pointer(&bindings[0]), bindingsSize)

	layoutInfo := (*C.VkDescriptorSetLayoutCreateInfo)(C.malloc(C.size_t(unsafe.Sizeof(C.VkDescriptorSetLayoutCreateInfo{}))))
	defer C.free(unsafe.Pointer(layoutInfo))
	C.memset(unsafe.Pointer(layoutInfo), 0, C.size_t(unsafe.Sizeof(C.VkDescriptorSetLayoutCreateInfo{})))
	layoutInfo.sType = C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_CREATE_INFO
	layoutInfo.bindingCount = C.uint32_t(len(bindings))
	layoutInfo.pBindings = (*C.VkDescriptorSetLayoutBinding)(cBindings)

	var layout C.VkDescriptorSetLayout
	result := C.vkCreateDescriptorSetLayout(device.Device, layoutInfo, nil, &layout)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create descriptor set layout: %d", result)
	}

	return layout, nil
}

func CreateDescriptorPool(device *Device, poolSizes []C.VkDescriptorPoolSize, maxSets uint32) (*DescriptorPool, error) {
	poolSizesSize := C.size_t(len(poolSizes)) * C.size_t(unsafe.Sizeof(C.VkDescriptorPoolSize{}))
	cPoolSizes := C.malloc(poolSizesSize)
	defer C.free(cPoolSizes)
	C.memcpy(cPoolSizes, unsafe.Pointer(&poolSizes[0]), poolSizesSize)

	poolInfo := (*C.VkDescriptorPoolCreateInfo)(C.malloc(C.size_t(unsafe.Sizeof(C.VkDescriptorPoolCreateInfo{}))))
	defer C.free(unsafe.Pointer(poolInfo))
	C.memset(unsafe.Pointer(poolInfo), 0, C.size_t(unsafe.Sizeof(C.VkDescriptorPoolCreateInfo{})))
	poolInfo.sType = C.VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_CREATE_INFO
	poolInfo.poolSizeCount = C.uint32_t(len(poolSizes))
	poolInfo.pPoolSizes = (*C.VkDescriptorPoolSize)(cPoolSizes)
	poolInfo.maxSets = C.uint32_t(maxSets)

	pool := &DescriptorPool{}
	result := C.vkCreateDescriptorPool(device.Device, poolInfo, nil, &pool.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create descriptor pool: %d", result)
	}

	return pool, nil
}

func (p *DescriptorPool) Destroy(device *Device) {
	C.vkDestroyDescriptorPool(device.Device, p.Handle, nil)
}

func (p *DescriptorPool) AllocateDescriptorSets(device *Device, layouts []C.VkDescriptorSetLayout) ([]DescriptorSet, error) {
	layoutsSize := C.size_t(len(layouts)) * C.size_t(unsafe.Sizeof(C.VkDescriptorSetLayout(nil)))
	cLayouts := C.malloc(layoutsSize)
	defer C.free(cLayouts)
	C.memcpy(cLayouts, unsafe.Pointer(&layouts[0]), layoutsSize)

	allocInfo := (*C.VkDescriptorSetAllocateInfo)(C.malloc(C.size_t(unsafe.Sizeof(C.VkDescriptorSetAllocateInfo{}))))
	defer C.free(unsafe.Pointer(allocInfo))
	C.memset(unsafe.Pointer(allocInfo), 0, C.size_t(unsafe.Sizeof(C.VkDescriptorSetAllocateInfo{})))
	allocInfo.sType = C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_ALLOCATE_INFO
	allocInfo.descriptorPool = p.Handle
	allocInfo.descriptorSetCount = C.uint32_t(len(layouts))
	allocInfo.pSetLayouts = (*C.VkDescriptorSetLayout)(cLayouts)

	sets := make([]DescriptorSet, len(layouts))
	handles := make([]C.VkDescriptorSet, len(layouts))

	result := C.vkAllocateDescriptorSets(device.Device, allocInfo, &handles[0])
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate descriptor sets: %d", result)
	}

	for i := range sets {
		sets[i].Handle = handles[i]
	}

	return sets, nil
}

// UpdateDescriptorSetBuffer binds either a uniform or storage buffer to a
// descriptor set, chosen by descriptorType (the GPU backend's camera UBO
// and its scene/BVH/output SSBOs all go through this single entry point).
func UpdateDescriptorSetBuffer(device *Device, set C.VkDescriptorSet, binding uint32, descriptorType C.VkDescriptorType, buffer C.VkBuffer, offset, range_ uint64) {
	bufferInfo := (*C.VkDescriptorBufferInfo)(C.malloc(C.size_t(unsafe.Sizeof(C.VkDescriptorBufferInfo{}))))
	defer C.free(unsafe.Pointer(bufferInfo))
	bufferInfo.buffer = buffer
	bufferInfo.offset = C.VkDeviceSize(offset)
	bufferInfo._range = C.VkDeviceSize(range_)

	descriptorWrite := (*C.VkWriteDescriptorSet)(C.malloc(C.size_t(unsafe.Sizeof(C.VkWriteDescriptorSet{}))))
	defer C.free(unsafe.Pointer(descriptorWrite))
	C.memset(unsafe.Pointer(descriptorWrite), 0, C.size_t(unsafe.Sizeof(C.VkWriteDescriptorSet{})))
	descriptorWrite.sType = C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET
	descriptorWrite.dstSet = set
	descriptorWrite.dstBinding = C.uint32_t(binding)
	descriptorWrite.dstArrayElement = 0
	descriptorWrite.descriptorType = descriptorType
	descriptorWrite.descriptorCount = 1
	descriptorWrite.pBufferInfo = bufferInfo

	C.vkUpdateDescriptorSets(device.Device, 1, descriptorWrite, 0, nil)
}

// UniformBufferBinding describes the camera UBO binding (binding 0 by
// convention in the compute shader's descriptor set).
func UniformBufferBinding(binding uint32, stageFlags C.VkShaderStageFlags) C.VkDescriptorSetLayoutBinding {
	return C.VkDescriptorSetLayoutBinding{
		binding:            C.uint32_t(binding),
		descriptorType:     C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER,
		descriptorCount:    1,
		stageFlags:         stageFlags,
		pImmutableSamplers: nil,
	}
}

// StorageBufferBinding describes one SSBO binding: the sphere array, the
// flattened BVH, or the accumulation buffer, all bound to the compute
// stage at distinct binding indices within the same descriptor set.
func StorageBufferBinding(binding uint32, stageFlags C.VkShaderStageFlags) C.VkDescriptorSetLayoutBinding {
	return C.VkDescriptorSetLayoutBinding{
		binding:            C.uint32_t(binding),
		descriptorType:     C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER,
		descriptorCount:    1,
		stageFlags:         stageFlags,
		pImmutableSamplers: nil,
	}
}
