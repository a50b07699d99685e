package vulkan

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>

VkShaderModule createShaderModule(VkDevice device, const uint32_t* code, size_t size) {
    VkShaderModuleCreateInfo createInfo = {0};
    createInfo.sType = VK_STRUCTURE_TYPE_SHADER_MODULE_CREATE_INFO;
    createInfo.codeSize = size;
    createInfo.pCode = code;

    VkShaderModule shaderModule;
    if (vkCreateShaderModule(device, &createInfo, NULL, &shaderModule) != VK_SUCCESS) {
        return NULL;
    }
    return shaderModule;
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Pipeline wraps a single compute pipeline: one shader stage, one layout,
// one optional descriptor set layout for the scene/BVH/output SSBOs and
// camera UBO. A compute dispatch has neither a render pass nor a
// rasterization stage.
type Pipeline struct {
	Handle              C.VkPipeline
	Layout              C.VkPipelineLayout
	ComputeShader       C.VkShaderModule
	DescriptorSetLayout C.VkDescriptorSetLayout
}

// ComputePipelineConfig describes the single compute stage and its
// descriptor set layout.
type ComputePipelineConfig struct {
	ShaderCode          []uint32
	DescriptorSetLayout C.VkDescriptorSetLayout
	PushConstantSize    uint32
}

func CreateComputePipeline(device *Device, config ComputePipelineConfig) (*Pipeline, error) {
	if len(config.ShaderCode) == 0 {
		return nil, fmt.Errorf("compute pipeline requires shader code")
	}

	p := &Pipeline{DescriptorSetLayout: config.DescriptorSetLayout}

	p.ComputeShader = C.createShaderModule(device.Device, (*C.uint32_t)(unsafe.Pointer(&config.ShaderCode[0])), C.size_t(len(config.ShaderCode)*4))
	if p.ComputeShader == nil {
		return nil, fmt.Errorf("failed to create compute shader module")
	}

	entryPoint := C.CString("main")
	defer C.free(unsafe.Pointer(entryPoint))

	stageInfo := C.VkPipelineShaderStageCreateInfo{
		sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
		stage:  C.VK_SHADER_STAGE_COMPUTE_BIT,
		module: p.ComputeShader,
		pName:  entryPoint,
	}

	layoutInfo := C.VkPipelineLayoutCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
	}

	if p.DescriptorSetLayout != nil {
		layoutInfo.setLayoutCount = 1
		layoutInfo.pSetLayouts = &p.DescriptorSetLayout
	}

	var pushConstantRange C.VkPushConstantRange
	if config.PushConstantSize > 0 {
		pushConstantRange = C.VkPushConstantRange{
			stageFlags: C.VK_SHADER_STAGE_COMPUTE_BIT,
			offset:     0,
			size:       C.uint32_t(config.PushConstantSize),
		}
		layoutInfo.pushConstantRangeCount = 1
		layoutInfo.pPushConstantRanges = &pushConstantRange
	}

	result := C.vkCreatePipelineLayout(device.Device, &layoutInfo, nil, &p.Layout)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create pipeline layout: %d", result)
	}

	pipelineInfo := C.VkComputePipelineCreateInfo{
		sType:  C.VK_STRUCTURE_TYPE_COMPUTE_PIPELINE_CREATE_INFO,
		stage:  stageInfo,
		layout: p.Layout,
	}

	result = C.vkCreateComputePipelines(device.Device, nil, 1, &pipelineInfo, nil, &p.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create compute pipeline: %d", result)
	}

	return p, nil
}

func (p *Pipeline) Destroy(device *Device) {
	if p.Handle != nil {
		C.vkDestroyPipeline(device.Device, p.Handle, nil)
	}
	if p.Layout != nil {
		C.vkDestroyPipelineLayout(device.Device, p.Layout, nil)
	}
	if p.ComputeShader != nil {
		C.vkDestroyShaderModule(device.Device, p.ComputeShader, nil)
	}
	if p.DescriptorSetLayout != nil {
		C.vkDestroyDescriptorSetLayout(device.Device, p.DescriptorSetLayout, nil)
	}
}
