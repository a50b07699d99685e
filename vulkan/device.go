package vulkan

/*
#include <vulkan/vulkan.h>
#include <stdbool.h>
#include <string.h>

typedef struct {
    VkPhysicalDevice device;
    VkPhysicalDeviceProperties properties;
    VkPhysicalDeviceFeatures features;
    uint32_t computeFamily;
    bool hasComputeFamily;
    uint32_t score;
} DeviceInfo;

void findQueueFamilies(VkPhysicalDevice device, DeviceInfo* info) {
    uint32_t queueFamilyCount = 0;
    vkGetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, NULL);

    VkQueueFamilyProperties* queueFamilies = (VkQueueFamilyProperties*)malloc(queueFamilyCount * sizeof(VkQueueFamilyProperties));
    vkGetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies);

    for (uint32_t i = 0; i < queueFamilyCount; i++) {
        if (queueFamilies[i].queueFlags & VK_QUEUE_COMPUTE_BIT) {
            info->computeFamily = i;
            info->hasComputeFamily = true;
            break;
        }
    }

    free(queueFamilies);
}

uint32_t rateDevice(VkPhysicalDevice device) {
    DeviceInfo info = {0};
    info.device = device;
    vkGetPhysicalDeviceProperties(device, &info.properties);
    vkGetPhysicalDeviceFeatures(device, &info.features);
    findQueueFamilies(device, &info);

    if (!info.hasComputeFamily) {
        return 0;
    }

    uint32_t score = 0;

    // Discrete GPUs have a significant advantage for compute throughput.
    if (info.properties.deviceType == VK_PHYSICAL_DEVICE_TYPE_DISCRETE_GPU) {
        score += 1000;
    }

    score += info.properties.limits.maxComputeWorkGroupInvocations;

    return score;
}
*/
import "C"
import (
	"fmt"
)

// Device wraps a single Vulkan physical/logical device pair selected for
// compute-only work: one queue family, no presentation, no swapchain
// extension. There is no present queue and no VK_KHR_swapchain or
// samplerAnisotropy requirement, since the GPU backend never draws to a
// surface.
type Device struct {
	PhysicalDevice C.VkPhysicalDevice
	Device         C.VkDevice
	ComputeQueue   C.VkQueue
	CommandPool    C.VkCommandPool

	ComputeFamily uint32
	Properties    C.VkPhysicalDeviceProperties
	Features      C.VkPhysicalDeviceFeatures
	Limits        C.VkPhysicalDeviceLimits
	MemoryProps   C.VkPhysicalDeviceMemoryProperties
}

// PickPhysicalDevice selects the highest-scoring compute-capable physical
// device visible to the instance.
func PickPhysicalDevice(instance *Instance) (*Device, error) {
	var deviceCount C.uint32_t
	result := C.vkEnumeratePhysicalDevices(instance.Handle, &deviceCount, nil)
	if result != C.VK_SUCCESS || deviceCount == 0 {
		return nil, fmt.Errorf("failed to find GPUs with Vulkan support")
	}

	devices := make([]C.VkPhysicalDevice, deviceCount)
	C.vkEnumeratePhysicalDevices(instance.Handle, &deviceCount, &devices[0])

	var bestDevice C.VkPhysicalDevice
	var bestScore C.uint32_t

	for _, device := range devices {
		score := C.rateDevice(device)
		if score > bestScore {
			bestScore = score
			bestDevice = device
		}
	}

	if bestDevice == nil {
		return nil, fmt.Errorf("failed to find a compute-capable GPU")
	}

	d := &Device{
		PhysicalDevice: bestDevice,
	}

	C.vkGetPhysicalDeviceProperties(bestDevice, &d.Properties)
	C.vkGetPhysicalDeviceFeatures(bestDevice, &d.Features)
	C.vkGetPhysicalDeviceMemoryProperties(bestDevice, &d.MemoryProps)
	d.Limits = d.Properties.limits

	return d, nil
}

func (d *Device) CreateLogicalDevice() error {
	var deviceInfo C.DeviceInfo
	C.findQueueFamilies(d.PhysicalDevice, &deviceInfo)
	if !deviceInfo.hasComputeFamily {
		return fmt.Errorf("selected device exposes no compute queue family")
	}
	d.ComputeFamily = uint32(deviceInfo.computeFamily)

	queuePriority := C.float(1.0)
	queueCreateInfo := C.VkDeviceQueueCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_DEVICE_QUEUE_CREATE_INFO,
		queueFamilyIndex: C.uint32_t(d.ComputeFamily),
		queueCount:       1,
		pQueuePriorities: &queuePriority,
	}

	var features C.VkPhysicalDeviceFeatures

	createInfo := C.VkDeviceCreateInfo{
		sType:                C.VK_STRUCTURE_TYPE_DEVICE_CREATE_INFO,
		queueCreateInfoCount: 1,
		pQueueCreateInfos:    &queueCreateInfo,
		pEnabledFeatures:     &features,
	}

	result := C.vkCreateDevice(d.PhysicalDevice, &createInfo, nil, &d.Device)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to create logical device: %d", result)
	}

	C.vkGetDeviceQueue(d.Device, C.uint32_t(d.ComputeFamily), 0, &d.ComputeQueue)

	poolInfo := C.VkCommandPoolCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_COMMAND_POOL_CREATE_INFO,
		queueFamilyIndex: C.uint32_t(d.ComputeFamily),
		flags:            C.VK_COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT,
	}

	result = C.vkCreateCommandPool(d.Device, &poolInfo, nil, &d.CommandPool)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to create command pool: %d", result)
	}

	return nil
}

func (d *Device) Destroy() {
	if d.CommandPool != nil {
		C.vkDestroyCommandPool(d.Device, d.CommandPool, nil)
	}
	if d.Device != nil {
		C.vkDestroyDevice(d.Device, nil)
	}
}

func (d *Device) WaitIdle() {
	C.vkDeviceWaitIdle(d.Device)
}

func (d *Device) GetGPUName() string {
	name := make([]byte, C.VK_MAX_PHYSICAL_DEVICE_NAME_SIZE)
	for i := 0; i < C.VK_MAX_PHYSICAL_DEVICE_NAME_SIZE; i++ {
		name[i] = byte(d.Properties.deviceName[i])
	}

	for i, b := range name {
		if b == 0 {
			return string(name[:i])
		}
	}
	return string(name)
}

func (d *Device) GetDeviceType() string {
	switch d.Properties.deviceType {
	case C.VK_PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU:
		return "Integrated GPU"
	case C.VK_PHYSICAL_DEVICE_TYPE_DISCRETE_GPU:
		return "Discrete GPU"
	case C.VK_PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU:
		return "Virtual GPU"
	case C.VK_PHYSICAL_DEVICE_TYPE_CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

func (d *Device) FindMemoryType(typeFilter uint32, properties C.VkMemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < uint32(d.MemoryProps.memoryTypeCount); i++ {
		if (typeFilter&(1<<i)) != 0 && (d.MemoryProps.memoryTypes[i].propertyFlags&properties) == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("failed to find suitable memory type")
}
