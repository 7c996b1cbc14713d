package render

import (
	"fmt"
	"log"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
	"github.com/vkngwrapper/vkdraw/internal/config"
	"github.com/vkngwrapper/vkdraw/internal/swapchain"
)

var deviceExtensions = []string{khr_swapchain.ExtensionName}

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i *QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

func (ctx *Context) createInstance() error {
	var err error
	ctx.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    ctx.cfg.Title,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := ctx.globalDriver.AvailableExtensions()
	if err != nil {
		return err
	}
	printNames(fmt.Sprintf("Vulkan: %d extension/s supported", len(extensions)), mapKeys(extensions))

	sdlExtensions := ctx.window.VulkanInstanceExtensions()
	for _, ext := range sdlExtensions {
		_, hasExt := extensions[ext]
		if !hasExt {
			return errors.Newf("missing required instance extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if ctx.cfg.Validation {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}
	printNames(fmt.Sprintf("Vulkan: %d extension/s required", len(instanceOptions.EnabledExtensionNames)), instanceOptions.EnabledExtensionNames)

	if ctx.cfg.Validation {
		layers, _, err := ctx.globalDriver.AvailableLayers()
		if err != nil {
			return err
		}

		for _, layer := range config.ValidationLayers {
			_, hasValidation := layers[layer]
			if !hasValidation {
				return errors.Newf("validation layer %s not available- install LunarG Vulkan SDK or set VKDRAW_VALIDATION=false", layer)
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		instanceOptions.Next = ctx.debugMessengerOptions()
	}

	ctx.instanceDriver, _, err = ctx.globalDriver.CreateInstance(nil, instanceOptions)
	return err
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printNames(heading string, names []string) {
	fmt.Printf("%s {\n", heading)
	for _, name := range names {
		fmt.Printf("\t%s\n", name)
	}
	fmt.Println("}")
}

func (ctx *Context) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    logDebug,
	}
}

func (ctx *Context) setupDebugMessenger() error {
	if !ctx.cfg.Validation {
		return nil
	}

	var err error
	ctx.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(ctx.instanceDriver)
	ctx.debugMessenger, _, err = ctx.debugDriver.CreateDebugUtilsMessenger(nil, ctx.debugMessengerOptions())
	return err
}

func logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	log.Printf("[%s %s] - %s", severity, msgType, data.Message)
	return false
}

func (ctx *Context) createSurface() error {
	ctx.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(ctx.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(ctx.instanceDriver.Instance(), ctx.surfaceExtension, ctx.window.SDL())
	if err != nil {
		return err
	}

	ctx.surface = surface
	return nil
}

func (ctx *Context) pickPhysicalDevice() error {
	physicalDevices, _, err := ctx.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	fmt.Printf("Vulkan: %d device/s found {\n", len(physicalDevices))
	for _, device := range physicalDevices {
		properties, err := ctx.instanceDriver.GetPhysicalDeviceProperties(device)
		if err != nil {
			return err
		}
		fmt.Printf("\t%s\n", properties.DeviceName)

		if !ctx.physicalDevice.Initialized() && ctx.isDeviceSuitable(device) {
			ctx.physicalDevice = device
		}
	}
	fmt.Println("}")

	if !ctx.physicalDevice.Initialized() {
		return errors.New("failed to find a suitable GPU")
	}

	ctx.queueFamilies, err = ctx.findQueueFamilies(ctx.physicalDevice)
	return err
}

func (ctx *Context) createLogicalDevice() error {
	indices := ctx.queueFamilies

	uniqueQueueFamilies := []int{*indices.GraphicsFamily}
	if uniqueQueueFamilies[0] != *indices.PresentFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.PresentFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, deviceExtensions...)

	// Required for vulkan portability implementations such as MoltenVK
	extensions, _, err := ctx.instanceDriver.EnumerateDeviceExtensionProperties(ctx.physicalDevice)
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	ctx.deviceDriver, _, err = ctx.instanceDriver.CreateDevice(ctx.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueFamilyOptions,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			SamplerAnisotropy: true,
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	ctx.graphicsQueue = ctx.deviceDriver.GetQueue(*indices.GraphicsFamily, 0)
	ctx.presentQueue = ctx.deviceDriver.GetQueue(*indices.PresentFamily, 0)
	return nil
}

func (ctx *Context) querySwapChainSupport(device core1_0.PhysicalDevice) (swapchain.Support, error) {
	var details swapchain.Support
	var err error

	details.Capabilities, _, err = ctx.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(ctx.surface, device)
	if err != nil {
		return details, err
	}

	details.Formats, _, err = ctx.surfaceExtension.GetPhysicalDeviceSurfaceFormats(ctx.surface, device)
	if err != nil {
		return details, err
	}

	details.PresentModes, _, err = ctx.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(ctx.surface, device)
	return details, err
}

func (ctx *Context) isDeviceSuitable(device core1_0.PhysicalDevice) bool {
	indices, err := ctx.findQueueFamilies(device)
	if err != nil {
		return false
	}

	extensionsSupported := ctx.checkDeviceExtensionSupport(device)

	var swapChainAdequate bool
	if extensionsSupported {
		swapChainSupport, err := ctx.querySwapChainSupport(device)
		if err != nil {
			return false
		}

		swapChainAdequate = swapChainSupport.Adequate()
	}

	features := ctx.instanceDriver.GetPhysicalDeviceFeatures(device)
	return indices.IsComplete() && extensionsSupported && swapChainAdequate && features.SamplerAnisotropy
}

func (ctx *Context) checkDeviceExtensionSupport(device core1_0.PhysicalDevice) bool {
	extensions, _, err := ctx.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return false
	}

	for _, extension := range deviceExtensions {
		_, hasExtension := extensions[extension]
		if !hasExtension {
			return false
		}
	}

	return true
}

func (ctx *Context) findQueueFamilies(device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}
	queueFamilies := ctx.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		supported, _, err := ctx.surfaceExtension.GetPhysicalDeviceSurfaceSupport(ctx.surface, device, queueFamilyIdx)
		if err != nil {
			return indices, err
		}

		if supported {
			indices.PresentFamily = new(int)
			*indices.PresentFamily = queueFamilyIdx
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
