package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// reportLevel maps debug report flags onto a log level. The most severe flag
// wins.
func reportLevel(flags vk.DebugReportFlags) slog.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return slog.LevelError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return slog.LevelWarn
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func debugReport(
	flags vk.DebugReportFlags,
	objectType vk.DebugReportObjectType,
	object uint64,
	location uint,
	messageCode int32,
	pLayerPrefix string,
	pMessage string,
	pUserData unsafe.Pointer,
) vk.Bool32 {
	Logger().Log(context.Background(), reportLevel(flags), pMessage,
		"layer", pLayerPrefix,
		"code", messageCode,
		"object_type", int32(objectType),
	)
	return vk.False
}

func (c *Context) setupDebugCallback() error {
	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(
			vk.DebugReportErrorBit |
				vk.DebugReportWarningBit |
				vk.DebugReportPerformanceWarningBit |
				vk.DebugReportInformationBit,
		),
		PfnCallback: debugReport,
	}

	var dbg vk.DebugReportCallback
	res := vk.CreateDebugReportCallback(c.instance, &createInfo, nil, &dbg)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("create debug callback: %w", err)
	}
	c.debugCallback = dbg

	return nil
}
