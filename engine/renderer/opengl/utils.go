package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// GLSafeString makes sure s is NUL terminated before it crosses into C.
func GLSafeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func glDrawMode(mode metadata.DrawMode) uint32 {
	if mode == metadata.DrawModeLines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func glUsage(usage metadata.BufferUsage) uint32 {
	if usage == metadata.BufferUsageStatic {
		return gl.STATIC_DRAW
	}
	return gl.DYNAMIC_DRAW
}

// glPixelFormat returns the internal format and the pixel layout of format.
func glPixelFormat(format metadata.PixelFormat) (int32, uint32, error) {
	switch format {
	case metadata.PixelFormatRed:
		return gl.RED, gl.RED, nil
	case metadata.PixelFormatRGB:
		return gl.RGB, gl.RGB, nil
	case metadata.PixelFormatRGBA:
		return gl.RGBA, gl.RGBA, nil
	}
	return 0, 0, fmt.Errorf("pixel format %s: %w", format, core.ErrInvalidChannelCount)
}

func glFilter(filter metadata.TextureFilter, mipmaps bool) (min int32, mag int32) {
	if filter == metadata.TextureFilterModeNearest {
		if mipmaps {
			return gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
		}
		return gl.NEAREST, gl.NEAREST
	}
	if mipmaps {
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	return gl.LINEAR, gl.LINEAR
}

func debugSeverityString(severity uint32) string {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "notification"
	}
	return "unknown"
}

// debugMessage forwards driver messages to the engine logger.
func debugMessage(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		core.LogError("GL [%d] %s: %s", id, debugSeverityString(severity), message)
	case gl.DEBUG_SEVERITY_MEDIUM, gl.DEBUG_SEVERITY_LOW:
		core.LogWarn("GL [%d] %s: %s", id, debugSeverityString(severity), message)
	default:
		core.LogDebug("GL [%d] %s: %s", id, debugSeverityString(severity), message)
	}
}
