package core

import (
	"errors"
)

var (
	ErrUnknownKeyState     = errors.New("unknown key state")
	ErrUnknownKey          = errors.New("unknown key")
	ErrInvalidChannelCount = errors.New("invalid channel count")
	ErrShaderCompile       = errors.New("failed to compile shader")
	ErrShaderLink          = errors.New("failed to link shader program")
	ErrShaderNotFound      = errors.New("shader not found")
	ErrFontLoad            = errors.New("failed to load font")
	ErrGlyphNotFound       = errors.New("glyph not found")
	ErrTextureLoad         = errors.New("failed to load texture")
	ErrWindowCreate        = errors.New("failed to create window")
	ErrFrameInProgress     = errors.New("a frame is already in progress")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrUnknown             = errors.New("unknown")
)
