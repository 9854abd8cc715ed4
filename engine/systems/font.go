package systems

import (
	"fmt"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/assets/loaders"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// DEFAULT_FONT_NAME is the embedded Go Regular face, always available.
const DEFAULT_FONT_NAME = "default"

const defaultFontSize = 20

type Font struct {
	Name        string
	Type        metadata.FontType
	DefaultSize int
	Face        metadata.FontFace
}

type FontSystem struct {
	config *metadata.FontSystemConfig
	fonts  map[string]*Font

	resources    []*metadata.Resource
	assetManager *assets.AssetManager
}

func NewFontSystem(config *metadata.FontSystemConfig, am *assets.AssetManager) (*FontSystem, error) {
	if config == nil {
		config = &metadata.FontSystemConfig{}
	}
	return &FontSystem{
		config:       config,
		fonts:        make(map[string]*Font),
		assetManager: am,
	}, nil
}

// Initialize registers the embedded default face and loads every configured font.
func (fs *FontSystem) Initialize() error {
	face, err := loaders.NewSystemFont(DEFAULT_FONT_NAME, goregular.TTF)
	if err != nil {
		return err
	}
	fs.Register(DEFAULT_FONT_NAME, metadata.FONT_TYPE_SYSTEM, defaultFontSize, face)

	for _, cfg := range fs.config.SystemFontConfigs {
		if err := fs.LoadSystemFont(cfg); err != nil {
			return err
		}
	}
	for _, cfg := range fs.config.BitmapFontConfigs {
		if err := fs.LoadBitmapFont(cfg); err != nil {
			return err
		}
	}
	return nil
}

func (fs *FontSystem) Shutdown() error {
	for _, res := range fs.resources {
		if err := fs.assetManager.UnloadAsset(res); err != nil {
			core.LogWarn("font unload: %s", err)
		}
	}
	fs.resources = nil
	if def, ok := fs.fonts[DEFAULT_FONT_NAME]; ok {
		if sf, ok := def.Face.(*loaders.SystemFont); ok {
			_ = sf.Close()
		}
	}
	clear(fs.fonts)
	return nil
}

// Register makes face available under name, replacing any previous font.
func (fs *FontSystem) Register(name string, fontType metadata.FontType, defaultSize int, face metadata.FontFace) *Font {
	f := &Font{Name: name, Type: fontType, DefaultSize: defaultSize, Face: face}
	fs.fonts[name] = f
	return f
}

func (fs *FontSystem) LoadSystemFont(cfg *metadata.SystemFontConfig) error {
	face, err := fs.load(cfg.ResourceName, metadata.ResourceTypeSystemFont)
	if err != nil {
		return fmt.Errorf("system font '%s': %w", cfg.Name, err)
	}
	size := int(cfg.DefaultSize)
	if size == 0 {
		size = defaultFontSize
	}
	fs.Register(cfg.Name, metadata.FONT_TYPE_SYSTEM, size, face)
	core.LogDebug("system font '%s' loaded from %s", cfg.Name, cfg.ResourceName)
	return nil
}

func (fs *FontSystem) LoadBitmapFont(cfg *metadata.BitmapFontConfig) error {
	face, err := fs.load(cfg.ResourceName, metadata.ResourceTypeBitmapFont)
	if err != nil {
		return fmt.Errorf("bitmap font '%s': %w", cfg.Name, err)
	}
	size := int(cfg.Size)
	if size == 0 {
		size = face.(*loaders.BitmapFont).Size
	}
	fs.Register(cfg.Name, metadata.FONT_TYPE_BITMAP, size, face)
	core.LogDebug("bitmap font '%s' loaded from %s", cfg.Name, cfg.ResourceName)
	return nil
}

func (fs *FontSystem) load(path string, resourceType metadata.ResourceType) (metadata.FontFace, error) {
	if fs.assetManager == nil {
		return nil, fmt.Errorf("%w: no asset manager to load '%s'", core.ErrFontLoad, path)
	}
	res, err := fs.assetManager.LoadAsset(path, resourceType, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFontLoad, err)
	}
	face, ok := res.Data.(metadata.FontFace)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' holds no font face", core.ErrFontLoad, path)
	}
	fs.resources = append(fs.resources, res)
	return face, nil
}

// Acquire returns a registered font by name.
func (fs *FontSystem) Acquire(name string) (*Font, error) {
	f, ok := fs.fonts[name]
	if !ok {
		return nil, fmt.Errorf("%w: font '%s' is not registered", core.ErrFontLoad, name)
	}
	return f, nil
}

func (fs *FontSystem) Default() *Font {
	return fs.fonts[DEFAULT_FONT_NAME]
}
