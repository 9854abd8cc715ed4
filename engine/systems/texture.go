package systems

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

// TextureSystem owns every texture uploaded to the backend. Textures loaded
// from the asset tree are cached by their asset path, so a path always maps
// to the same Texture and therefore the same ID. Reloading re-uploads the
// pixels in place.
type TextureSystem struct {
	Config         *TextureSystemConfig
	DefaultTexture *metadata.Texture
	// Registered textures by name.
	registered map[string]*metadata.Texture

	ids          *core.Identifiers
	backend      metadata.RendererBackend
	assetManager *assets.AssetManager
	jobSystem    *JobSystem
}

func NewTextureSystem(config *TextureSystemConfig, backend metadata.RendererBackend, am *assets.AssetManager, js *JobSystem) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		return nil, fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
	}

	return &TextureSystem{
		Config:       config,
		registered:   make(map[string]*metadata.Texture),
		ids:          core.NewIdentifiers(),
		backend:      backend,
		assetManager: am,
		jobSystem:    js,
	}, nil
}

// Initialize uploads the default checkerboard texture.
func (ts *TextureSystem) Initialize() error {
	dim := uint32(metadata.DEFAULT_TEXTURE_DIMENSION)
	t, err := metadata.NewTexture(metadata.DEFAULT_TEXTURE_NAME, dim, dim, 4, metadata.NewCheckerboardPixels(dim))
	if err != nil {
		return err
	}
	t.Mipmaps = false
	t.Filter = metadata.TextureFilterModeNearest
	if err := ts.upload(t); err != nil {
		return err
	}
	ts.DefaultTexture = t
	return nil
}

func (ts *TextureSystem) Shutdown() error {
	for name, t := range ts.registered {
		ts.destroy(t)
		delete(ts.registered, name)
	}
	if ts.DefaultTexture != nil {
		ts.destroy(ts.DefaultTexture)
		ts.DefaultTexture = nil
	}
	return nil
}

func (ts *TextureSystem) GetDefaultTexture() *metadata.Texture {
	return ts.DefaultTexture
}

// Get returns a registered texture without loading anything.
func (ts *TextureSystem) Get(name string) (*metadata.Texture, bool) {
	t, ok := ts.registered[name]
	return t, ok
}

// Count reports the number of registered textures, the default one excluded.
func (ts *TextureSystem) Count() int {
	return len(ts.registered)
}

// Acquire returns the texture for an image asset, loading and uploading it
// the first time the path is seen.
func (ts *TextureSystem) Acquire(path string) (*metadata.Texture, error) {
	if path == metadata.DEFAULT_TEXTURE_NAME {
		core.LogWarn("texture system Acquire called for the default texture. Use GetDefaultTexture instead")
		return ts.DefaultTexture, nil
	}
	if t, ok := ts.registered[path]; ok {
		return t, nil
	}
	if err := ts.checkCapacity(); err != nil {
		return nil, err
	}

	data, err := ts.loadImage(path)
	if err != nil {
		return nil, err
	}
	t, err := metadata.NewTexture(path, data.Width, data.Height, data.ChannelCount, data.Pixels)
	if err != nil {
		return nil, err
	}
	if err := ts.upload(t); err != nil {
		return nil, err
	}
	ts.registered[path] = t
	core.LogDebug("texture '%s' loaded (%dx%d, %s) as id %d", path, t.Width, t.Height, t.Format, t.ID)
	return t, nil
}

// AcquireAsync registers the texture for path straight away, showing the
// default checkerboard until the image has been decoded on the job system.
// The real pixels replace the placeholder in place during JobSystem.Update,
// so the returned texture keeps its ID. onReady is optional.
func (ts *TextureSystem) AcquireAsync(path string, onReady func(*metadata.Texture, error)) (*metadata.Texture, error) {
	if t, ok := ts.registered[path]; ok {
		if onReady != nil {
			onReady(t, nil)
		}
		return t, nil
	}
	if ts.jobSystem == nil {
		t, err := ts.Acquire(path)
		if onReady != nil {
			onReady(t, err)
		}
		return t, err
	}
	if err := ts.checkCapacity(); err != nil {
		return nil, err
	}

	dim := uint32(metadata.DEFAULT_TEXTURE_DIMENSION)
	t, err := metadata.NewTexture(path, dim, dim, 4, metadata.NewCheckerboardPixels(dim))
	if err != nil {
		return nil, err
	}
	if err := ts.upload(t); err != nil {
		return nil, err
	}
	ts.registered[path] = t

	err = ts.jobSystem.Submit(JobTask{
		Name: "texture load " + path,
		Run: func() (interface{}, error) {
			return ts.loadImage(path)
		},
		OnSuccess: func(result interface{}) {
			err := ts.replacePixels(t, result.(*metadata.ImageResourceData))
			if onReady != nil {
				onReady(t, err)
			}
		},
		OnFailure: func(err error) {
			core.LogError("texture '%s' kept the default pixels: %s", path, err)
			if onReady != nil {
				onReady(t, err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateFromPixels uploads an in-memory image under a generated name.
func (ts *TextureSystem) CreateFromPixels(width, height uint32, channels uint8, pixels []uint8) (*metadata.Texture, error) {
	if err := ts.checkCapacity(); err != nil {
		return nil, err
	}
	name := uuid.NewString()
	t, err := metadata.NewTexture(name, width, height, channels, pixels)
	if err != nil {
		return nil, err
	}
	if err := ts.upload(t); err != nil {
		return nil, err
	}
	ts.registered[name] = t
	return t, nil
}

// Reload decodes the asset of a registered texture again and re-uploads it.
// The texture keeps its ID; its Generation moves forward.
func (ts *TextureSystem) Reload(path string) error {
	t, ok := ts.registered[path]
	if !ok {
		return fmt.Errorf("texture '%s' is not registered", path)
	}
	data, err := ts.loadImage(path)
	if err != nil {
		return err
	}
	return ts.replacePixels(t, data)
}

// Release destroys a registered texture. Its ID is not handed out again.
func (ts *TextureSystem) Release(name string) error {
	if name == metadata.DEFAULT_TEXTURE_NAME {
		return nil
	}
	t, ok := ts.registered[name]
	if !ok {
		return fmt.Errorf("texture '%s' is not registered", name)
	}
	ts.destroy(t)
	delete(ts.registered, name)
	return nil
}

func (ts *TextureSystem) checkCapacity() error {
	if uint32(len(ts.registered)) >= ts.Config.MaxTextureCount {
		return fmt.Errorf("texture system cannot hold more than %d textures. Adjust configuration to allow more", ts.Config.MaxTextureCount)
	}
	return nil
}

func (ts *TextureSystem) loadImage(path string) (*metadata.ImageResourceData, error) {
	if ts.assetManager == nil {
		return nil, fmt.Errorf("%w: no asset manager to load '%s'", core.ErrAssetNotFound, path)
	}
	res, err := ts.assetManager.LoadAsset(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' is not an image", core.ErrTextureLoad, path)
	}
	return data, nil
}

func (ts *TextureSystem) replacePixels(t *metadata.Texture, data *metadata.ImageResourceData) error {
	format, err := metadata.PixelFormatForChannels(data.ChannelCount)
	if err != nil {
		return fmt.Errorf("texture '%s': %w", t.Name, err)
	}
	t.Width = data.Width
	t.Height = data.Height
	t.ChannelCount = data.ChannelCount
	t.Format = format
	t.Pixels = data.Pixels
	t.Mipmaps = true
	t.Filter = metadata.TextureFilterModeLinear
	if err := ts.backend.TextureCreate(t); err != nil {
		return fmt.Errorf("%w: %w", core.ErrTextureLoad, err)
	}
	core.LogDebug("texture '%s' reloaded, generation %d", t.Name, t.Generation)
	return nil
}

func (ts *TextureSystem) upload(t *metadata.Texture) error {
	t.ID = ts.ids.AcquireNewID(t)
	if err := ts.backend.TextureCreate(t); err != nil {
		_ = ts.ids.ReleaseID(t.ID)
		return fmt.Errorf("%w: %w", core.ErrTextureLoad, err)
	}
	return nil
}

func (ts *TextureSystem) destroy(t *metadata.Texture) {
	ts.backend.TextureDestroy(t)
	if err := ts.ids.ReleaseID(t.ID); err != nil {
		core.LogWarn("%s", err)
	}
}
