package systems

import (
	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type SystemManagerConfig struct {
	JobWorkers      int
	MaxTextureCount uint32
	MaxShaderCount  uint16
	Fonts           *metadata.FontSystemConfig
}

func DefaultSystemManagerConfig() *SystemManagerConfig {
	return &SystemManagerConfig{
		JobWorkers:      2,
		MaxTextureCount: 1000,
		MaxShaderCount:  64,
		Fonts:           &metadata.FontSystemConfig{},
	}
}

type SystemManager struct {
	JobSystem     *JobSystem
	TextureSystem *TextureSystem
	ShaderSystem  *ShaderSystem
	FontSystem    *FontSystem
}

// NewSystemManager creates and initializes every system. am may be nil, in
// which case only built-in shaders and the default font are available.
func NewSystemManager(config *SystemManagerConfig, backend metadata.RendererBackend, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(config.JobWorkers, 64)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: config.MaxTextureCount,
	}, backend, am, js)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: config.MaxShaderCount,
	}, backend, am)
	if err != nil {
		return nil, err
	}
	fs, err := NewFontSystem(config.Fonts, am)
	if err != nil {
		return nil, err
	}

	sm := &SystemManager{
		JobSystem:     js,
		TextureSystem: ts,
		ShaderSystem:  ss,
		FontSystem:    fs,
	}
	if err := ts.Initialize(); err != nil {
		sm.Shutdown()
		return nil, err
	}
	if err := ss.Initialize(); err != nil {
		sm.Shutdown()
		return nil, err
	}
	if err := fs.Initialize(); err != nil {
		sm.Shutdown()
		return nil, err
	}
	return sm, nil
}

// Update dispatches finished background jobs. Call once per frame on the
// render thread.
func (sm *SystemManager) Update() {
	sm.JobSystem.Update()
}

// HandleAssetChange reloads whatever was built from the changed asset.
// It returns true when something was reloaded.
func (sm *SystemManager) HandleAssetChange(event core.AssetEvent) bool {
	if event.Removed {
		return false
	}
	if name, ok := sm.ShaderSystem.ShaderFor(event.Path); ok {
		if err := sm.ShaderSystem.Reload(name); err != nil {
			core.LogError("shader reload failed, keeping the previous program: %s", err)
			return false
		}
		return true
	}
	if _, ok := sm.TextureSystem.Get(event.Path); ok {
		if err := sm.TextureSystem.Reload(event.Path); err != nil {
			core.LogError("texture reload failed: %s", err)
			return false
		}
		return true
	}
	return false
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.FontSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
