package systems

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/anima2d/engine/assets"
	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima2d/engine/renderer/shaders"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

/**
 * @brief Compiles and caches shader programs by name.
 *
 * Built-in programs come from the embedded sources. A `.shadercfg` in the
 * asset tree whose name matches a program overrides it; the files it points
 * to can be edited at runtime and picked up with Reload.
 */
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name->shader
	lookup map[string]*metadata.Shader
	// Asset path of each override config, by shader name.
	overrides map[string]string
	// Shader names by the asset paths they are built from.
	owners map[string]string

	ids          *core.Identifiers
	backend      metadata.RendererBackend
	assetManager *assets.AssetManager
}

func NewShaderSystem(config *ShaderSystemConfig, backend metadata.RendererBackend, am *assets.AssetManager) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		return nil, fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
	}
	return &ShaderSystem{
		Config:       config,
		lookup:       make(map[string]*metadata.Shader),
		overrides:    make(map[string]string),
		owners:       make(map[string]string),
		ids:          core.NewIdentifiers(),
		backend:      backend,
		assetManager: am,
	}, nil
}

/**
 * @brief Indexes the shader configs found in the asset tree.
 */
func (ss *ShaderSystem) Initialize() error {
	if ss.assetManager == nil {
		return nil
	}
	for _, path := range ss.assetManager.Assets(metadata.ResourceTypeShader) {
		data, err := ss.loadConfig(path)
		if err != nil {
			core.LogWarn("ignoring shader config '%s': %s", path, err)
			continue
		}
		ss.overrides[data.Name] = path
		core.LogInfo("shader '%s' overridden by %s", data.Name, path)
	}
	return nil
}

/**
 * @brief Shuts down the shader system, destroying every program.
 */
func (ss *ShaderSystem) Shutdown() error {
	for name, shader := range ss.lookup {
		ss.backend.ShaderDestroy(shader)
		if err := ss.ids.ReleaseID(shader.ID); err != nil {
			core.LogWarn("%s", err)
		}
		delete(ss.lookup, name)
	}
	return nil
}

/**
 * @brief Returns the program with the given name, compiling it on first use.
 */
func (ss *ShaderSystem) Acquire(name string) (*metadata.Shader, error) {
	if shader, ok := ss.lookup[name]; ok {
		return shader, nil
	}
	if len(ss.lookup) >= int(ss.Config.MaxShaderCount) {
		return nil, fmt.Errorf("unable to find free slot to create shader '%s'", name)
	}

	shader := &metadata.Shader{Name: name, State: metadata.SHADER_STATE_NOT_CREATED}
	if err := ss.readSources(shader); err != nil {
		return nil, err
	}
	if err := ss.backend.ShaderCreate(shader); err != nil {
		return nil, fmt.Errorf("shader '%s': %w", name, err)
	}
	shader.ID = ss.ids.AcquireNewID(shader)
	ss.lookup[name] = shader
	return shader, nil
}

/**
 * @brief Re-reads the sources of a created program and relinks it. When the
 * new sources fail to build, the previous program stays in use.
 */
func (ss *ShaderSystem) Reload(name string) error {
	shader, ok := ss.lookup[name]
	if !ok {
		return fmt.Errorf("shader '%s': %w", name, core.ErrShaderNotFound)
	}
	candidate := &metadata.Shader{Name: name}
	if err := ss.readSources(candidate); err != nil {
		return err
	}
	vertex, fragment := shader.VertexSource, shader.FragmentSource
	shader.VertexSource, shader.FragmentSource = candidate.VertexSource, candidate.FragmentSource
	if err := ss.backend.ShaderCreate(shader); err != nil {
		shader.VertexSource, shader.FragmentSource = vertex, fragment
		return fmt.Errorf("shader '%s': %w", name, err)
	}
	core.LogInfo("shader '%s' reloaded", name)
	return nil
}

// ShaderFor returns the name of the program built from the asset at path,
// either its config or one of its stage files.
func (ss *ShaderSystem) ShaderFor(path string) (string, bool) {
	name, ok := ss.owners[path]
	return name, ok
}

func (ss *ShaderSystem) readSources(shader *metadata.Shader) error {
	if path, ok := ss.overrides[shader.Name]; ok {
		data, err := ss.loadConfig(path)
		if err != nil {
			return fmt.Errorf("shader '%s': %w", shader.Name, err)
		}
		shader.VertexSource = data.VertexSource
		shader.FragmentSource = data.FragmentSource
		ss.owners[path] = shader.Name
		for _, stage := range []string{data.VertexPath, data.FragmentPath} {
			if rel, err := filepath.Rel(ss.assetManager.Root(), stage); err == nil {
				ss.owners[filepath.ToSlash(rel)] = shader.Name
			}
		}
		return nil
	}

	vertex, fragment, err := shaders.Source(shader.Name)
	if err != nil {
		return err
	}
	shader.VertexSource = vertex
	shader.FragmentSource = fragment
	return nil
}

func (ss *ShaderSystem) loadConfig(path string) (*metadata.ShaderResourceData, error) {
	res, err := ss.assetManager.LoadAsset(path, metadata.ResourceTypeShader, nil)
	if err != nil {
		return nil, err
	}
	data, ok := res.Data.(*metadata.ShaderResourceData)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' is not a shader config", core.ErrShaderNotFound, path)
	}
	return data, nil
}
