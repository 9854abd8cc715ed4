package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// ShaderConfig is the on-disk description of a shader program. Stage paths
// are relative to the config file.
//
//	name = "Builtin.ShapeShader"
//	vertex = "shape.vert"
//	fragment = "shape.frag"
type ShaderConfig struct {
	Name     string `toml:"name"`
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseShaderConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	data := &metadata.ShaderResourceData{
		Name:         cfg.Name,
		VertexPath:   filepath.Join(dir, cfg.Vertex),
		FragmentPath: filepath.Join(dir, cfg.Fragment),
	}
	vs, err := os.ReadFile(data.VertexPath)
	if err != nil {
		return nil, err
	}
	fs, err := os.ReadFile(data.FragmentPath)
	if err != nil {
		return nil, err
	}
	data.VertexSource = string(vs)
	data.FragmentSource = string(fs)

	return &metadata.Resource{
		ResourceType: metadata.ResourceTypeShader,
		Name:         cfg.Name,
		FullPath:     path,
		DataSize:     uint64(len(vs) + len(fs)),
		Data:         data,
	}, nil
}

func (sl *ShaderLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// ParseShaderConfig decodes a shader config and checks that every field is set.
func ParseShaderConfig(raw []byte) (*ShaderConfig, error) {
	cfg := &ShaderConfig{}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("%w: %s", core.ErrShaderNotFound, sme.String())
		}
		return nil, err
	}
	if cfg.Name == "" || cfg.Vertex == "" || cfg.Fragment == "" {
		return nil, fmt.Errorf("%w: shader config needs name, vertex and fragment", core.ErrShaderNotFound)
	}
	return cfg, nil
}
