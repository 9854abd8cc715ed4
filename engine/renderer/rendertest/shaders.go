package rendertest

import (
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// Shaders is a ShaderSource handing out programs compiled on a backend.
type Shaders struct {
	backend metadata.RendererBackend
	shaders map[string]*metadata.Shader
}

func NewShaders(backend metadata.RendererBackend) *Shaders {
	return &Shaders{backend: backend, shaders: make(map[string]*metadata.Shader)}
}

func (s *Shaders) Acquire(name string) (*metadata.Shader, error) {
	if shader, ok := s.shaders[name]; ok {
		return shader, nil
	}
	shader := &metadata.Shader{ID: uint32(len(s.shaders) + 1), Name: name}
	if err := s.backend.ShaderCreate(shader); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, core.ErrShaderLink, err)
	}
	s.shaders[name] = shader
	return shader, nil
}
