// Package shaders embeds the GLSL sources of the built-in programs.
package shaders

import (
	"embed"
	"fmt"

	"github.com/spaghettifunk/anima2d/engine/core"
	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

//go:embed *.vert *.frag
var sources embed.FS

type stages struct {
	vertex   string
	fragment string
}

var builtins = map[string]stages{
	metadata.BUILTIN_SHADER_NAME_SHAPE:   {vertex: "shape.vert", fragment: "shape.frag"},
	metadata.BUILTIN_SHADER_NAME_TEXTURE: {vertex: "texture.vert", fragment: "texture.frag"},
	metadata.BUILTIN_SHADER_NAME_CIRCLE:  {vertex: "quad.vert", fragment: "circle.frag"},
	metadata.BUILTIN_SHADER_NAME_TEXT:    {vertex: "quad.vert", fragment: "text.frag"},
}

// Names lists the built-in programs.
func Names() []string {
	return []string{
		metadata.BUILTIN_SHADER_NAME_SHAPE,
		metadata.BUILTIN_SHADER_NAME_TEXTURE,
		metadata.BUILTIN_SHADER_NAME_CIRCLE,
		metadata.BUILTIN_SHADER_NAME_TEXT,
	}
}

// Source returns the vertex and fragment source of a built-in program.
func Source(name string) (vertex, fragment string, err error) {
	s, ok := builtins[name]
	if !ok {
		return "", "", fmt.Errorf("shader '%s': %w", name, core.ErrShaderNotFound)
	}
	v, err := sources.ReadFile(s.vertex)
	if err != nil {
		return "", "", err
	}
	f, err := sources.ReadFile(s.fragment)
	if err != nil {
		return "", "", err
	}
	return string(v), string(f), nil
}

// StageFiles returns the file names a built-in program is made of, so an
// on-disk override directory can mirror them.
func StageFiles(name string) (vertex, fragment string, ok bool) {
	s, ok := builtins[name]
	return s.vertex, s.fragment, ok
}
