//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the packages that do not need a GL context or a window.
func (Test) Unit() error {
	pkgs := []string{
		"./engine/assets/...",
		"./engine/config/...",
		"./engine/containers/...",
		"./engine/core/...",
		"./engine/math/...",
		"./engine/renderer",
		"./engine/renderer/components/...",
		"./engine/renderer/metadata/...",
		"./engine/renderer/shaders/...",
		"./engine/renderer/shapes/...",
		"./engine/systems/...",
	}
	args := append([]string{"test", "-race", "-count=1"}, pkgs...)
	_, err := executeCmd("go", withArgs(args...), withStream())
	return err
}

// Runs every package, including the cgo GL and GLFW bindings.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "-count=1", "./..."), withStream())
	return err
}
