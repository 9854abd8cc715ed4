//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds the demo binary into bin/.
func (Build) Demo() error {
	if err := modDownload(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima2d", "."), withStream()); err != nil {
		return err
	}
	return nil
}
