// Package config reads the application configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

type SystemFont struct {
	Name        string `toml:"name"`
	Resource    string `toml:"resource"`
	DefaultSize uint16 `toml:"default_size"`
}

type BitmapFont struct {
	Name     string `toml:"name"`
	Resource string `toml:"resource"`
	Size     uint16 `toml:"size"`
}

type Fonts struct {
	System []SystemFont `toml:"system"`
	Bitmap []BitmapFont `toml:"bitmap"`
}

type ApplicationConfig struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// Window starting position.
	StartPosX int `toml:"start_pos_x"`
	StartPosY int `toml:"start_pos_y"`
	// Window starting size.
	StartWidth  int  `toml:"start_width"`
	StartHeight int  `toml:"start_height"`
	Resizable   bool `toml:"resizable"`
	VSync       bool `toml:"vsync"`
	// Request a debug OpenGL context and route its messages to the log.
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`
	// Directory indexed by the asset manager. Empty disables assets.
	AssetsDir   string `toml:"assets_dir"`
	WatchAssets bool   `toml:"watch_assets"`
	// Background colour as 0xRRGGBBAA.
	ClearColor uint32 `toml:"clear_color"`
	Fonts      Fonts  `toml:"fonts"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:        "anima2d",
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Resizable:   true,
		VSync:       true,
		LogLevel:    "info",
		AssetsDir:   "assets",
		ClearColor:  0x1E1E2EFF,
	}
}

// LoadApplicationConfig reads path on top of the defaults. Keys missing from
// the file keep their default value; unknown keys are an error.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseApplicationConfig(raw)
}

func ParseApplicationConfig(raw []byte) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("application config: %s", sme.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("application config line %d column %d: %w", row, col, err)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth <= 0 || c.StartHeight <= 0 {
		return fmt.Errorf("application config: window size %dx%d must be positive", c.StartWidth, c.StartHeight)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("application config: %w", err)
	}
	for _, f := range c.Fonts.System {
		if f.Name == "" || f.Resource == "" {
			return fmt.Errorf("application config: system font needs a name and a resource")
		}
	}
	for _, f := range c.Fonts.Bitmap {
		if f.Name == "" || f.Resource == "" {
			return fmt.Errorf("application config: bitmap font needs a name and a resource")
		}
	}
	return nil
}

func (c *ApplicationConfig) Background() metadata.Color {
	return metadata.NewColor(c.ClearColor)
}

// FontSystemConfig converts the font tables for the font system.
func (c *ApplicationConfig) FontSystemConfig() *metadata.FontSystemConfig {
	out := &metadata.FontSystemConfig{}
	for _, f := range c.Fonts.System {
		out.SystemFontConfigs = append(out.SystemFontConfigs, &metadata.SystemFontConfig{
			Name:         f.Name,
			DefaultSize:  f.DefaultSize,
			ResourceName: f.Resource,
		})
	}
	for _, f := range c.Fonts.Bitmap {
		out.BitmapFontConfigs = append(out.BitmapFontConfigs, &metadata.BitmapFontConfig{
			Name:         f.Name,
			Size:         f.Size,
			ResourceName: f.Resource,
		})
	}
	return out
}
