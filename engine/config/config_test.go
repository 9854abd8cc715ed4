package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

func TestParseApplicationConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
		check   func(t *testing.T, c *ApplicationConfig)
	}{
		{
			name: "empty keeps defaults",
			raw:  "",
			check: func(t *testing.T, c *ApplicationConfig) {
				if !reflect.DeepEqual(c, DefaultApplicationConfig()) {
					t.Errorf("config = %+v", c)
				}
			},
		},
		{
			name: "overrides",
			raw: `name = "demo"
start_width = 800
start_height = 600
vsync = false
log_level = "debug"
clear_color = 0xFF0000FF

[[fonts.system]]
name = "mono"
resource = "fonts/mono.ttf"
default_size = 18

[[fonts.bitmap]]
name = "pixel"
resource = "fonts/pixel.fnt"
`,
			check: func(t *testing.T, c *ApplicationConfig) {
				if c.Name != "demo" || c.StartWidth != 800 || c.StartHeight != 600 || c.VSync {
					t.Errorf("config = %+v", c)
				}
				if c.StartPosX != 100 || c.AssetsDir != "assets" {
					t.Error("missing keys should keep their defaults")
				}
				if c.Background() != metadata.Red {
					t.Errorf("Background = %v, want red", c.Background())
				}
				fonts := c.FontSystemConfig()
				if len(fonts.SystemFontConfigs) != 1 || fonts.SystemFontConfigs[0].DefaultSize != 18 {
					t.Errorf("system fonts = %+v", fonts.SystemFontConfigs)
				}
				if len(fonts.BitmapFontConfigs) != 1 || fonts.BitmapFontConfigs[0].ResourceName != "fonts/pixel.fnt" {
					t.Errorf("bitmap fonts = %+v", fonts.BitmapFontConfigs)
				}
			},
		},
		{name: "unknown key", raw: "fullscreen = true\n", wantErr: "fullscreen"},
		{name: "bad size", raw: "start_width = 0\n", wantErr: "must be positive"},
		{name: "bad level", raw: "log_level = \"loud\"\n", wantErr: "loud"},
		{name: "font without resource", raw: "[[fonts.system]]\nname = \"x\"\n", wantErr: "system font"},
		{name: "syntax", raw: "name = \n", wantErr: "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseApplicationConfig([]byte(tt.raw))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseApplicationConfig: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadApplicationConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima2d.toml")
	if err := os.WriteFile(path, []byte("name = \"file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadApplicationConfig(path)
	if err != nil {
		t.Fatalf("LoadApplicationConfig: %v", err)
	}
	if c.Name != "file" {
		t.Errorf("Name = %q", c.Name)
	}
	if _, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
