package vg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ContextConfig holds the tunable resource caps a Context is built with.
// Zero-value fields are filled in with DefaultContextConfig's values by
// NewContext, so callers only need to set the knobs they care about.
type ContextConfig struct {
	MaxGradients         int `toml:"max_gradients"`
	MaxImagePatterns     int `toml:"max_image_patterns"`
	MaxFonts             int `toml:"max_fonts"`
	MaxStateStackSize    int `toml:"max_state_stack_size"`
	MaxImages            int `toml:"max_images"`
	MaxCommandLists      int `toml:"max_command_lists"`
	MaxVBVertices        int `toml:"max_vb_vertices"`
	FontAtlasImageFlags  ImageFlags `toml:"-"`
	MaxCommandListDepth  int `toml:"max_command_list_depth"`
}

// DefaultContextConfig returns the documented default resource caps.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		MaxGradients:        64,
		MaxImagePatterns:    64,
		MaxFonts:            8,
		MaxStateStackSize:   32,
		MaxImages:           16,
		MaxCommandLists:     256,
		MaxVBVertices:       65536,
		FontAtlasImageFlags: ImageFilterBilinear,
		MaxCommandListDepth: 16,
	}
}

func (c *ContextConfig) applyDefaults() {
	d := DefaultContextConfig()
	if c.MaxGradients == 0 {
		c.MaxGradients = d.MaxGradients
	}
	if c.MaxImagePatterns == 0 {
		c.MaxImagePatterns = d.MaxImagePatterns
	}
	if c.MaxFonts == 0 {
		c.MaxFonts = d.MaxFonts
	}
	if c.MaxStateStackSize == 0 {
		c.MaxStateStackSize = d.MaxStateStackSize
	}
	if c.MaxImages == 0 {
		c.MaxImages = d.MaxImages
	}
	if c.MaxCommandLists == 0 {
		c.MaxCommandLists = d.MaxCommandLists
	}
	if c.MaxVBVertices == 0 {
		c.MaxVBVertices = d.MaxVBVertices
	}
	if c.MaxVBVertices > 65536 {
		// indices are 16-bit; a vertex buffer can never address more than
		// 65536 distinct vertices.
		c.MaxVBVertices = 65536
	}
	if c.MaxCommandListDepth == 0 {
		c.MaxCommandListDepth = d.MaxCommandListDepth
	}
	if c.FontAtlasImageFlags == 0 {
		c.FontAtlasImageFlags = d.FontAtlasImageFlags
	}
}

// LoadContextConfig reads a TOML file into a ContextConfig, applying
// documented defaults to any field the file leaves unset. This lets a host
// application externalize tuning knobs without a rebuild.
func LoadContextConfig(path string) (ContextConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ContextConfig{}, fmt.Errorf("vg: reading context config %q: %w", path, err)
	}
	var cfg ContextConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ContextConfig{}, fmt.Errorf("vg: parsing context config %q: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
