package vg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroFieldsOnly(t *testing.T) {
	cfg := ContextConfig{MaxFonts: 2}
	cfg.applyDefaults()
	def := DefaultContextConfig()

	require := assert.New(t)
	require.Equal(2, cfg.MaxFonts)
	require.Equal(def.MaxGradients, cfg.MaxGradients)
	require.Equal(def.MaxImagePatterns, cfg.MaxImagePatterns)
	require.Equal(def.MaxStateStackSize, cfg.MaxStateStackSize)
	require.Equal(def.MaxImages, cfg.MaxImages)
	require.Equal(def.MaxVBVertices, cfg.MaxVBVertices)
	require.Equal(def.MaxCommandListDepth, cfg.MaxCommandListDepth)
}

func TestApplyDefaultsClampsMaxVBVerticesTo16Bit(t *testing.T) {
	cfg := ContextConfig{MaxVBVertices: 200000}
	cfg.applyDefaults()
	assert.Equal(t, 65536, cfg.MaxVBVertices)
}

func TestLoadContextConfigParsesTOMLAndFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vg.toml")
	content := "max_fonts = 3\nmax_images = 5\n"
	require := assert.New(t)
	require.NoError(os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadContextConfig(path)
	require.NoError(err)
	require.Equal(3, cfg.MaxFonts)
	require.Equal(5, cfg.MaxImages)
	require.Equal(DefaultContextConfig().MaxGradients, cfg.MaxGradients)
}

func TestLoadContextConfigMissingFileErrors(t *testing.T) {
	_, err := LoadContextConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
