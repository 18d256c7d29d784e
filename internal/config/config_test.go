// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, defaults, env var expansion, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/registry"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
source:
  name: "cam0"
  klass: ["Source", "Video"]
  min_rank: 128
  filter_caps: "video/x-raw-yuv"
  rank_overrides: "/etc/autodetect/ranks.toml"

providers:
  v4l2:
    devices:
      - "/dev/video0"
      - "/dev/video2"
  testpattern:
    rank: 64

logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "cam0", cfg.Source.Name)
	assert.Equal(t, []string{"Source", "Video"}, cfg.Source.Klass)
	assert.Equal(t, registry.RankSecondary, cfg.Source.MinRank)
	assert.Equal(t, "/etc/autodetect/ranks.toml", cfg.Source.RankOverrides)
	assert.Equal(t, []string{"/dev/video0", "/dev/video2"}, cfg.Providers.V4L2.Devices)
	assert.Equal(t, 64, cfg.Providers.TestPattern.Rank)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	filter, err := cfg.Filter()
	require.NoError(t, err)
	assert.True(t, filter.Equal(caps.MustParse("video/x-raw-yuv")))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestParse_KeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: warn\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Source, cfg.Source)
	assert.Equal(t, def.Providers, cfg.Providers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParse_EmptyFilterDisablesFiltering(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  filter_caps: \"\"\n"))
	require.NoError(t, err)

	filter, err := cfg.Filter()
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestDefault_FilterMatchesRawVideo(t *testing.T) {
	filter, err := Default().Filter()
	require.NoError(t, err)
	assert.True(t, filter.CanIntersect(caps.MustParse("video/x-raw-rgb")))
	assert.False(t, filter.CanIntersect(caps.MustParse("image/jpeg")))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("AUTODETECT_TEST_DEVICE", "/dev/video7")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single var", "dev: ${AUTODETECT_TEST_DEVICE}", "dev: /dev/video7"},
		{"unset var", "dev: ${AUTODETECT_TEST_UNSET}", "dev: "},
		{"no vars", "plain text", "plain text"},
		{"repeated", "${AUTODETECT_TEST_DEVICE},${AUTODETECT_TEST_DEVICE}", "/dev/video7,/dev/video7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.input))
		})
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("AUTODETECT_TEST_DEVICE", "/dev/video3")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "providers:\n  v4l2:\n    devices: [\"${AUTODETECT_TEST_DEVICE}\"]\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"/dev/video3"}, cfg.Providers.V4L2.Devices)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty klass", func(c *Config) { c.Source.Klass = nil }, "source.klass"},
		{"blank klass tag", func(c *Config) { c.Source.Klass = []string{"Source", ""} }, "empty tags"},
		{"negative min rank", func(c *Config) { c.Source.MinRank = -1 }, "source.min_rank"},
		{"bad filter", func(c *Config) { c.Source.FilterCaps = "video/x-raw, width" }, "source.filter_caps"},
		{"negative test pattern rank", func(c *Config) { c.Providers.TestPattern.Rank = -5 }, "providers.testpattern.rank"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("source: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestProviderOptions(t *testing.T) {
	cfg := Default()
	cfg.Providers.V4L2.Devices = []string{"/dev/video1"}
	cfg.Providers.TestPattern.Rank = registry.RankMarginal

	opts := cfg.ProviderOptions()
	assert.Equal(t, []string{"/dev/video1"}, opts.V4L2Devices)
	assert.Equal(t, registry.RankMarginal, opts.TestPatternRank)

	opts.V4L2Devices[0] = "changed"
	assert.Equal(t, "/dev/video1", cfg.Providers.V4L2.Devices[0])
}
