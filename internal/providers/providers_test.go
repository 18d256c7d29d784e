// ABOUTME: Tests for built-in provider registration and the test pattern source.
// ABOUTME: Runs a full detection pass over the real providers.

package providers

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/autodetect/internal/autodetect"
	"github.com/2389/autodetect/internal/element"
	"github.com/2389/autodetect/internal/registry"
)

func TestRegister(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	err := Register(reg, Options{
		V4L2Devices:     []string{"/dev/video0", "/dev/video2"},
		TestPatternRank: registry.RankMarginal,
	})
	require.NoError(t, err)

	for _, name := range []string{"v4l2src", "v4l2-video2src", TestPatternName} {
		d, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, d.HasKlass("Source", "Video"))
	}

	d, _ := reg.Lookup("v4l2-video2src")
	c, err := d.Factory("probe")
	require.NoError(t, err)
	assert.Equal(t, "/dev/video2", c.(*V4L2Source).Device())

	assert.Error(t, Register(reg, Options{}), "second registration must collide")
}

func TestRegister_DefaultDevice(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, Register(reg, Options{}))

	d, ok := reg.Lookup("v4l2src")
	require.True(t, ok)
	c, err := d.Factory("probe")
	require.NoError(t, err)
	assert.Equal(t, DefaultV4L2Device, c.(*V4L2Source).Device())

	tp, _ := reg.Lookup(TestPatternName)
	assert.Equal(t, registry.RankNone, tp.Rank)
}

func TestTestPattern(t *testing.T) {
	p := NewTestPattern("pattern")
	require.NoError(t, p.SetState(element.StateReady))
	assert.Equal(t, element.StateReady, p.State())
	assert.True(t, autodetect.DefaultFilterCaps.CanIntersect(p.OutputCaps()))
}

func TestDetection_FallsBackFromMissingCamera(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, Register(reg, Options{
		V4L2Devices:     []string{filepath.Join(t.TempDir(), "video0")},
		TestPatternRank: registry.RankMarginal,
	}))
	rec := &autodetect.MessageRecorder{}
	src := autodetect.New("camera", reg, autodetect.WithMessageSink(rec))
	ctx := context.Background()

	require.NoError(t, src.Activate(ctx))
	assert.Equal(t, "camera-actual-src-videotest", src.Bound().Name())
	assert.Empty(t, rec.Messages())

	report := src.LastReport()
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "v4l2src", report.Errors[0].Candidate)

	require.NoError(t, src.Deactivate(ctx))
	assert.True(t, element.IsPlaceholder(src.Endpoint().Target()))
}

func TestDetection_MissingCameraOnlyIsAnError(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, Register(reg, Options{
		V4L2Devices: []string{filepath.Join(t.TempDir(), "video0")},
	}))
	rec := &autodetect.MessageRecorder{}
	src := autodetect.New("camera", reg, autodetect.WithMessageSink(rec))

	err := src.Activate(context.Background())
	assert.ErrorIs(t, err, autodetect.ErrNoUsableSource)
	assert.Equal(t, 1, rec.Count(autodetect.MessageError))
}
