// ABOUTME: Tests for caps parsing, intersection, copy and equality.
// ABOUTME: Covers ANY/EMPTY handling and field-constrained structures.

package caps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("multiple structures", func(t *testing.T) {
		c, err := Parse("video/x-raw-yuv; video/x-raw-rgb")
		require.NoError(t, err)
		assert.Equal(t, "video/x-raw-yuv; video/x-raw-rgb", c.String())
		assert.False(t, c.IsAny())
		assert.False(t, c.IsEmpty())
	})

	t.Run("fields are canonicalised", func(t *testing.T) {
		c, err := Parse("video/x-raw, width=(int)640, format=(string){YUY2, I420, YUY2}")
		require.NoError(t, err)
		assert.Equal(t, "video/x-raw, format={I420,YUY2}, width=640", c.String())
	})

	t.Run("ANY and EMPTY", func(t *testing.T) {
		c, err := Parse("ANY")
		require.NoError(t, err)
		assert.True(t, c.IsAny())

		c, err = Parse("")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
		assert.Equal(t, "EMPTY", c.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, in := range []string{
			"video/x-raw, width",
			"video/x-raw, format={I420",
			"video/x-raw, format=(string",
			"video/x-raw, format={}",
			", width=1",
		} {
			_, err := Parse(in)
			assert.True(t, errors.Is(err, ErrInvalidCaps), "input %q: %v", in, err)
		}
	})
}

func TestCanIntersect(t *testing.T) {
	raw := MustParse("video/x-raw-yuv; video/x-raw-rgb")

	tests := []struct {
		name  string
		other *Caps
		want  bool
	}{
		{"same media type", MustParse("video/x-raw-rgb"), true},
		{"media type with extra fields", MustParse("video/x-raw-yuv, format=I420"), true},
		{"different media type", MustParse("image/jpeg"), false},
		{"any", Any(), true},
		{"empty", Empty(), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, raw.CanIntersect(tt.other))
			assert.Equal(t, tt.want, tt.other.CanIntersect(raw))
		})
	}

	t.Run("field values must overlap", func(t *testing.T) {
		a := MustParse("video/x-raw, format={I420,YUY2}")
		assert.True(t, a.CanIntersect(MustParse("video/x-raw, format=YUY2")))
		assert.False(t, a.CanIntersect(MustParse("video/x-raw, format=RGBx")))
		assert.True(t, a.CanIntersect(MustParse("video/x-raw, width=320")))
	})

	t.Run("any never intersects empty", func(t *testing.T) {
		assert.False(t, Any().CanIntersect(Empty()))
	})
}

func TestCopyAndEqual(t *testing.T) {
	orig := MustParse("video/x-raw, format={I420,YUY2}; video/x-raw-rgb")
	cp := orig.Copy()

	assert.True(t, orig.Equal(cp))
	assert.NotSame(t, orig, cp)
	assert.False(t, orig.Equal(MustParse("video/x-raw-rgb")))
	assert.True(t, MustParse("video/x-raw, format={YUY2,I420}").Equal(MustParse("video/x-raw, format={I420,YUY2}")))

	var nilCaps *Caps
	assert.Nil(t, nilCaps.Copy())
	assert.True(t, nilCaps.Equal(Empty()))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("video/x-raw, width") })
}
