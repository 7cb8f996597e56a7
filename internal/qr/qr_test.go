package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	text := "Product: Chardonnay\nBrand: Domaine\nSKU: CH-1"

	a, err := g.Generate(text)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(a, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(a, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, defaultSize, img.Bounds().Dx())

	b, err := g.Generate(text)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := g.Generate(text + "-copy")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
