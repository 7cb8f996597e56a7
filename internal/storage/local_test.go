package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	name, err := ObjectName("Label.PNG", now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "1700000000123-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NoError(t, checkName(name))

	_, err = ObjectName("script.sh", now)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = ObjectName("noext", now)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLocal_SaveOpen(t *testing.T) {
	t.Parallel()

	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	name, err := ObjectName("bottle.jpg", time.Now())
	require.NoError(t, err)

	url, err := s.Save(ctx, name, strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+name, url)

	rc, ct, err := s.Open(ctx, name)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))
	assert.Equal(t, "image/jpeg", ct)

	_, err = s.Save(ctx, name, strings.NewReader("again"), 5, "image/jpeg")
	assert.Error(t, err, "existing files are never overwritten")
}

func TestLocal_RejectsBadNames(t *testing.T) {
	t.Parallel()

	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../etc/passwd", "a/b.png", "plain.png", ""} {
		_, err := s.Save(ctx, name, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidName, name)

		_, _, err = s.Open(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}

	_, _, err = s.Open(ctx, "1700000000123-00000000-0000-0000-0000-000000000000.png")
	assert.ErrorIs(t, err, ErrNotFound)
}
