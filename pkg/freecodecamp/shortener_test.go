package freecodecamp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	known map[string]bool
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if f.known[host] {
		return []string{"127.0.0.1"}, nil
	}

	return nil, errors.New("no such host")
}

func newTestShortener() *Shortener {
	return &Shortener{
		Store:    NewMemoryShortcutStore(),
		Resolver: &fakeResolver{known: map[string]bool{"www.freecodecamp.org": true}},
	}
}

func TestShorten(t *testing.T) {
	shortener := newTestShortener()

	short, err := shortener.Shorten(context.Background(), "https://www.freecodecamp.org/learn")
	require.NoError(t, err)
	assert.Equal(t, "https://www.freecodecamp.org/learn", short.OriginalURL)
	assert.Equal(t, HashURL("https://www.freecodecamp.org/learn"), short.ShortURL)
	assert.Len(t, short.ShortURL, 64)

	again, err := shortener.Shorten(context.Background(), "https://www.freecodecamp.org/learn")
	require.NoError(t, err)
	assert.Equal(t, short.ShortURL, again.ShortURL)

	original, err := shortener.Resolve(context.Background(), short.ShortURL)
	require.NoError(t, err)
	assert.Equal(t, "https://www.freecodecamp.org/learn", original)
}

func TestShortenInvalid(t *testing.T) {
	shortener := newTestShortener()

	for _, input := range []string{
		"",
		"www.freecodecamp.org",
		"ftp://www.freecodecamp.org/file",
		"https://unknown.invalid/",
		"http://",
		"://broken",
	} {
		_, err := shortener.Shorten(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidURL, input)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := newTestShortener().Resolve(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrShortcutNotFound)
}
