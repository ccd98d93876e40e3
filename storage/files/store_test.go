package files

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/uploads/")

	url, err := store.Save("images/logo.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/logo.png", url)

	data, err := afero.ReadFile(fs, "/images/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	// no escaping the root
	url, err = store.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)

	_, err = store.Save("/", strings.NewReader("x"))
	assert.Error(t, err)

	ok, err := store.Exists("images/logo.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/logo.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "png", string(body))

	require.NoError(t, store.Remove("images/logo.png"))
	require.NoError(t, store.Remove("images/logo.png"))
	ok, _ = store.Exists("images/logo.png")
	assert.False(t, ok)
}
