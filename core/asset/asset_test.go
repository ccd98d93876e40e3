package asset_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/asset"
	"github.com/trezcool/shule/storage/files"
)

const pngHeader = "\x89PNG\x0D\x0A\x1A\x0A"

func TestService_Upload(t *testing.T) {
	fs := afero.NewMemMapFs()
	svc := asset.NewService(files.NewStore(fs, "/uploads"), 64)
	ctx := context.Background()

	a, err := svc.Upload(ctx, "School Logo.PNG", strings.NewReader(pngHeader+"data"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.ContentType)
	assert.True(t, strings.HasPrefix(a.Name, "school-logo-"), a.Name)
	assert.True(t, strings.HasSuffix(a.Name, ".png"), a.Name)
	assert.Equal(t, "/uploads/"+a.Name, a.URL)
	assert.Equal(t, int64(len(pngHeader)+4), a.Size)

	ok, err := afero.Exists(fs, "/"+a.Name)
	require.NoError(t, err)
	assert.True(t, ok)

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty", data: "", wantErr: asset.ErrEmpty},
		{name: "too large", data: pngHeader + strings.Repeat("x", 64), wantErr: asset.ErrTooLarge},
		{name: "not an image", data: "hello world", wantErr: asset.ErrUnsupported},
		{name: "gif", data: "GIF89a......"},
		{name: "jpeg", data: "\xFF\xD8\xFF\xE0......"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "x", strings.NewReader(tt.data))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			verr, ok := err.(*core.ValidationError)
			require.True(t, ok, "%T", err)
			assert.Equal(t, tt.wantErr, verr.Err)
			assert.Equal(t, "file", verr.Fields[0].Field)
		})
	}
}
