package repos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/storage/database"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		db      core.DatabaseConfig
		wantSQL bool
		wantErr bool
	}{
		{name: "memory", db: core.DatabaseConfig{Engine: database.EngineMemory}},
		{name: "sqlite", db: core.DatabaseConfig{Engine: database.EngineSQLite, Path: filepath.Join(t.TempDir(), "shule.db")}, wantSQL: true},
		{name: "unknown", db: core.DatabaseConfig{Engine: "oracle"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(ctx, &core.Config{Database: tt.db}, true)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, r.Close()) }()

			assert.Equal(t, tt.wantSQL, r.SQL != nil)
			pages, err := r.Pages.FilterPages(ctx, page.QueryFilter{})
			require.NoError(t, err)
			assert.Empty(t, pages)
		})
	}
}
