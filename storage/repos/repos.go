// Package repos opens the repositories of the configured database engine.
package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/storage/database"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	mongorepos "github.com/trezcool/shule/storage/database/mongodb"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

type Repos struct {
	Schools school.Repository
	Pages   page.Repository
	SQL     *sqlx.DB // nil unless the engine is a SQL one
	close   func() error
}

// Close releases the database connection.
func (r *Repos) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the configured engine. SQL databases are created if missing, and migrated when migrate is set.
func Open(ctx context.Context, conf *core.Config, migrate bool) (*Repos, error) {
	switch engine := conf.Database.Engine; {
	case database.IsSQL(engine):
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err = database.Migrate(db, "up"); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return &Repos{
			Schools: sqlxrepos.NewSchoolRepository(db),
			Pages:   sqlxrepos.NewPageRepository(db),
			SQL:     db,
			close:   db.Close,
		}, nil

	case engine == database.EngineMongoDB:
		db, err := mongorepos.Connect(ctx, conf)
		if err != nil {
			return nil, err
		}
		return &Repos{
			Schools: mongorepos.NewSchoolRepository(db),
			Pages:   mongorepos.NewPageRepository(db),
			close:   func() error { return db.Client().Disconnect(context.Background()) },
		}, nil

	case engine == database.EngineMemory:
		db := inmemdb.Open()
		return &Repos{
			Schools: inmemdb.NewSchoolRepository(db),
			Pages:   inmemdb.NewPageRepository(db),
		}, nil

	default:
		return nil, errors.Errorf("unsupported database engine %q", engine)
	}
}
