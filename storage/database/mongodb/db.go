package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/trezcool/shule/core"
)

// Collections
const (
	schoolsCollection = "schools"
	pagesCollection   = "pages"
)

// Connect opens the application's MongoDB database and makes sure its indexes exist.
func Connect(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conf.Database.URI).SetAppName(conf.AppName))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	db := client.Database(conf.Database.Name)
	if err = EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return db, nil
}

// EnsureIndexes creates the unique slug indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(schoolsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "creating schools index")
	}
	_, err = db.Collection(pagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "school_id", Value: 1}, {Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "creating pages index")
	}
	return nil
}

// plain turns decoded BSON containers back into the generic maps and slices the editor works with.
func plain(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = plain(item)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = plain(item)
		}
		return m
	case bson.A:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = plain(item)
		}
		return s
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = plain(item)
		}
		return s
	default:
		return v
	}
}

func notExcluded(ids []string) bson.M {
	if len(ids) == 0 {
		return nil
	}
	return bson.M{"$nin": ids}
}
