package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/trezcool/shule/core/school"
)

type schoolRepository struct {
	coll *mongo.Collection
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *mongo.Database) school.Repository {
	return &schoolRepository{coll: db.Collection(schoolsCollection)}
}

func (repo *schoolRepository) CheckSlugUniqueness(ctx context.Context, slug string, excludedIDs ...string) error {
	filter := bson.M{"slug": slug}
	if nin := notExcluded(excludedIDs); nin != nil {
		filter["_id"] = nin
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "checking school slug")
	}
	if count > 0 {
		return school.ErrSlugExists
	}
	return nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	if _, err := repo.GetSchoolByID(ctx, sch.ID); err == nil {
		return school.School{}, school.ErrIDExists
	}
	sch.CreatedAt = sch.CreatedAt.UTC()
	if _, err := repo.coll.InsertOne(ctx, sch); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return school.School{}, school.ErrSlugExists
		}
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := repo.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding schools")
	}
	schools := make([]school.School, 0)
	if err = cursor.All(ctx, &schools); err != nil {
		return nil, errors.Wrap(err, "decoding schools")
	}
	for i := range schools {
		schools[i].CreatedAt = schools[i].CreatedAt.UTC()
	}
	return schools, nil
}

func (repo *schoolRepository) findOne(ctx context.Context, filter bson.M) (school.School, error) {
	var sch school.School
	if err := repo.coll.FindOne(ctx, filter).Decode(&sch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "finding school")
	}
	sch.CreatedAt = sch.CreatedAt.UTC()
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *schoolRepository) GetSchoolBySlug(ctx context.Context, slug string) (school.School, error) {
	return repo.findOne(ctx, bson.M{"slug": slug})
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": sch.ID}, bson.M{"$set": bson.M{
		"name":            sch.Name,
		"slug":            sch.Slug,
		"logo_url":        sch.LogoURL,
		"primary_color":   sch.PrimaryColor,
		"secondary_color": sch.SecondaryColor,
		"theme_id":        sch.ThemeID,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return school.School{}, school.ErrSlugExists
		}
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if res.MatchedCount == 0 {
		return school.School{}, school.ErrNotFound
	}
	return repo.GetSchoolByID(ctx, sch.ID)
}

func (repo *schoolRepository) DeleteSchool(ctx context.Context, id string) error {
	if _, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "deleting school")
	}
	return nil
}
