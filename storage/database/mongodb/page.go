package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
)

type (
	componentDoc struct {
		ID    string `bson:"id"`
		Type  string `bson:"type"`
		Props bson.M `bson:"props"`
		Order int    `bson:"order"`
	}

	pageDoc struct {
		ID          string         `bson:"_id"`
		SchoolID    string         `bson:"school_id"`
		Name        string         `bson:"name"`
		Slug        string         `bson:"slug"`
		Components  []componentDoc `bson:"components"`
		IsPublished bool           `bson:"is_published"`
		CreatedAt   time.Time      `bson:"created_at"`
		UpdatedAt   time.Time      `bson:"updated_at"`
	}
)

func componentDocs(comps []editor.Component) []componentDoc {
	docs := make([]componentDoc, 0, len(comps))
	for _, c := range comps {
		docs = append(docs, componentDoc{ID: c.ID, Type: c.Type, Props: bson.M(c.Props.Clone()), Order: c.Order})
	}
	return docs
}

func newPageDoc(p page.Page) pageDoc {
	return pageDoc{
		ID:          p.ID,
		SchoolID:    p.SchoolID,
		Name:        p.Name,
		Slug:        p.Slug,
		Components:  componentDocs(p.Components),
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (doc pageDoc) page() page.Page {
	comps := make([]editor.Component, 0, len(doc.Components))
	for _, c := range doc.Components {
		props, _ := plain(c.Props).(map[string]interface{})
		if props == nil {
			props = make(map[string]interface{})
		}
		comps = append(comps, editor.Component{ID: c.ID, Type: c.Type, Props: catalog.Props(props), Order: c.Order})
	}
	return page.Page{
		ID:          doc.ID,
		SchoolID:    doc.SchoolID,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Components:  comps,
		IsPublished: doc.IsPublished,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

type pageRepository struct {
	coll *mongo.Collection
}

var _ page.Repository = (*pageRepository)(nil)

func NewPageRepository(db *mongo.Database) page.Repository {
	return &pageRepository{coll: db.Collection(pagesCollection)}
}

func (repo *pageRepository) CheckSlugUniqueness(ctx context.Context, schoolID, slug string, excludedIDs ...string) error {
	filter := bson.M{"school_id": schoolID, "slug": slug}
	if nin := notExcluded(excludedIDs); nin != nil {
		filter["_id"] = nin
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "checking page slug")
	}
	if count > 0 {
		return page.ErrSlugExists
	}
	return nil
}

func (repo *pageRepository) CreatePage(ctx context.Context, p page.Page) (page.Page, error) {
	if _, err := repo.GetPageByID(ctx, p.ID); err == nil {
		return page.Page{}, page.ErrIDExists
	}
	doc := newPageDoc(p)
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return page.Page{}, page.ErrSlugExists
		}
		return page.Page{}, errors.Wrap(err, "inserting page")
	}
	return doc.page(), nil
}

func (repo *pageRepository) FilterPages(ctx context.Context, filter page.QueryFilter) ([]page.Page, error) {
	query := bson.M{}
	if filter.SchoolID != "" {
		query["school_id"] = filter.SchoolID
	}
	if filter.IsPublished != nil {
		query["is_published"] = *filter.IsPublished
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := repo.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding pages")
	}
	docs := make([]pageDoc, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding pages")
	}

	pages := make([]page.Page, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, doc.page())
	}
	return pages, nil
}

func (repo *pageRepository) findOne(ctx context.Context, filter bson.M) (page.Page, error) {
	var doc pageDoc
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return page.Page{}, page.ErrNotFound
		}
		return page.Page{}, errors.Wrap(err, "finding page")
	}
	return doc.page(), nil
}

func (repo *pageRepository) GetPageByID(ctx context.Context, id string) (page.Page, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *pageRepository) GetPageBySlug(ctx context.Context, schoolID, slug string) (page.Page, error) {
	return repo.findOne(ctx, bson.M{"school_id": schoolID, "slug": slug})
}

func (repo *pageRepository) UpdatePage(ctx context.Context, p page.Page) (page.Page, error) {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":         p.Name,
		"slug":         p.Slug,
		"components":   componentDocs(p.Components),
		"is_published": p.IsPublished,
		"updated_at":   p.UpdatedAt.UTC(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return page.Page{}, page.ErrSlugExists
		}
		return page.Page{}, errors.Wrap(err, "updating page")
	}
	if res.MatchedCount == 0 {
		return page.Page{}, page.ErrNotFound
	}
	return repo.GetPageByID(ctx, p.ID)
}

func (repo *pageRepository) DeletePage(ctx context.Context, id string) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting page")
	}
	if res.DeletedCount == 0 {
		return page.ErrNotFound
	}
	return nil
}

func (repo *pageRepository) DeleteSchoolPages(ctx context.Context, schoolID string) error {
	if _, err := repo.coll.DeleteMany(ctx, bson.M{"school_id": schoolID}); err != nil {
		return errors.Wrap(err, "deleting school pages")
	}
	return nil
}
