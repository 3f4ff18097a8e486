package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// MongoRepo implements Repository over the "docs" collection. Ids are strings so the
// same ids can travel through relationship fields and URLs unchanged.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the (workflowGuid, workflowLocale) unique index.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: document.FieldGuid, Value: 1}, {Key: document.FieldLocale, Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return err
}

func decode(raw bson.D) *document.Document {
	return document.New(tree.FromValue(raw))
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M) (*document.Document, error) {
	var raw bson.D
	err := m.col.FindOne(ctx, filter).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(raw), nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*document.Document, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*document.Document{}
	for cur.Next(ctx) {
		var raw bson.D
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, decode(raw))
	}
	return out, cur.Err()
}

func (m *MongoRepo) FindByID(ctx context.Context, id string) (*document.Document, error) {
	return m.findOne(ctx, bson.M{document.FieldID: id})
}

func (m *MongoRepo) FindByIDs(ctx context.Context, ids []string) ([]*document.Document, error) {
	if len(ids) == 0 {
		return []*document.Document{}, nil
	}
	return m.find(ctx, bson.M{document.FieldID: bson.M{"$in": ids}})
}

func (m *MongoRepo) FindByGuidAndLocale(ctx context.Context, guid, locale string) (*document.Document, error) {
	return m.findOne(ctx, bson.M{document.FieldGuid: guid, document.FieldLocale: locale})
}

func (m *MongoRepo) FindByGuids(ctx context.Context, guids []string, locale string) ([]*document.Document, error) {
	if len(guids) == 0 {
		return []*document.Document{}, nil
	}
	filter := bson.M{document.FieldGuid: bson.M{"$in": guids}}
	if locale != "" {
		filter[document.FieldLocale] = locale
	}
	return m.find(ctx, filter)
}

func (m *MongoRepo) Insert(ctx context.Context, doc *document.Document) (string, error) {
	if doc.ID() == "" {
		doc.SetID(uuid.NewString())
	}
	now := tree.Scalar(time.Now().UTC())
	doc.Tree().Set(document.FieldCreatedAt, now)
	doc.Tree().Set(document.FieldUpdatedAt, now)
	if _, err := m.col.InsertOne(ctx, doc.Tree().BSON()); err != nil {
		return "", fmt.Errorf("insert %s: %w", doc.ID(), err)
	}
	return doc.ID(), nil
}

func (m *MongoRepo) Update(ctx context.Context, doc *document.Document) error {
	doc.Tree().Set(document.FieldUpdatedAt, tree.Scalar(time.Now().UTC()))
	res, err := m.col.ReplaceOne(ctx, bson.M{document.FieldID: doc.ID()}, doc.Tree().BSON())
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) SetField(ctx context.Context, id string, path tree.Path, value *tree.Node) error {
	res, err := m.col.UpdateOne(ctx, bson.M{document.FieldID: id}, bson.M{"$set": bson.M{path.String(): value.BSON()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) UnsetField(ctx context.Context, id string, path tree.Path) error {
	res, err := m.col.UpdateOne(ctx, bson.M{document.FieldID: id}, bson.M{"$unset": bson.M{path.String(): ""}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
