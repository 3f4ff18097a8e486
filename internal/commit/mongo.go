package commit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// persistedCommit is the Mongo representation of a commit.
type persistedCommit struct {
	ID           string      `bson:"_id"`
	WorkflowGuid string      `bson:"workflowGuid"`
	DocID        string      `bson:"docId"`
	Locale       string      `bson:"locale"`
	From         primitive.D `bson:"from"`
	To           primitive.D `bson:"to"`
	CreatedAt    time.Time   `bson:"createdAt"`
	CreatedBy    string      `bson:"createdBy,omitempty"`
}

func toDoc(n *tree.Node) primitive.D {
	d, _ := n.BSON().(primitive.D)
	return d
}

func (p *persistedCommit) commit() *Commit {
	return &Commit{
		ID:           p.ID,
		WorkflowGuid: p.WorkflowGuid,
		DocID:        p.DocID,
		Locale:       p.Locale,
		From:         tree.FromValue(p.From),
		To:           tree.FromValue(p.To),
		CreatedAt:    p.CreatedAt,
		CreatedBy:    p.CreatedBy,
	}
}

// MongoStore persists commits in the "commits" collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// EnsureIndexes creates the lookup indexes used by history and latest-commit queries.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "docId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "workflowGuid", Value: 1}, {Key: "locale", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (m *MongoStore) Insert(ctx context.Context, c *Commit) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	rec := persistedCommit{
		ID:           c.ID,
		WorkflowGuid: c.WorkflowGuid,
		DocID:        c.DocID,
		Locale:       c.Locale,
		From:         toDoc(c.From),
		To:           toDoc(c.To),
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("save commit: %w", err)
	}
	return nil
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*Commit, error) {
	var pc persistedCommit
	if err := m.col.FindOne(ctx, filter, opts...).Decode(&pc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pc.commit(), nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (m *MongoStore) FindByID(ctx context.Context, id string) (*Commit, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoStore) FindLatestByDocID(ctx context.Context, docID string) (*Commit, error) {
	return m.findOne(ctx, bson.M{"docId": docID}, options.FindOne().SetSort(newestFirst))
}

func (m *MongoStore) FindLatestByGuid(ctx context.Context, guid, locale string) (*Commit, error) {
	filter := bson.M{"workflowGuid": guid}
	if locale != "" {
		filter["locale"] = locale
	}
	return m.findOne(ctx, filter, options.FindOne().SetSort(newestFirst))
}

func (m *MongoStore) ListByDocID(ctx context.Context, docID string, limit int) ([]*Commit, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{"docId": docID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Commit{}
	for cur.Next(ctx) {
		var pc persistedCommit
		if err := cur.Decode(&pc); err != nil {
			return nil, err
		}
		out = append(out, pc.commit())
	}
	return out, cur.Err()
}

var _ Store = (*MongoStore)(nil)
