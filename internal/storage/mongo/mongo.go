// Package mongo stores public form submissions in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
)

const collectionName = "submissions"

// Connect opens a client, verifies it with a ping and returns the database.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client.Database(database), nil
}

type submissionDoc struct {
	ID           string    `bson:"_id"`
	Kind         string    `bson:"kind"`
	Name         string    `bson:"name,omitempty"`
	Email        string    `bson:"email,omitempty"`
	Phone        string    `bson:"phone,omitempty"`
	Company      string    `bson:"company,omitempty"`
	Skills       string    `bson:"skills,omitempty"`
	Availability string    `bson:"availability,omitempty"`
	Location     string    `bson:"location,omitempty"`
	Message      string    `bson:"message,omitempty"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toDoc(s *inquiry.Submission) submissionDoc {
	f := s.Form
	return submissionDoc{
		ID:           s.ID,
		Kind:         string(s.Kind),
		Name:         f.Name,
		Email:        f.Email,
		Phone:        f.Phone,
		Company:      f.Company,
		Skills:       f.Skills,
		Availability: f.Availability,
		Location:     f.Location,
		Message:      f.Message,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
	}
}

func (d submissionDoc) submission() inquiry.Submission {
	return inquiry.Submission{
		ID:   d.ID,
		Kind: inquiry.Kind(d.Kind),
		Form: inquiry.Form{
			Name:         d.Name,
			Email:        d.Email,
			Phone:        d.Phone,
			Company:      d.Company,
			Skills:       d.Skills,
			Availability: d.Availability,
			Location:     d.Location,
			Message:      d.Message,
		},
		Status:    d.Status,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

var _ inquiry.Repository = (*SubmissionRepository)(nil)

// SubmissionRepository implements inquiry.Repository on a MongoDB collection.
type SubmissionRepository struct {
	collection *mongo.Collection
}

// NewSubmissionRepository returns a repository over db's submissions collection.
func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{collection: db.Collection(collectionName)}
}

// CreateIndexes ensures the listing index exists.
func (r *SubmissionRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating submission index: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) SaveSubmission(ctx context.Context, s *inquiry.Submission) error {
	if _, err := r.collection.InsertOne(ctx, toDoc(s)); err != nil {
		return fmt.Errorf("saving %s submission: %w", s.Kind, err)
	}
	return nil
}

// ListSubmissions returns submissions of kind, or all when kind is empty,
// newest first.
func (r *SubmissionRepository) ListSubmissions(ctx context.Context, kind inquiry.Kind) ([]inquiry.Submission, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = string(kind)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	var docs []submissionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding submissions: %w", err)
	}

	out := make([]inquiry.Submission, len(docs))
	for i, d := range docs {
		out[i] = d.submission()
	}
	return out, nil
}
