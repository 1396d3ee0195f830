package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotours/internal/utils"
)

// crudStore implements the five generic collection operations every resource
// repository shares. The base filter is merged into every query so that
// repository-level visibility rules (exclude secret tours, exclude inactive
// users) are applied at one explicit place instead of hidden hooks.
type crudStore[T any] struct {
	collection *mongo.Collection
	baseFilter bson.M
}

func newCRUDStore[T any](collection *mongo.Collection, baseFilter bson.M) *crudStore[T] {
	return &crudStore[T]{
		collection: collection,
		baseFilter: baseFilter,
	}
}

func (s *crudStore[T]) withBase(filter bson.M) bson.M {
	merged := bson.M{}
	for k, v := range s.baseFilter {
		merged[k] = v
	}
	for k, v := range filter {
		merged[k] = v
	}
	return merged
}

// List applies the parsed query filter on top of the base filter and returns
// the matching page plus the total count of the filtered set.
func (s *crudStore[T]) List(ctx context.Context, opts *utils.QueryOptions) ([]*T, int64, error) {
	filter := s.withBase(opts.Filter)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	cursor, err := s.collection.Find(ctx, filter, opts.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, &doc)
	}

	return docs, total, cursor.Err()
}

func (s *crudStore[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := s.collection.FindOne(ctx, s.withBase(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *crudStore[T]) Insert(ctx context.Context, doc *T) error {
	_, err := s.collection.InsertOne(ctx, doc)
	return err
}

// UpdateByID applies a partial $set update and returns the post-update
// document. mongo.ErrNoDocuments surfaces when the id does not match.
func (s *crudStore[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := s.collection.FindOneAndUpdate(
		ctx,
		s.withBase(bson.M{"_id": id}),
		bson.M{"$set": update},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *crudStore[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, s.withBase(bson.M{"_id": id}))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
