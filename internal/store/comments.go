package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"github.com/moviehub-app/backend/internal/models"
)

// Comments handles the comments collection. Every mutation filter carries
// the owner email, so ownership is enforced by the match itself rather
// than a separate authorization read.
type Comments struct {
	col *mongo.Collection

	// reportCol reads with majority read concern; the top-commenters
	// report must not count unreplicated writes.
	reportCol *mongo.Collection
}

func NewComments(db *mongo.Database) *Comments {
	majority := options.Collection().SetReadConcern(readconcern.Majority())
	return &Comments{
		col:       db.Collection(commentsCollection),
		reportCol: db.Collection(commentsCollection, majority),
	}
}

// Insert stores a new comment and fills in its generated id.
func (s *Comments) Insert(ctx context.Context, c *models.Comment) error {
	res, err := s.col.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func updateFilter(commentID primitive.ObjectID, ownerEmail string) bson.M {
	return bson.M{"_id": commentID, "email": ownerEmail}
}

func deleteFilter(movieID, commentID primitive.ObjectID, ownerEmail string) bson.M {
	return bson.M{"_id": commentID, "movie_id": movieID, "email": ownerEmail}
}

// UpdateText rewrites the comment body and refreshes its date. The filter
// matches nothing when the comment does not exist or belongs to someone
// else; the returned count lets the caller tell "no match" from success.
func (s *Comments) UpdateText(ctx context.Context, commentID primitive.ObjectID, ownerEmail, text string) (int64, error) {
	res, err := s.col.UpdateOne(ctx,
		updateFilter(commentID, ownerEmail),
		bson.M{"$set": bson.M{"text": text, "date": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("update comment: %w", err)
	}
	return res.MatchedCount, nil
}

// Delete removes the comment only when movie, comment id, and owner email
// all match, and reports how many documents were actually deleted.
func (s *Comments) Delete(ctx context.Context, movieID, commentID primitive.ObjectID, ownerEmail string) (int64, error) {
	res, err := s.col.DeleteOne(ctx, deleteFilter(movieID, commentID, ownerEmail))
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	return res.DeletedCount, nil
}

func topCommentersPipeline(limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$email"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
}

// TopCommenters groups all comments by owner email and returns the most
// active commenters, descending by count, truncated to limit.
func (s *Comments) TopCommenters(ctx context.Context, limit int64) ([]models.CommenterStat, error) {
	cur, err := s.reportCol.Aggregate(ctx, topCommentersPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate commenters: %w", err)
	}
	defer cur.Close(ctx)

	var stats []models.CommenterStat
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode commenters: %w", err)
	}
	return stats, nil
}
