// Package movies reads the movie catalog. Movies are never written by
// this service; the lookup embeds each movie's comments so comment
// mutations can hand back a refreshed view.
package movies

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// Lookup fetches movies with their comments embedded, newest first.
type Lookup struct {
	col *mongo.Collection
}

func NewLookup(db *mongo.Database) *Lookup {
	return &Lookup{col: db.Collection("movies")}
}

func movieWithCommentsPipeline(id primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "comments"},
			{Key: "let", Value: bson.D{{Key: "id", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{
						{Key: "$eq", Value: bson.A{"$movie_id", "$$id"}},
					}},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
			}},
			{Key: "as", Value: "comments"},
		}}},
	}
}

// GetMovie returns the movie with its comment view, or common.ErrNotFound.
func (l *Lookup) GetMovie(ctx context.Context, id primitive.ObjectID) (*models.Movie, error) {
	cur, err := l.col.Aggregate(ctx, movieWithCommentsPipeline(id))
	if err != nil {
		return nil, fmt.Errorf("movie aggregate: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("movie cursor: %w", err)
		}
		return nil, common.ErrNotFound
	}

	var m models.Movie
	if err := cur.Decode(&m); err != nil {
		return nil, fmt.Errorf("movie decode: %w", err)
	}
	return &m, nil
}
