package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// Sessions handles the sessions collection. The keyed upsert plus the
// unique user_id index guarantee at most one session per user.
type Sessions struct {
	col *mongo.Collection
}

func NewSessions(db *mongo.Database) *Sessions {
	return &Sessions{col: db.Collection(sessionsCollection)}
}

// FindByUser returns the user's session or common.ErrNotFound.
func (s *Sessions) FindByUser(ctx context.Context, email string) (*models.Session, error) {
	var sess models.Session
	err := s.col.FindOne(ctx, bson.M{"user_id": email}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &sess, nil
}

// Upsert creates or replaces the session for the user in one atomic call.
func (s *Sessions) Upsert(ctx context.Context, email, token string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": email},
		bson.M{"$set": bson.M{"user_id": email, "jwt": token}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes the user's session; deleting an absent session is fine.
func (s *Sessions) Delete(ctx context.Context, email string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"user_id": email}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
