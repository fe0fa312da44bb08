package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// Users handles account CRUD against the users collection. Writes use
// majority write concern: losing a just-created account is user-visible.
type Users struct {
	col *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	opts := options.Collection().SetWriteConcern(writeconcern.Majority())
	return &Users{col: db.Collection(usersCollection, opts)}
}

// FindByEmail returns the user or common.ErrNotFound.
func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// Insert stores a new user. A duplicate email yields common.ErrAlreadyExists
// via the unique index, never a second document.
func (s *Users) Insert(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	res, err := s.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

// UpdatePreferences replaces the user's preference map. A nil map clears it.
func (s *Users) UpdatePreferences(ctx context.Context, email string, prefs map[string]string) error {
	if prefs == nil {
		prefs = map[string]string{}
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"preferences": prefs}},
	)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the user. Deleting an absent user is not an error.
func (s *Users) Delete(ctx context.Context, email string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// PromoteToAdmin sets the admin flag and returns the updated user.
func (s *Users) PromoteToAdmin(ctx context.Context, email string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"isAdmin": true}},
		opts,
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}
	return &u, nil
}

// SetAvatarKey records the object key of the user's avatar ("" clears it).
func (s *Users) SetAvatarKey(ctx context.Context, email, key string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"avatar_key": key}},
	)
	if err != nil {
		return fmt.Errorf("set avatar key: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
