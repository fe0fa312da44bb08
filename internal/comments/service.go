// Package comments implements movie-comment CRUD with ownership enforced
// in the storage filters: a mutation that does not match the owner's
// email matches nothing.
package comments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// Store is the comment persistence contract. Mutation methods return how
// many documents matched/were removed so callers can distinguish "not
// yours or gone" from success.
type Store interface {
	Insert(ctx context.Context, c *models.Comment) error
	UpdateText(ctx context.Context, commentID primitive.ObjectID, ownerEmail, text string) (int64, error)
	Delete(ctx context.Context, movieID, commentID primitive.ObjectID, ownerEmail string) (int64, error)
}

// MovieLookup is the external collaborator that returns a movie's
// refreshed comment view after a mutation.
type MovieLookup interface {
	GetMovie(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
}

// Service wires the comment store to the movie lookup.
type Service struct {
	store  Store
	movies MovieLookup
}

func NewService(store Store, movies MovieLookup) *Service {
	return &Service{store: store, movies: movies}
}

// Add posts a comment, stamping the owner's name and email and a UTC
// timestamp, then returns the refreshed movie. A lookup failure surfaces
// as common.ErrMovieLookup, distinct from a store failure.
func (s *Service) Add(ctx context.Context, user *models.User, movieID primitive.ObjectID, text string) (*models.Movie, error) {
	c := &models.Comment{
		Name:    user.Name,
		Email:   user.Email,
		MovieID: movieID,
		Text:    text,
		Date:    time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return s.refreshMovie(ctx, movieID)
}

// Update rewrites the comment body. When nothing matches (nonexistent
// comment or a different owner) it returns common.ErrNoMatch instead of
// silently succeeding; on success it returns the refreshed movie.
func (s *Service) Update(ctx context.Context, user *models.User, movieID, commentID primitive.ObjectID, text string) (*models.Movie, error) {
	matched, err := s.store.UpdateText(ctx, commentID, user.Email, text)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if matched == 0 {
		return nil, common.ErrNoMatch
	}
	return s.refreshMovie(ctx, movieID)
}

// Delete removes the comment when movie, comment, and owner all match,
// and returns the refreshed movie whether or not anything was deleted.
func (s *Service) Delete(ctx context.Context, user *models.User, movieID, commentID primitive.ObjectID) (*models.Movie, error) {
	deleted, err := s.store.Delete(ctx, movieID, commentID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	if deleted == 0 {
		// Not the owner or already gone; the refreshed movie is still
		// the response.
		log.Printf("comment delete matched nothing: comment=%s user=%s", commentID.Hex(), user.Email)
	}
	return s.refreshMovie(ctx, movieID)
}

func (s *Service) refreshMovie(ctx context.Context, movieID primitive.ObjectID) (*models.Movie, error) {
	m, err := s.movies.GetMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: movie %s absent", common.ErrMovieLookup, movieID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMovieLookup, err)
	}
	return m, nil
}
