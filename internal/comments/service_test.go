package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moviehub-app/backend/internal/common"
	"github.com/moviehub-app/backend/internal/models"
)

// fakeStore keeps comments in memory and applies the same matching rules
// the Mongo filters encode: mutations match on comment id plus owner
// email (delete additionally on movie id).
type fakeStore struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeStore() *fakeStore {
	return &fakeStore{comments: map[primitive.ObjectID]*models.Comment{}}
}

func (f *fakeStore) Insert(_ context.Context, c *models.Comment) error {
	c.ID = primitive.NewObjectID()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateText(_ context.Context, commentID primitive.ObjectID, ownerEmail, text string) (int64, error) {
	c, ok := f.comments[commentID]
	if !ok || c.Email != ownerEmail {
		return 0, nil
	}
	c.Text = text
	return 1, nil
}

func (f *fakeStore) Delete(_ context.Context, movieID, commentID primitive.ObjectID, ownerEmail string) (int64, error) {
	c, ok := f.comments[commentID]
	if !ok || c.MovieID != movieID || c.Email != ownerEmail {
		return 0, nil
	}
	delete(f.comments, commentID)
	return 1, nil
}

// fakeLookup returns a movie whose Comments mirror the fake store.
type fakeLookup struct {
	store *fakeStore
	err   error
}

func (f *fakeLookup) GetMovie(_ context.Context, id primitive.ObjectID) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := &models.Movie{ID: id, Title: "The Test Pattern"}
	for _, c := range f.store.comments {
		if c.MovieID == id {
			m.Comments = append(m.Comments, *c)
		}
	}
	return m, nil
}

func newTestService() (*Service, *fakeStore, *fakeLookup) {
	store := newFakeStore()
	lookup := &fakeLookup{store: store}
	return NewService(store, lookup), store, lookup
}

var (
	alice = &models.User{Name: "Alice", Email: "a@example.com"}
	bob   = &models.User{Name: "Bob", Email: "b@example.com"}
)

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	movieID := primitive.NewObjectID()

	before := time.Now().UTC()
	movie, err := svc.Add(ctx, alice, movieID, "great movie")
	require.NoError(t, err)

	require.Len(t, store.comments, 1)
	require.Len(t, movie.Comments, 1)

	c := movie.Comments[0]
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, movieID, c.MovieID)
	assert.Equal(t, "great movie", c.Text)
	assert.False(t, c.Date.Before(before), "timestamp must be stamped at creation")
	assert.Equal(t, time.UTC, c.Date.Location())
}

func TestUpdateOwnComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	movieID := primitive.NewObjectID()

	_, err := svc.Add(ctx, alice, movieID, "first draft")
	require.NoError(t, err)
	var commentID primitive.ObjectID
	for id := range store.comments {
		commentID = id
	}

	movie, err := svc.Update(ctx, alice, movieID, commentID, "second draft")
	require.NoError(t, err)
	require.Len(t, movie.Comments, 1)
	assert.Equal(t, "second draft", movie.Comments[0].Text)
}

func TestUpdateOtherUsersComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	movieID := primitive.NewObjectID()

	_, err := svc.Add(ctx, alice, movieID, "alice wrote this")
	require.NoError(t, err)
	var commentID primitive.ObjectID
	for id := range store.comments {
		commentID = id
	}

	_, err = svc.Update(ctx, bob, movieID, commentID, "bob rewrote this")
	assert.ErrorIs(t, err, common.ErrNoMatch)
	assert.Equal(t, "alice wrote this", store.comments[commentID].Text)
}

func TestUpdateMissingComment(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), alice, primitive.NewObjectID(), primitive.NewObjectID(), "text")
	assert.ErrorIs(t, err, common.ErrNoMatch)
}

func TestDeleteOwnComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	movieID := primitive.NewObjectID()

	_, err := svc.Add(ctx, alice, movieID, "to be removed")
	require.NoError(t, err)
	var commentID primitive.ObjectID
	for id := range store.comments {
		commentID = id
	}

	movie, err := svc.Delete(ctx, alice, movieID, commentID)
	require.NoError(t, err)
	assert.Empty(t, store.comments)
	assert.Empty(t, movie.Comments)
}

func TestDeleteOtherUsersComment(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	movieID := primitive.NewObjectID()

	_, err := svc.Add(ctx, alice, movieID, "alice wrote this")
	require.NoError(t, err)
	var commentID primitive.ObjectID
	for id := range store.comments {
		commentID = id
	}

	// The refreshed movie comes back, but nothing was deleted.
	movie, err := svc.Delete(ctx, bob, movieID, commentID)
	require.NoError(t, err)
	require.Len(t, store.comments, 1)
	assert.Equal(t, "alice wrote this", store.comments[commentID].Text)
	assert.Len(t, movie.Comments, 1)
}

func TestMovieLookupFailureIsDistinct(t *testing.T) {
	ctx := context.Background()
	svc, store, lookup := newTestService()
	lookup.err = errors.New("collaborator down")

	_, err := svc.Add(ctx, alice, primitive.NewObjectID(), "text")
	assert.ErrorIs(t, err, common.ErrMovieLookup)
	// The comment itself was persisted; only the refresh failed.
	assert.Len(t, store.comments, 1)
}

func TestMovieLookupAbsentMovie(t *testing.T) {
	svc, _, lookup := newTestService()
	lookup.err = common.ErrNotFound

	_, err := svc.Add(context.Background(), alice, primitive.NewObjectID(), "text")
	assert.ErrorIs(t, err, common.ErrMovieLookup)
}
