package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The delete filter must carry the owner email: deletion by a non-owner
// has to match zero documents, not remove someone else's comment.
func TestDeleteFilterEnforcesOwner(t *testing.T) {
	movieID := primitive.NewObjectID()
	commentID := primitive.NewObjectID()

	f := deleteFilter(movieID, commentID, "a@example.com")

	assert.Equal(t, commentID, f["_id"])
	assert.Equal(t, movieID, f["movie_id"])
	assert.Equal(t, "a@example.com", f["email"])
}

func TestUpdateFilterEnforcesOwner(t *testing.T) {
	commentID := primitive.NewObjectID()

	f := updateFilter(commentID, "a@example.com")

	assert.Equal(t, commentID, f["_id"])
	assert.Equal(t, "a@example.com", f["email"])
}

func TestTopCommentersPipeline(t *testing.T) {
	p := topCommentersPipeline(20)
	require.Len(t, p, 3)

	group := p[0][0]
	require.Equal(t, "$group", group.Key)
	spec, ok := group.Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "$email", spec[0].Value)

	sortStage := p[1][0]
	require.Equal(t, "$sort", sortStage.Key)
	sortSpec, ok := sortStage.Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "count", sortSpec[0].Key)
	assert.Equal(t, -1, sortSpec[0].Value)

	limitStage := p[2][0]
	require.Equal(t, "$limit", limitStage.Key)
	assert.Equal(t, int64(20), limitStage.Value)
}
