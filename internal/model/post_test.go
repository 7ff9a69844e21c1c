package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostUnmarshal_MongoShape(t *testing.T) {
	raw := `{"_id":"p1","title":"Hello","body":"World","createdBy":{"id":"u1","name":"Ann"},
		"createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-02T10:00:00Z"}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "u1", p.Author.ID)
	assert.Equal(t, "Ann", p.Author.Name)
	assert.Equal(t, 2024, p.CreatedAt.Year())
}

func TestPostUnmarshal_PlainShape(t *testing.T) {
	raw := `{"id":"p2","title":"T","body":"B","author":{"id":"u2","name":"Bo"}}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "p2", p.ID)
	assert.Equal(t, "u2", p.Author.ID)
	assert.True(t, p.CreatedAt.IsZero())
}

func TestPostUnmarshal_AuthorAsID(t *testing.T) {
	raw := `{"_id":"p3","title":"T","body":"B","createdBy":"u3"}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "u3", p.Author.ID)
	assert.Empty(t, p.Author.Name)
}

func TestPostUnmarshal_BadAuthor(t *testing.T) {
	raw := `{"_id":"p4","createdBy":42}`

	var p Post
	assert.Error(t, json.Unmarshal([]byte(raw), &p))
}

func TestCommentUnmarshal_AlternateKeys(t *testing.T) {
	raw := `{"_id":"c1","content":"nice","postId":"p1","author":{"id":"u1","name":"Ann"}}`

	var c Comment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "nice", c.Text)
	assert.Equal(t, "p1", c.PostID)
	assert.Equal(t, "u1", c.Author.ID)
}

func TestCommentUnmarshal_PrimaryKeys(t *testing.T) {
	raw := `{"id":"c2","comment":"first","blogId":"p9","author":{"id":"u7"}}`

	var c Comment
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "c2", c.ID)
	assert.Equal(t, "first", c.Text)
	assert.Equal(t, "p9", c.PostID)
}

func TestPostPatch_OmitsNilFields(t *testing.T) {
	title := "New title"
	b, err := json.Marshal(PostPatch{Title: &title})
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"New title"}`, string(b))
}

func TestIdentity_IsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.False(t, Identity{ID: "1"}.IsZero())
}
