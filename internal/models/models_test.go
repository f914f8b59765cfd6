package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	t.Parallel()

	id := NewID()
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", id, id, true},
		{"upper case uuid", id, "  " + toUpper(id) + " ", true},
		{"braced uuid", id, "{" + id + "}", true},
		{"different ids", id, NewID(), false},
		{"opaque ids differ in case", "AbC", "abc", true},
		{"empty never matches", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameID(tt.a, tt.b))
		})
	}
}

func toUpper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 32
		}
	}
	return string(out)
}

func TestPost_LikedBy(t *testing.T) {
	t.Parallel()

	alice := NewID()
	post := &Post{Likes: []Like{{UserID: alice, Username: "alice"}}}

	assert.True(t, post.LikedBy(toUpper(alice)))
	assert.False(t, post.LikedBy(NewID()))
	assert.Equal(t, 1, post.LikesCount())
	assert.Equal(t, 0, post.CommentsCount())
}

func TestPost_MarshalJSONAddsCounts(t *testing.T) {
	t.Parallel()

	post := Post{
		ID:       NewID(),
		Text:     "hello",
		Comments: []Comment{{ID: NewID(), Text: "hi"}, {ID: NewID(), Text: "yo"}},
	}

	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 0, body["likesCount"])
	assert.EqualValues(t, 2, body["commentsCount"])
	assert.Equal(t, []any{}, body["likes"])
	assert.Equal(t, "hello", body["text"])
}

func TestUser_MarshalJSONHidesPassword(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:        NewID(),
		Username:  "alice",
		Email:     "a@x.com",
		Password:  "$2a$10$hash",
		Followers: []string{NewID(), NewID()},
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$10$hash")

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 2, body["followersCount"])
	assert.EqualValues(t, 0, body["followingCount"])
	assert.Equal(t, []any{}, body["following"])
}

func TestProfile_MarshalJSONFlattensUser(t *testing.T) {
	t.Parallel()

	profile := Profile{
		User:        User{ID: NewID(), Username: "bob", Password: "secret-hash"},
		PostsCount:  3,
		IsFollowing: true,
	}

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "bob", body["username"])
	assert.EqualValues(t, 3, body["postsCount"])
	assert.Equal(t, true, body["isFollowing"])
	assert.EqualValues(t, 0, body["followersCount"])
}

func TestUser_EnsureID(t *testing.T) {
	t.Parallel()

	u := &User{}
	u.EnsureID()
	assert.NotEmpty(t, u.ID)
	assert.NotNil(t, u.Following)
	assert.NotNil(t, u.Followers)

	id := u.ID
	u.EnsureID()
	assert.Equal(t, id, u.ID)
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), NewConflictError("taken"))
	assert.True(t, HasCode(wrapped, CodeConflict))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestAppError_ErrorIncludesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewInternalError(cause)

	assert.Equal(t, "Internal server error: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}
