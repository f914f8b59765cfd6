package mongostore

import (
	"context"
	"testing"

	"socialapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// These run against the driver's mock deployment, so they need no server.
// They pin down the update documents the repositories send.

func updateReply(matched, modified int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: modified},
	)
}

func TestPostRepository_LikeUpdates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("like is a guarded push", func(mt *mtest.T) {
		store := New(mt.Client, mt.DB)
		mt.AddMockResponses(updateReply(1, 1))

		added, err := store.Posts.AddLike(context.Background(), "Post-1", models.Like{UserID: "User-1", Username: "alice"})
		require.NoError(mt, err)
		assert.True(mt, added)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, postsCollection, evt.Command.Lookup("update").StringValue())
		assert.Equal(mt, "post-1", evt.Command.Lookup("updates", "0", "q", "_id").StringValue())
		assert.Equal(mt, "user-1", evt.Command.Lookup("updates", "0", "q", "likes.userId", "$ne").StringValue())
		assert.Equal(mt, "user-1", evt.Command.Lookup("updates", "0", "u", "$push", "likes", "userId").StringValue())
		assert.Equal(mt, "alice", evt.Command.Lookup("updates", "0", "u", "$push", "likes", "username").StringValue())
	})

	mt.Run("repeat like modifies nothing", func(mt *mtest.T) {
		store := New(mt.Client, mt.DB)
		mt.AddMockResponses(updateReply(0, 0))

		added, err := store.Posts.AddLike(context.Background(), "post-1", models.Like{UserID: "user-1", Username: "alice"})
		require.NoError(mt, err)
		assert.False(mt, added)
	})

	mt.Run("unlike pulls the user's entry", func(mt *mtest.T) {
		store := New(mt.Client, mt.DB)
		mt.AddMockResponses(updateReply(1, 1))

		removed, err := store.Posts.RemoveLike(context.Background(), "post-1", "USER-1")
		require.NoError(mt, err)
		assert.True(mt, removed)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "post-1", evt.Command.Lookup("updates", "0", "q", "_id").StringValue())
		assert.Equal(mt, "user-1", evt.Command.Lookup("updates", "0", "u", "$pull", "likes", "userId").StringValue())
	})

	mt.Run("driver failure is internal", func(mt *mtest.T) {
		store := New(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := store.Posts.AddLike(context.Background(), "post-1", models.Like{UserID: "user-1"})
		require.Error(mt, err)
		assert.True(mt, models.HasCode(err, models.CodeInternal))
	})
}

func TestFollowRepository_TransactionUpdates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	tests := []struct {
		name string
		op   string
		run  func(ctx context.Context, r *followRepository) error
	}{
		{"follow", "$addToSet", func(ctx context.Context, r *followRepository) error { return r.Follow(ctx, "alice-id", "bob-id") }},
		{"unfollow", "$pull", func(ctx context.Context, r *followRepository) error { return r.Unfollow(ctx, "alice-id", "bob-id") }},
	}

	for _, tt := range tests {
		mt.Run(tt.name+" updates both users then commits", func(mt *mtest.T) {
			repo := &followRepository{client: mt.Client, users: mt.DB.Collection(usersCollection)}
			mt.AddMockResponses(updateReply(1, 1), updateReply(1, 1), mtest.CreateSuccessResponse())

			require.NoError(mt, tt.run(context.Background(), repo))

			first := mt.GetStartedEvent()
			require.NotNil(mt, first)
			assert.Equal(mt, "update", first.CommandName)
			assert.True(mt, first.Command.Lookup("startTransaction").Boolean())
			assert.Equal(mt, "alice-id", first.Command.Lookup("updates", "0", "q", "_id").StringValue())
			assert.Equal(mt, "bob-id", first.Command.Lookup("updates", "0", "u", tt.op, "following").StringValue())

			second := mt.GetStartedEvent()
			require.NotNil(mt, second)
			assert.Equal(mt, "update", second.CommandName)
			assert.Equal(mt, "bob-id", second.Command.Lookup("updates", "0", "q", "_id").StringValue())
			assert.Equal(mt, "alice-id", second.Command.Lookup("updates", "0", "u", tt.op, "followers").StringValue())
			assert.Equal(mt,
				first.Command.Lookup("txnNumber").Int64(),
				second.Command.Lookup("txnNumber").Int64())

			commit := mt.GetStartedEvent()
			require.NotNil(mt, commit)
			assert.Equal(mt, "commitTransaction", commit.CommandName)
		})
	}

	mt.Run("missing follower aborts", func(mt *mtest.T) {
		repo := &followRepository{client: mt.Client, users: mt.DB.Collection(usersCollection)}
		mt.AddMockResponses(updateReply(0, 0), mtest.CreateSuccessResponse())

		err := repo.Follow(context.Background(), "ghost-id", "bob-id")
		require.Error(mt, err)
		assert.True(mt, models.HasCode(err, models.CodeNotFound))

		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
		abort := mt.GetStartedEvent()
		require.NotNil(mt, abort)
		assert.Equal(mt, "abortTransaction", abort.CommandName)
	})

	mt.Run("missing followee aborts after the first write", func(mt *mtest.T) {
		repo := &followRepository{client: mt.Client, users: mt.DB.Collection(usersCollection)}
		mt.AddMockResponses(updateReply(1, 1), updateReply(0, 0), mtest.CreateSuccessResponse())

		err := repo.Follow(context.Background(), "alice-id", "ghost-id")
		require.Error(mt, err)
		assert.True(mt, models.HasCode(err, models.CodeNotFound))

		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
		abort := mt.GetStartedEvent()
		require.NotNil(mt, abort)
		assert.Equal(mt, "abortTransaction", abort.CommandName)
	})
}
