package seed

import (
	"context"
	"fmt"
	"log/slog"

	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/repository"
)

// Result counts what a seeding run wrote.
type Result struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
	Follows  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d users, %d posts, %d likes, %d comments, %d follows",
		r.Users, r.Posts, r.Likes, r.Comments, r.Follows)
}

// Seed populates store with random users, posts, engagement and follow edges.
func Seed(ctx context.Context, store *repository.Store, opts Options) (*Result, error) {
	f := NewFactory(store, opts)
	opts = f.opts
	middleware.Logger.Info("seeding store",
		slog.Int("users", opts.NumUsers),
		slog.Int("posts", opts.NumPosts),
		slog.Bool("dry_run", opts.DryRun))

	res := &Result{}
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
		res.Users++
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(ctx, author)
		if err != nil {
			return res, fmt.Errorf("create post: %w", err)
		}
		res.Posts++

		for _, idx := range pick(f, len(users), opts.MaxLikesPerPost) {
			added, err := f.Like(ctx, post, users[idx])
			if err != nil {
				return res, fmt.Errorf("like post: %w", err)
			}
			if added {
				res.Likes++
			}
		}

		if opts.MaxCommentsPerPost > 0 {
			for n := f.rng.Intn(opts.MaxCommentsPerPost + 1); n > 0; n-- {
				commenter := users[f.rng.Intn(len(users))]
				if _, err := f.Comment(ctx, post, commenter, ""); err != nil {
					return res, fmt.Errorf("comment on post: %w", err)
				}
				res.Comments++
			}
		}
	}

	if len(users) > 1 {
		for i, follower := range users {
			for _, idx := range pick(f, len(users), opts.MaxFollowsPerUser) {
				if idx == i {
					continue
				}
				if err := f.Follow(ctx, follower, users[idx]); err != nil {
					return res, fmt.Errorf("follow: %w", err)
				}
				res.Follows++
			}
		}
	}

	middleware.Logger.Info("seeding complete", slog.String("result", res.String()))
	return res, nil
}

// pick returns up to limit distinct indexes below n, chosen at random.
func pick(f *Factory, n, limit int) []int {
	if n == 0 || limit <= 0 {
		return nil
	}
	k := f.rng.Intn(limit + 1)
	if k > n {
		k = n
	}
	return f.rng.Perm(n)[:k]
}
