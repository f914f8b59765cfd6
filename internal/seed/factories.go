// Package seed creates demo data through the repository layer. It works
// against any configured store and is meant for development and tests only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"socialapp/internal/models"
	"socialapp/internal/repository"
	"socialapp/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Options configures the random seeder and the factory behind it.
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxLikesPerPost    int
	MaxCommentsPerPost int
	MaxFollowsPerUser  int
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays  int
	Password string
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
	// RandSeed makes runs reproducible; zero seeds from the clock.
	RandSeed int64
	// DryRun builds entities without writing them.
	DryRun bool
}

func (o Options) withDefaults() Options {
	if o.NumUsers <= 0 {
		o.NumUsers = 10
	}
	if o.NumPosts < 0 {
		o.NumPosts = 0
	}
	if o.MaxDays <= 0 {
		o.MaxDays = 30
	}
	if o.Password == "" {
		o.Password = "password123"
	}
	if o.HashCost == 0 {
		o.HashCost = bcrypt.DefaultCost
	}
	if o.RandSeed == 0 {
		o.RandSeed = time.Now().UnixNano()
	}
	return o
}

// Factory builds domain entities and persists them through a Store.
type Factory struct {
	store *repository.Store
	opts  Options
	faker *gofakeit.Faker
	rng   *rand.Rand

	seq          int
	passwordHash string
}

// NewFactory creates a Factory bound to store. store may be nil in DryRun mode.
func NewFactory(store *repository.Store, opts Options) *Factory {
	opts = opts.withDefaults()
	return &Factory{
		store: store,
		opts:  opts,
		faker: gofakeit.New(opts.RandSeed),
		//nolint:gosec // weak randomness is fine for demo data
		rng: rand.New(rand.NewSource(opts.RandSeed)),
	}
}

func (f *Factory) hash(password string) (string, error) {
	if password == "" || password == f.opts.Password {
		if f.passwordHash == "" {
			h, err := bcrypt.GenerateFromPassword([]byte(f.opts.Password), f.opts.HashCost)
			if err != nil {
				return "", err
			}
			f.passwordHash = string(h)
		}
		return f.passwordHash, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), f.opts.HashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// BuildUser constructs a user with fake profile data without persisting it.
// The password is the hash of Options.Password.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := fmt.Sprintf("%s%d", sanitizeUsername(f.faker.Username()), f.seq)

	hash, err := f.hash("")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Password:       hash,
		FullName:       clip(f.faker.Name(), validation.MaxFullNameLen),
		Bio:            clip(f.faker.Sentence(8), validation.MaxBioLen),
		ProfilePicture: "https://i.pravatar.cc/150?u=" + username,
	}
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}
	if f.opts.DryRun {
		user.EnsureID()
		return user, nil
	}
	if err := f.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post by author with a timestamp spread over the
// last MaxDays days. About 40% of posts carry an image.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:   author.ID,
		Username: author.Username,
		Text:     clip(f.faker.Sentence(6+f.rng.Intn(15)), validation.MaxPostTextLen),
	}
	if f.rng.Float32() < 0.4 {
		post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	back := time.Duration(f.rng.Intn(f.opts.MaxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = time.Now().UTC().Add(-back)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if f.opts.DryRun {
		post.ID = models.NewID()
		return post, nil
	}
	if err := f.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Like adds user's like to post. It reports false when the like already existed.
func (f *Factory) Like(ctx context.Context, post *models.Post, user *models.User) (bool, error) {
	if f.opts.DryRun {
		return true, nil
	}
	return f.store.Posts.AddLike(ctx, post.ID, models.Like{UserID: user.ID, Username: user.Username})
}

// Comment appends a comment by user to post. Empty text is replaced with a fake sentence.
func (f *Factory) Comment(ctx context.Context, post *models.Post, user *models.User, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		text = f.faker.Sentence(3 + f.rng.Intn(8))
	}
	comment := &models.Comment{
		UserID:   user.ID,
		Username: user.Username,
		Text:     clip(text, validation.MaxCommentTextLen),
	}
	if f.opts.DryRun {
		comment.ID = models.NewID()
		return comment, nil
	}
	if err := f.store.Posts.AddComment(ctx, post.ID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow makes follower follow followee.
func (f *Factory) Follow(ctx context.Context, follower, followee *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	return f.store.Follows.Follow(ctx, follower.ID, followee.ID)
}

// sanitizeUsername reduces a generated name to the username alphabet and
// leaves room for a numeric suffix.
func sanitizeUsername(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	out := strings.TrimLeft(sb.String(), "_0123456789")
	if len(out) > 20 {
		out = out[:20]
	}
	if len(out) < validation.MinUsernameLen {
		out = "user" + out
	}
	return out
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
