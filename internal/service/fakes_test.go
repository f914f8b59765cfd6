package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialapp/internal/models"
	"socialapp/internal/repository"
)

// memStore is an in-memory implementation of the three repositories that
// keeps follow sets on both users, like the document store does.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	posts map[string]*models.Post
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		posts: map[string]*models.Post{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Following = append([]string{}, u.Following...)
	cp.Followers = append([]string{}, u.Followers...)
	return &cp
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]models.Like{}, p.Likes...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	return &cp
}

// repository.UserRepository

type memUsers struct{ *memStore }

func (m memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[models.CanonicalID(id)]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return cloneUser(u), nil
}

func (m memUsers) find(match func(*models.User) bool) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (m memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username }), nil
}

func (m memUsers) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[models.CanonicalID(id)]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser()
		}
	}
	user.EnsureID()
	user.CreatedAt = m.tick()
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return models.NewNotFoundError("User", user.ID)
	}
	u.FullName, u.Bio, u.ProfilePicture = user.FullName, user.Bio, user.ProfilePicture
	return nil
}

// repository.FollowRepository

type memFollows struct{ *memStore }

func (m memFollows) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[models.CanonicalID(followerID)]
	return ok && u.IsFollowing(followeeID), nil
}

func (m memFollows) pair(followerID, followeeID string) (*models.User, *models.User, error) {
	a, okA := m.users[models.CanonicalID(followerID)]
	b, okB := m.users[models.CanonicalID(followeeID)]
	if !okA || !okB {
		return nil, nil, models.NewUserNotFoundError()
	}
	return a, b, nil
}

func (m memFollows) Follow(_ context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, b, err := m.pair(followerID, followeeID)
	if err != nil {
		return err
	}
	if !a.IsFollowing(b.ID) {
		a.Following = append(a.Following, b.ID)
	}
	if !b.IsFollowedBy(a.ID) {
		b.Followers = append(b.Followers, a.ID)
	}
	return nil
}

func (m memFollows) Unfollow(_ context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, b, err := m.pair(followerID, followeeID)
	if err != nil {
		return err
	}
	a.Following = without(a.Following, b.ID)
	b.Followers = without(b.Followers, a.ID)
	return nil
}

func (m memFollows) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[models.CanonicalID(userID)]; ok {
		return append([]string{}, u.Followers...), nil
	}
	return nil, models.NewUserNotFoundError()
}

func (m memFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[models.CanonicalID(userID)]; ok {
		return append([]string{}, u.Following...), nil
	}
	return nil, models.NewUserNotFoundError()
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if !models.SameID(v, id) {
			out = append(out, v)
		}
	}
	return out
}

// repository.PostRepository

type memPosts struct{ *memStore }

func (m memPosts) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID == "" {
		post.ID = models.NewID()
	}
	post.CreatedAt = m.tick()
	post.Likes = []models.Like{}
	post.Comments = []models.Comment{}
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[models.CanonicalID(id)]
	if !ok {
		return nil, models.NewResourceNotFoundError("Post")
	}
	return clonePost(p), nil
}

func (m memPosts) sorted(match func(*models.Post) bool, limit int) []*models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Post{}
	for _, p := range m.posts {
		if match(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m memPosts) List(_ context.Context, limit int) ([]*models.Post, error) {
	return m.sorted(func(*models.Post) bool { return true }, limit), nil
}

func (m memPosts) ListByUsername(_ context.Context, username string, limit int) ([]*models.Post, error) {
	return m.sorted(func(p *models.Post) bool { return p.Username == username }, limit), nil
}

func (m memPosts) CountByUsername(_ context.Context, username string) (int64, error) {
	return int64(len(m.sorted(func(p *models.Post) bool { return p.Username == username }, 1<<30))), nil
}

func (m memPosts) AddLike(_ context.Context, postID string, like models.Like) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[models.CanonicalID(postID)]
	if !ok {
		return false, models.NewResourceNotFoundError("Post")
	}
	if p.LikedBy(like.UserID) {
		return false, nil
	}
	like.CreatedAt = m.tick()
	p.Likes = append(p.Likes, like)
	return true, nil
}

func (m memPosts) RemoveLike(_ context.Context, postID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[models.CanonicalID(postID)]
	if !ok {
		return false, models.NewResourceNotFoundError("Post")
	}
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if !models.SameID(l.UserID, userID) {
			kept = append(kept, l)
		}
	}
	removed := len(kept) != len(p.Likes)
	p.Likes = kept
	return removed, nil
}

func (m memPosts) AddComment(_ context.Context, postID string, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[models.CanonicalID(postID)]
	if !ok {
		return models.NewResourceNotFoundError("Post")
	}
	comment.ID = models.NewID()
	comment.PostID = p.ID
	comment.CreatedAt = m.tick()
	p.Comments = append(p.Comments, *comment)
	return nil
}
