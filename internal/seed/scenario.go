package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"socialapp/internal/models"
	"socialapp/internal/validation"

	"gopkg.in/yaml.v3"
)

// Scenario is a hand-written data set: named users, their posts with
// engagement, and follow edges. Posts are created oldest first in file order.
type Scenario struct {
	Name    string           `yaml:"name"`
	Users   []ScenarioUser   `yaml:"users"`
	Posts   []ScenarioPost   `yaml:"posts"`
	Follows []ScenarioFollow `yaml:"follows"`
}

type ScenarioUser struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	FullName       string `yaml:"fullName"`
	Bio            string `yaml:"bio"`
	ProfilePicture string `yaml:"profilePicture"`
}

type ScenarioPost struct {
	Author   string            `yaml:"author"`
	Text     string            `yaml:"text"`
	Image    string            `yaml:"image"`
	LikedBy  []string          `yaml:"likedBy"`
	Comments []ScenarioComment `yaml:"comments"`
}

type ScenarioComment struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

type ScenarioFollow struct {
	Follower string `yaml:"follower"`
	Followee string `yaml:"followee"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML strictly; unknown keys are errors.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks field rules and that every reference names a listed user.
func (s *Scenario) Validate() error {
	var errs []error
	known := make(map[string]bool, len(s.Users))
	emails := make(map[string]bool, len(s.Users))

	for i, u := range s.Users {
		if err := validation.ValidateUsername(u.Username); err != nil {
			errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
		}
		email := u.Email
		if email == "" {
			email = u.Username + "@example.com"
		}
		if err := validation.ValidateEmail(email); err != nil {
			errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
		}
		if u.Password != "" {
			if err := validation.ValidatePassword(u.Password); err != nil {
				errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
			}
		}
		if known[u.Username] {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate username %q", i, u.Username))
		}
		if emails[email] {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate email %q", i, email))
		}
		known[u.Username] = true
		emails[email] = true
	}

	ref := func(where, name string) {
		if !known[name] {
			errs = append(errs, fmt.Errorf("%s: unknown user %q", where, name))
		}
	}

	for i, p := range s.Posts {
		where := fmt.Sprintf("posts[%d]", i)
		ref(where, p.Author)
		if strings.TrimSpace(p.Text) == "" && strings.TrimSpace(p.Image) == "" {
			errs = append(errs, fmt.Errorf("%s: text or image is required", where))
		}
		for _, name := range p.LikedBy {
			ref(where+".likedBy", name)
		}
		for j, c := range p.Comments {
			ref(fmt.Sprintf("%s.comments[%d]", where, j), c.Author)
			if strings.TrimSpace(c.Text) == "" {
				errs = append(errs, fmt.Errorf("%s.comments[%d]: text is required", where, j))
			}
		}
	}

	for i, fl := range s.Follows {
		where := fmt.Sprintf("follows[%d]", i)
		ref(where, fl.Follower)
		ref(where, fl.Followee)
		if fl.Follower == fl.Followee {
			errs = append(errs, fmt.Errorf("%s: %q cannot follow themselves", where, fl.Follower))
		}
	}

	return errors.Join(errs...)
}

// ApplyScenario writes sc through the factory's store. Users that already
// exist are reused, so a scenario can be applied to a seeded store.
func (f *Factory) ApplyScenario(ctx context.Context, sc *Scenario) (*Result, error) {
	res := &Result{}
	users := make(map[string]*models.User, len(sc.Users))

	for _, su := range sc.Users {
		user, err := f.scenarioUser(ctx, su)
		if err != nil {
			return res, fmt.Errorf("user %q: %w", su.Username, err)
		}
		users[su.Username] = user
		res.Users++
	}

	start := time.Now().UTC().Add(-time.Duration(len(sc.Posts)) * time.Minute)
	for i, sp := range sc.Posts {
		createdAt := start.Add(time.Duration(i) * time.Minute)
		post, err := f.CreatePost(ctx, users[sp.Author], func(p *models.Post) {
			p.Text = strings.TrimSpace(sp.Text)
			p.Image = strings.TrimSpace(sp.Image)
			p.CreatedAt = createdAt
		})
		if err != nil {
			return res, fmt.Errorf("post %d: %w", i, err)
		}
		res.Posts++

		for _, name := range sp.LikedBy {
			added, err := f.Like(ctx, post, users[name])
			if err != nil {
				return res, fmt.Errorf("post %d like by %q: %w", i, name, err)
			}
			if added {
				res.Likes++
			}
		}
		for _, cm := range sp.Comments {
			if _, err := f.Comment(ctx, post, users[cm.Author], strings.TrimSpace(cm.Text)); err != nil {
				return res, fmt.Errorf("post %d comment by %q: %w", i, cm.Author, err)
			}
			res.Comments++
		}
	}

	for _, fl := range sc.Follows {
		if err := f.Follow(ctx, users[fl.Follower], users[fl.Followee]); err != nil {
			return res, fmt.Errorf("follow %s -> %s: %w", fl.Follower, fl.Followee, err)
		}
		res.Follows++
	}
	return res, nil
}

func (f *Factory) scenarioUser(ctx context.Context, su ScenarioUser) (*models.User, error) {
	hash, err := f.hash(su.Password)
	if err != nil {
		return nil, err
	}
	email := su.Email
	if email == "" {
		email = su.Username + "@example.com"
	}
	picture := su.ProfilePicture
	if picture == "" {
		picture = "https://i.pravatar.cc/150?u=" + su.Username
	}

	user, err := f.CreateUser(ctx, func(u *models.User) {
		u.Username = su.Username
		u.Email = email
		u.Password = hash
		u.FullName = su.FullName
		u.Bio = su.Bio
		u.ProfilePicture = picture
	})
	if models.HasCode(err, models.CodeConflict) {
		existing, lookupErr := f.store.Users.GetByUsername(ctx, su.Username)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	return user, err
}
