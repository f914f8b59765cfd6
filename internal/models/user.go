// Package models defines the domain types shared by the stores, services and HTTP layer.
package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// User is a registered account. Following and Followers are materialized
// from the follow edges on read; the document store persists them inline.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Username       string    `gorm:"uniqueIndex;size:30;not null" json:"username" bson:"username"`
	Email          string    `gorm:"uniqueIndex;size:254;not null" json:"email" bson:"email"`
	Password       string    `gorm:"not null" json:"-" bson:"password"`
	FullName       string    `gorm:"size:50" json:"fullName" bson:"fullName"`
	Bio            string    `gorm:"size:160" json:"bio" bson:"bio"`
	ProfilePicture string    `gorm:"size:2048" json:"profilePicture" bson:"profilePicture"`
	Following      []string  `gorm:"-" json:"following" bson:"following"`
	Followers      []string  `gorm:"-" json:"followers" bson:"followers"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate assigns an identifier when the caller did not.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	u.EnsureID()
	return nil
}

// EnsureID assigns an identifier and empty follow sets to a new user.
func (u *User) EnsureID() {
	if u.ID == "" {
		u.ID = NewID()
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	if u.Followers == nil {
		u.Followers = []string{}
	}
}

// IsFollowing reports whether the user follows the given user id.
func (u *User) IsFollowing(userID string) bool {
	return ContainsID(u.Following, userID)
}

// IsFollowedBy reports whether the given user id follows this user.
func (u *User) IsFollowedBy(userID string) bool {
	return ContainsID(u.Followers, userID)
}

type publicUser User

type userView struct {
	publicUser
	FollowersCount int `json:"followersCount"`
	FollowingCount int `json:"followingCount"`
}

func (u User) view() userView {
	v := publicUser(u)
	if v.Following == nil {
		v.Following = []string{}
	}
	if v.Followers == nil {
		v.Followers = []string{}
	}
	return userView{
		publicUser:     v,
		FollowersCount: len(v.Followers),
		FollowingCount: len(v.Following),
	}
}

// MarshalJSON renders the public view: follow sets as arrays plus their sizes.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.view())
}

// Profile is a user as seen on their profile page by a possibly anonymous viewer.
type Profile struct {
	User        User
	PostsCount  int64
	IsFollowing bool
}

// MarshalJSON flattens the user view and adds the viewer-specific fields.
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		userView
		PostsCount  int64 `json:"postsCount"`
		IsFollowing bool  `json:"isFollowing"`
	}{
		userView:    p.User.view(),
		PostsCount:  p.PostsCount,
		IsFollowing: p.IsFollowing,
	})
}
