package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Post is authored content with its engagement. Username is a snapshot of the
// author's name at creation time.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID    string    `gorm:"size:36;not null;index" json:"userId" bson:"userId"`
	Username  string    `gorm:"size:30;not null;index" json:"username" bson:"username"`
	Text      string    `gorm:"type:text" json:"text" bson:"text"`
	Image     string    `gorm:"size:2048" json:"image" bson:"image"`
	Likes     []Like    `gorm:"foreignKey:PostID" json:"likes" bson:"likes"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments" bson:"comments"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
}

// Like records that a user liked a post. The composite key allows one like
// per user per post.
type Like struct {
	PostID    string    `gorm:"primaryKey;size:36" json:"-" bson:"-"`
	UserID    string    `gorm:"primaryKey;size:36" json:"userId" bson:"userId"`
	Username  string    `gorm:"size:30;not null" json:"username" bson:"username"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Comment is appended to a post and never edited.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	PostID    string    `gorm:"size:36;not null;index" json:"-" bson:"-"`
	UserID    string    `gorm:"size:36;not null" json:"userId" bson:"userId"`
	Username  string    `gorm:"size:30;not null" json:"username" bson:"username"`
	Text      string    `gorm:"type:text;not null" json:"text" bson:"text"`
	CreatedAt time.Time `gorm:"index" json:"createdAt" bson:"createdAt"`
}

// BeforeCreate assigns an identifier when the caller did not.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// BeforeCreate assigns an identifier when the caller did not.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// LikedBy reports whether userID has a like on the post.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if SameID(l.UserID, userID) {
			return true
		}
	}
	return false
}

// LikesCount is derived from the likes collection.
func (p *Post) LikesCount() int {
	return len(p.Likes)
}

// CommentsCount is derived from the comments collection.
func (p *Post) CommentsCount() int {
	return len(p.Comments)
}

// MarshalJSON adds the derived counts and renders empty collections as arrays.
func (p Post) MarshalJSON() ([]byte, error) {
	type postView Post
	view := postView(p)
	if view.Likes == nil {
		view.Likes = []Like{}
	}
	if view.Comments == nil {
		view.Comments = []Comment{}
	}
	return json.Marshal(struct {
		postView
		LikesCount    int `json:"likesCount"`
		CommentsCount int `json:"commentsCount"`
	}{
		postView:      view,
		LikesCount:    len(view.Likes),
		CommentsCount: len(view.Comments),
	})
}
