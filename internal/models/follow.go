package models

import "time"

// Follow is a directed edge from follower to followee. One row backs both
// the follower's following set and the followee's followers set.
type Follow struct {
	FollowerID string    `gorm:"primaryKey;size:36" json:"followerId"`
	FolloweeID string    `gorm:"primaryKey;size:36;index" json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string {
	return "follows"
}
