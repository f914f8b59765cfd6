package cache

import (
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%s"
	FeedKeyPrefix    = "posts:feed:%d"
	RevokedKeyPrefix = "revoked:%s"
)

const (
	UserTTL = 5 * time.Minute
	FeedTTL = 30 * time.Second
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FeedKey(limit int) string {
	return fmt.Sprintf(FeedKeyPrefix, limit)
}

func RevokedKey(jti string) string {
	return fmt.Sprintf(RevokedKeyPrefix, jti)
}
