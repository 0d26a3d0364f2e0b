package models

import "time"

// FollowEdge is a directed follow relationship: follower → followee.
// The composite unique index on (follower_id, followee_id) is the final
// arbiter against duplicate edges; two racing follow requests can both
// pass the service pre-check, only one insert survives.
type FollowEdge struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followee"`
	FolloweeID uint      `json:"followee_id" gorm:"index;uniqueIndex:idx_follower_followee"`
	Follower   *User     `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Followee   *User     `json:"followee,omitempty" gorm:"foreignKey:FolloweeID"`
	CreatedAt  time.Time `json:"created_at"`
}
