package models

import (
	"time"
)

// FollowStatus is the lifecycle state of a follow request.
// Transitions are one-way: pending -> accepted or pending -> rejected.
type FollowStatus string

const (
	FollowStatusPending  FollowStatus = "pending"
	FollowStatusAccepted FollowStatus = "accepted"
	FollowStatusRejected FollowStatus = "rejected"
)

// Outstanding reports whether the status blocks a new request for the same pair.
func (s FollowStatus) Outstanding() bool {
	return s == FollowStatusPending || s == FollowStatusAccepted
}

// FollowRequest is a directed edge requester -> requested.
type FollowRequest struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	RequesterID uint         `gorm:"not null;index:idx_follow_requests_pair,priority:1" json:"requester_id"`
	RequestedID uint         `gorm:"not null;index:idx_follow_requests_pair,priority:2;index" json:"requested_id"`
	Status      FollowStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Requester   User         `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	Requested   User         `gorm:"foreignKey:RequestedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

// FriendshipDirection records who follows whom inside a normalized pair.
type FriendshipDirection string

const (
	DirectionLowFollowsHigh FriendshipDirection = "low_follows_high"
	DirectionHighFollowsLow FriendshipDirection = "high_follows_low"
	DirectionMutual         FriendshipDirection = "mutual"
)

// Friendship is stored once per unordered pair with UserLowID < UserHighID.
type Friendship struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	UserLowID  uint                `gorm:"not null;uniqueIndex:idx_friendships_pair,priority:1" json:"user_low_id"`
	UserHighID uint                `gorm:"not null;uniqueIndex:idx_friendships_pair,priority:2;index" json:"user_high_id"`
	Direction  FriendshipDirection `gorm:"type:varchar(20);not null" json:"direction"`
	UserLow    User                `gorm:"foreignKey:UserLowID;constraint:OnDelete:CASCADE" json:"-"`
	UserHigh   User                `gorm:"foreignKey:UserHighID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// FriendshipPair orders two account ids into (low, high).
func FriendshipPair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewFriendship builds the row materialized when follower's request to followee is accepted.
func NewFriendship(followerID, followeeID uint) Friendship {
	low, high := FriendshipPair(followerID, followeeID)
	return Friendship{
		UserLowID:  low,
		UserHighID: high,
		Direction:  directionFor(followerID, followeeID),
	}
}

func directionFor(followerID, followeeID uint) FriendshipDirection {
	if followerID < followeeID {
		return DirectionLowFollowsHigh
	}
	return DirectionHighFollowsLow
}

// AddFollow folds an accepted follower -> followee edge into the friendship.
// It returns true when the direction changed and the row needs saving.
func (f *Friendship) AddFollow(followerID, followeeID uint) bool {
	want := directionFor(followerID, followeeID)
	if f.Direction == DirectionMutual || f.Direction == want {
		return false
	}
	f.Direction = DirectionMutual
	return true
}

// Follows reports whether followerID follows the other member of the pair.
func (f Friendship) Follows(followerID uint) bool {
	switch f.Direction {
	case DirectionMutual:
		return followerID == f.UserLowID || followerID == f.UserHighID
	case DirectionLowFollowsHigh:
		return followerID == f.UserLowID
	case DirectionHighFollowsLow:
		return followerID == f.UserHighID
	}
	return false
}

// Mutual reports whether both members follow each other.
func (f Friendship) Mutual() bool {
	return f.Direction == DirectionMutual
}
