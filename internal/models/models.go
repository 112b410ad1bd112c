// Package models defines the data structures used across the application.
// Each collection on disk is a JSON array of one of these record types.
package models

import "time"

// Role is the closed set of account roles. There is no hierarchy between
// them; every privileged operation checks the exact role it requires.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Status is the lifecycle state of a complaint. Transitions are
// staff-discretionary: any status may be set from any other.
type Status string

const (
	StatusOpen      Status = "open"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusWorking, StatusCompleted:
		return true
	}
	return false
}

// User is a registered account. ID is unique and immutable; Phone is the
// login key and is unique across the collection. PasswordHash is a bcrypt
// hash — plaintext passwords are never stored.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash,omitempty"`
	Role         Role   `json:"role"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	Ward         string `json:"ward"`
}

// Redacted returns a copy of the user safe for API responses.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// Complaint is a citizen-submitted grievance. Invariant:
// Upvotes == len(UpvotedBy) at all times, and UpvotedBy holds each
// user id at most once.
type Complaint struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     int       `json:"author_id"`
	AuthorPhone  string    `json:"author_phone"`
	Municipality string    `json:"municipality"`
	Ward         string    `json:"ward"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Upvotes      int       `json:"upvotes"`
	UpvotedBy    []int     `json:"upvoted_by"`
	ImageURL     string    `json:"image_url,omitempty"`
}

// HasVoter reports whether userID is in the upvoted-by set.
func (c *Complaint) HasVoter(userID int) bool {
	for _, id := range c.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Activity is one staff-authored entry in a municipality's public feed.
// ComplaintID is nil for free-form posts not tied to a complaint.
type Activity struct {
	ComplaintID *int      `json:"complaint_id"`
	Title       string    `json:"title"`
	Action      string    `json:"action"`
	Statement   string    `json:"statement,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	By          int       `json:"by"`
	ImageURL    string    `json:"action_image,omitempty"`
}

// Municipality is one municipality record with its append-only activity
// feed. The Municipality name is the lookup key, compared case-insensitively.
type Municipality struct {
	Municipality string     `json:"municipality"`
	City         string     `json:"city"`
	Activities   []Activity `json:"activities"`
}

// FeedActivity is an activity tagged with the municipality it belongs to,
// used for the flattened cross-municipality feed.
type FeedActivity struct {
	Activity
	Municipality string `json:"municipality"`
}

// MunicipalityScore is a derived leaderboard entry. Scores are computed by
// folding over the activity feed and are never persisted.
type MunicipalityScore struct {
	Municipality string `json:"municipality"`
	City         string `json:"city"`
	Score        int    `json:"score"`
}

// RegisterRequest is the request body for creating an account. ID may be
// zero, in which case the store assigns the next available id.
type RegisterRequest struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         Role   `json:"role"`
	City         string `json:"city"`
	Municipality string `json:"municipality"`
	Ward         string `json:"ward"`
}

// LoginRequest is the request body for authenticating.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Storage string `json:"storage,omitempty"`
	Redis   string `json:"redis,omitempty"`
}
