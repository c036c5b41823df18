package model

import "time"

type ContestStatus string

const (
	ContestStatusPending  ContestStatus = "pending"
	ContestStatusApproved ContestStatus = "approved"
)

// CreatorSnapshot is denormalized onto the contest at creation time so
// listings don't need a join against users.
type CreatorSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

type Contest struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	Image              string          `json:"image"`
	Description        string          `json:"description"`
	Price              float64         `json:"price"`
	Prize              string          `json:"prize"`
	TaskInstruction    string          `json:"taskInstruction"`
	Type               string          `json:"type"`
	Tags               []string        `json:"tags"`
	Deadline           time.Time       `json:"deadline"`
	Creator            CreatorSnapshot `json:"creator"`
	Status             ContestStatus   `json:"status"`
	ParticipationCount int             `json:"participationCount"`
	WinnerID           *string         `json:"winner,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
