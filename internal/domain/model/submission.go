package model

import "time"

type Submission struct {
	ID               string    `json:"id"`
	ContestID        string    `json:"contestId"`
	UserID           string    `json:"userId"`
	ParticipantEmail string    `json:"participantEmail"`
	ParticipantName  string    `json:"participantName"`
	TaskURL          string    `json:"taskUrl"`
	Date             time.Time `json:"date"`
}
