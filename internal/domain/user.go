package domain

import (
	"time"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

type User struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Plan          Plan      `json:"plan"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}

// UserRef is the submitter/assignee shape the client consumes. The _id field
// name is part of the wire contract.
type UserRef struct {
	ID    int64  `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ScheduleEmployee is a person attached to one schedule's roster. The e-mail
// may belong to a user that has not registered yet.
type ScheduleEmployee struct {
	ID         int64     `json:"id"`
	ScheduleID int64     `json:"scheduleId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}
