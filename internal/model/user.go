package model

import "time"

// User is an account that authors questionnaires or answers them.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DateJoined   time.Time `json:"date_joined"`
}
