package entity

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Viewer is the authenticated user behind a request, with karma computed for that request.
type Viewer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Karma    int64  `json:"karma"`
}
