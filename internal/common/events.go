package common

import "time"

// NewPostEvent is the payload published on PostCreatedKey.
type NewPostEvent struct {
	EventID    string      `json:"event_id"`
	Author     EventAuthor `json:"author"`
	Post       EventPost   `json:"post"`
	Recipients []string    `json:"recipients"`
}

type EventAuthor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type EventPost struct {
	ID        int       `json:"id"`
	BlogID    int       `json:"blog_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
