package events

import (
	"time"

	"github.com/google/uuid"
)

const TypePostPublished = "post.published"

type PostPublishedPayload struct {
	PostID int64  `json:"post_id"`
	Title  string `json:"title"`
}

// PostPublished is sent each time a post is published, including repeat
// publishes of the same post. Consumers dedupe on Payload.PostID.
type PostPublished struct {
	ID        uuid.UUID            `json:"id"`
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   PostPublishedPayload `json:"payload"`
}

func NewPostPublished(postID int64, title string) PostPublished {
	return PostPublished{
		ID:        uuid.New(),
		Type:      TypePostPublished,
		Timestamp: time.Now().UTC(),
		Payload: PostPublishedPayload{
			PostID: postID,
			Title:  title,
		},
	}
}
