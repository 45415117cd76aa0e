package posts

import "context"

type Repository interface {
	Create(ctx context.Context, title, body string) (*Post, error)
	Publish(ctx context.Context, id int64) (*Post, error)
	SearchByTitle(ctx context.Context, substring string) ([]*Post, error)
	Ping(ctx context.Context) error
}
