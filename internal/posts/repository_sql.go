package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// dialect holds the statements that differ between stores. Every statement
// that returns rows selects id, title, body, published in that order.
type dialect struct {
	name          string
	driver        string
	schema        string
	insertPost    string
	publishPost   string
	searchByTitle string
}

type sqlRepository struct {
	db *sql.DB
	d  dialect
}

func (r *sqlRepository) Create(ctx context.Context, title, body string) (*Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, r.d.insertPost, title, body))
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (r *sqlRepository) Publish(ctx context.Context, id int64) (*Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, r.d.publishPost, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("publish post %d: %w", id, err)
	}
	return post, nil
}

func (r *sqlRepository) SearchByTitle(ctx context.Context, substring string) ([]*Post, error) {
	rows, err := r.db.QueryContext(ctx, r.d.searchByTitle, substring)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	list := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		list = append(list, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}
	return list, nil
}

func (r *sqlRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published); err != nil {
		return nil, err
	}
	return &p, nil
}
