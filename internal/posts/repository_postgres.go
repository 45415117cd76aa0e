package posts

import (
	"database/sql"

	_ "github.com/lib/pq"
)

var _ Repository = (*sqlRepository)(nil)

var postgres = dialect{
	name:   "postgres",
	driver: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR NOT NULL,
			body TEXT NOT NULL,
			published BOOLEAN NOT NULL DEFAULT FALSE
		)
	`,
	insertPost: `
		INSERT INTO posts (title, body, published)
		VALUES ($1, $2, FALSE)
		RETURNING id, title, body, published
	`,
	publishPost: `
		UPDATE posts
		SET published = TRUE
		WHERE id = $1
		RETURNING id, title, body, published
	`,
	// strpos keeps the match literal: % and _ in the needle are not wildcards.
	searchByTitle: `
		SELECT id, title, body, published
		FROM posts
		WHERE published = TRUE AND strpos(title, $1) > 0
		ORDER BY id
	`,
}

func NewPostgresRepository(sqlDB *sql.DB) Repository {
	return &sqlRepository{db: sqlDB, d: postgres}
}
