package posts

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

var sqlite = dialect{
	name:   "sqlite",
	driver: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			published BOOLEAN NOT NULL DEFAULT 0
		)
	`,
	insertPost: `
		INSERT INTO posts (title, body, published)
		VALUES (?, ?, 0)
		RETURNING id, title, body, published
	`,
	publishPost: `
		UPDATE posts
		SET published = 1
		WHERE id = ?
		RETURNING id, title, body, published
	`,
	searchByTitle: `
		SELECT id, title, body, published
		FROM posts
		WHERE published = 1 AND instr(title, ?) > 0
		ORDER BY id
	`,
}

func NewSQLiteRepository(sqlDB *sql.DB) Repository {
	return &sqlRepository{db: sqlDB, d: sqlite}
}
