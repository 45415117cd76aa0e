package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeremyjsx/postboard/internal/events"
	"github.com/jeremyjsx/postboard/internal/storage"
)

// sideEffectTimeout bounds the event publish and the archive upload that
// follow a successful publish.
const sideEffectTimeout = 5 * time.Second

type Service struct {
	repo              Repository
	publisher         events.Publisher
	archive           storage.Storage
	logger            *slog.Logger
	sideEffectTimeout time.Duration
}

func NewService(repo Repository, publisher events.Publisher, archive storage.Storage, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if archive == nil {
		archive = storage.NoopStorage{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:              repo,
		publisher:         publisher,
		archive:           archive,
		logger:            logger,
		sideEffectTimeout: sideEffectTimeout,
	}
}

func (s *Service) CreatePost(ctx context.Context, title, body string) (*Post, error) {
	return s.repo.Create(ctx, title, body)
}

// PublishPost marks the post as published. It touches only the store;
// AnnouncePublished sends the side effects once the caller is ready.
func (s *Service) PublishPost(ctx context.Context, id int64) (*Post, error) {
	return s.repo.Publish(ctx, id)
}

// AnnouncePublished sends the post.published event and uploads the archive
// snapshot. Both are best effort: failures are logged, never returned. The
// work is detached from ctx cancellation and bounded by its own deadline.
func (s *Service) AnnouncePublished(ctx context.Context, post *Post) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()

	if err := s.publisher.PublishPostPublished(ctx, events.NewPostPublished(post.ID, post.Title)); err != nil {
		s.logger.Warn("publish post event failed", "post_id", post.ID, "error", err)
	}
	if err := s.archivePost(ctx, post); err != nil {
		s.logger.Warn("archive post failed", "post_id", post.ID, "error", err)
	}
}

func (s *Service) SearchPosts(ctx context.Context, substring string) ([]*Post, error) {
	return s.repo.SearchByTitle(ctx, substring)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) archivePost(ctx context.Context, post *Post) error {
	body, err := json.Marshal(Encode(post))
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	if err := s.archive.Upload(ctx, ArchiveKey(post.ID), bytes.NewReader(body), "application/json"); err != nil {
		return fmt.Errorf("upload to s3: %w", err)
	}
	return nil
}

func ArchiveKey(id int64) string {
	return fmt.Sprintf("posts/%d.json", id)
}
