package posts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jeremyjsx/postboard/internal/events"
)

type mockRepo struct {
	create        func(ctx context.Context, title, body string) (*Post, error)
	publish       func(ctx context.Context, id int64) (*Post, error)
	searchByTitle func(ctx context.Context, substring string) ([]*Post, error)
	ping          func(ctx context.Context) error
}

func (m *mockRepo) Create(ctx context.Context, title, body string) (*Post, error) {
	if m.create != nil {
		return m.create(ctx, title, body)
	}
	return nil, nil
}

func (m *mockRepo) Publish(ctx context.Context, id int64) (*Post, error) {
	if m.publish != nil {
		return m.publish(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *mockRepo) SearchByTitle(ctx context.Context, substring string) ([]*Post, error) {
	if m.searchByTitle != nil {
		return m.searchByTitle(ctx, substring)
	}
	return []*Post{}, nil
}

func (m *mockRepo) Ping(ctx context.Context) error {
	if m.ping != nil {
		return m.ping(ctx)
	}
	return nil
}

type mockPublisher struct {
	published []events.PostPublished
	err       error
}

func (m *mockPublisher) PublishPostPublished(_ context.Context, e events.PostPublished) error {
	m.published = append(m.published, e)
	return m.err
}

type mockStorage struct {
	upload func(ctx context.Context, key string, body io.Reader, contentType string) error
	exists func(ctx context.Context, key string) (bool, error)
}

func (m *mockStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.upload != nil {
		return m.upload(ctx, key, body, contentType)
	}
	return nil
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.exists != nil {
		return m.exists(ctx, key)
	}
	return false, nil
}

func TestService_CreatePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		want := &Post{ID: 1, Title: "Hi", Body: "there"}
		repo := &mockRepo{
			create: func(ctx context.Context, title, body string) (*Post, error) {
				if title != "Hi" || body != "there" {
					t.Errorf("Create got title=%q body=%q", title, body)
				}
				return want, nil
			},
		}
		svc := NewService(repo, nil, nil, slog.Default())
		got, err := svc.CreatePost(ctx, "Hi", "there")
		if err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
		if got != want {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		boom := errors.New("insert failed")
		repo := &mockRepo{create: func(context.Context, string, string) (*Post, error) { return nil, boom }}
		svc := NewService(repo, nil, nil, nil)
		_, err := svc.CreatePost(context.Background(), "T", "B")
		if !errors.Is(err, boom) {
			t.Errorf("got err %v", err)
		}
	})
}

func TestService_PublishPost(t *testing.T) {
	t.Run("success touches only the store", func(t *testing.T) {
		want := &Post{ID: 5, Title: "P", Body: "B", Published: true}
		repo := &mockRepo{publish: func(_ context.Context, id int64) (*Post, error) {
			if id != 5 {
				t.Errorf("Publish id=%d", id)
			}
			return want, nil
		}}
		pub := &mockPublisher{}
		st := &mockStorage{upload: func(context.Context, string, io.Reader, string) error {
			t.Error("unexpected upload")
			return nil
		}}
		svc := NewService(repo, pub, st, slog.Default())

		got, err := svc.PublishPost(context.Background(), 5)
		if err != nil {
			t.Fatalf("PublishPost: %v", err)
		}
		if got != want {
			t.Errorf("got %+v", got)
		}
		if len(pub.published) != 0 {
			t.Errorf("unexpected events %+v", pub.published)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(&mockRepo{}, nil, nil, nil)
		_, err := svc.PublishPost(context.Background(), 1)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got err %v", err)
		}
	})
}

func TestService_AnnouncePublished(t *testing.T) {
	t.Run("announces and archives", func(t *testing.T) {
		post := &Post{ID: 5, Title: "P", Body: "B", Published: true}
		pub := &mockPublisher{}
		var uploadedKey string
		var uploaded WirePost
		st := &mockStorage{upload: func(_ context.Context, key string, body io.Reader, contentType string) error {
			uploadedKey = key
			if contentType != "application/json" {
				t.Errorf("contentType=%q", contentType)
			}
			return json.NewDecoder(body).Decode(&uploaded)
		}}
		svc := NewService(&mockRepo{}, pub, st, slog.Default())

		svc.AnnouncePublished(context.Background(), post)

		if len(pub.published) != 1 || pub.published[0].Payload.PostID != 5 || pub.published[0].Payload.Title != "P" {
			t.Errorf("events %+v", pub.published)
		}
		if uploadedKey != "posts/5.json" || uploaded != Encode(post) {
			t.Errorf("upload key=%q body=%+v", uploadedKey, uploaded)
		}
	})

	t.Run("failures are logged and ignored", func(t *testing.T) {
		pub := &mockPublisher{err: errors.New("broker down")}
		uploads := 0
		st := &mockStorage{upload: func(context.Context, string, io.Reader, string) error {
			uploads++
			return errors.New("bucket gone")
		}}
		svc := NewService(&mockRepo{}, pub, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
		svc.AnnouncePublished(context.Background(), &Post{ID: 1, Published: true})
		if len(pub.published) != 1 || uploads != 1 {
			t.Errorf("events=%d uploads=%d", len(pub.published), uploads)
		}
	})

	t.Run("bounded by its own deadline", func(t *testing.T) {
		st := &mockStorage{upload: func(ctx context.Context, _ string, _ io.Reader, _ string) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("upload context has no deadline")
			}
			<-ctx.Done()
			return ctx.Err()
		}}
		svc := NewService(&mockRepo{}, nil, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
		svc.sideEffectTimeout = 20 * time.Millisecond

		done := make(chan struct{})
		go func() {
			svc.AnnouncePublished(context.Background(), &Post{ID: 1})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("AnnouncePublished did not return after its deadline")
		}
	})

	t.Run("outlives a cancelled request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var uploadErr error
		st := &mockStorage{upload: func(ctx context.Context, _ string, _ io.Reader, _ string) error {
			uploadErr = ctx.Err()
			return nil
		}}
		svc := NewService(&mockRepo{}, nil, st, nil)
		svc.AnnouncePublished(ctx, &Post{ID: 1})
		if uploadErr != nil {
			t.Errorf("upload saw cancelled context: %v", uploadErr)
		}
	})
}

func TestService_SearchPosts(t *testing.T) {
	want := []*Post{{ID: 1, Title: "Go", Published: true}}
	repo := &mockRepo{searchByTitle: func(_ context.Context, substring string) ([]*Post, error) {
		if substring != "G" {
			t.Errorf("substring=%q", substring)
		}
		return want, nil
	}}
	svc := NewService(repo, nil, nil, nil)
	got, err := svc.SearchPosts(context.Background(), "G")
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("got %+v", got)
	}
}

func TestArchiveKey(t *testing.T) {
	if got := ArchiveKey(12); got != "posts/12.json" {
		t.Errorf("got %q", got)
	}
}
