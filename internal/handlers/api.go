package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jeremyjsx/postboard/internal/posts"
)

// API implements the post operations on already-parsed request data. It is
// not safe for concurrent use; the server serializes every call.
type API struct {
	svc    *posts.Service
	logger *slog.Logger
}

func NewAPI(svc *posts.Service, logger *slog.Logger) *API {
	return &API{
		svc:    svc,
		logger: logger,
	}
}

// CreatePostRequest is the body of POST /post. A client-supplied id is
// accepted and ignored; ids come from the store.
type CreatePostRequest struct {
	ID    json.RawMessage `json:"id,omitempty"`
	Title *string         `json:"title"`
	Body  *string         `json:"body"`
}

func (a *API) StorePost(ctx context.Context, body []byte) Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return textResponse(http.StatusBadRequest, "request body must be a JSON object")
	}

	var req CreatePostRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return textResponse(http.StatusBadRequest, "invalid JSON body")
	}
	if req.Title == nil || req.Body == nil {
		return textResponse(http.StatusBadRequest, "title and body are required")
	}

	post, err := a.svc.CreatePost(ctx, *req.Title, *req.Body)
	if err != nil {
		return a.internalError("create post failed", err)
	}
	return jsonResponse(http.StatusOK, posts.Encode(post))
}

func (a *API) PublishPost(ctx context.Context, query map[string]string) Response {
	raw, ok := query["id"]
	if !ok {
		return textResponse(http.StatusBadRequest, "query parameter id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return textResponse(http.StatusBadRequest, "query parameter id must be an integer")
	}

	post, err := a.svc.PublishPost(ctx, id)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			return textResponse(http.StatusNotFound, "post not found")
		}
		return a.internalError("publish post failed", err, "post_id", id)
	}
	res := jsonResponse(http.StatusOK, posts.Encode(post))
	res.After = func(ctx context.Context) { a.svc.AnnouncePublished(ctx, post) }
	return res
}

// GetPostsByTitle treats an empty title as "match every published post".
func (a *API) GetPostsByTitle(ctx context.Context, query map[string]string) Response {
	title, ok := query["title"]
	if !ok {
		return textResponse(http.StatusBadRequest, "query parameter title is required")
	}

	found, err := a.svc.SearchPosts(ctx, title)
	if err != nil {
		return a.internalError("search posts failed", err, "title", title)
	}
	return jsonResponse(http.StatusOK, posts.EncodeAll(found))
}

// Diagnostic answers GET /dumb: the server is reachable but there is
// nothing to serve there.
func (a *API) Diagnostic() Response {
	return textResponse(http.StatusNotFound, "postboard is running, but there is nothing here")
}

func NotFound() Response {
	return textResponse(http.StatusNotFound, "look somewhere else")
}

func (a *API) internalError(msg string, err error, attrs ...any) Response {
	a.logger.Error(msg, append(attrs, "error", err)...)
	return textResponse(http.StatusInternalServerError, "internal server error")
}
