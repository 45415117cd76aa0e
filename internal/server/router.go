package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jeremyjsx/postboard/internal/handlers"
	"github.com/jeremyjsx/postboard/internal/middleware"
)

const maxBodyBytes = 1 << 20

type route struct {
	method string
	path   string
}

type request struct {
	body  []byte
	query map[string]string
}

type endpoint struct {
	readBody bool
	run      func(ctx context.Context, api *handlers.API, req *request) handlers.Response
}

// Router dispatches on the exact method and path. Anything else, including
// a known path with the wrong method, gets a 404.
type Router struct {
	shared    *SharedAPI
	endpoints map[route]endpoint
	direct    map[route]http.Handler
	logger    *slog.Logger
}

func NewRouter(shared *SharedAPI, health http.Handler, logger *slog.Logger) *Router {
	rt := &Router{
		shared: shared,
		endpoints: map[route]endpoint{
			{http.MethodPost, "/post"}: {readBody: true, run: func(ctx context.Context, api *handlers.API, req *request) handlers.Response {
				return api.StorePost(ctx, req.body)
			}},
			{http.MethodGet, "/publish"}: {run: func(ctx context.Context, api *handlers.API, req *request) handlers.Response {
				return api.PublishPost(ctx, req.query)
			}},
			{http.MethodGet, "/posts"}: {run: func(ctx context.Context, api *handlers.API, req *request) handlers.Response {
				return api.GetPostsByTitle(ctx, req.query)
			}},
			{http.MethodGet, "/dumb"}: {run: func(_ context.Context, api *handlers.API, _ *request) handlers.Response {
				return api.Diagnostic()
			}},
		},
		direct: map[route]http.Handler{},
		logger: logger,
	}
	if health != nil {
		rt.direct[route{http.MethodGet, "/health"}] = health
	}
	return rt
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := route{method: r.Method, path: r.URL.Path}
	if h, ok := rt.direct[key]; ok {
		h.ServeHTTP(w, r)
		return
	}
	ep, ok := rt.endpoints[key]
	if !ok {
		handlers.NotFound().Write(w)
		return
	}

	req := &request{query: ParseQuery(r.URL.RawQuery)}
	if ep.readBody {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			rt.bodyError(w, r, err)
			return
		}
		req.body = body
	}

	res := rt.shared.Do(func(api *handlers.API) handlers.Response {
		return ep.run(r.Context(), api, req)
	})
	res.Write(w)
	if res.After != nil {
		if err := http.NewResponseController(w).Flush(); err != nil {
			rt.logger.Debug("flush response failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		}
		res.After(r.Context())
	}
}

func (rt *Router) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	rt.logger.Debug("read request body failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
	http.Error(w, "could not read request body", http.StatusBadRequest)
}

// NewHandler wraps the router with request ids, access logs and panic
// recovery.
func NewHandler(shared *SharedAPI, health http.Handler, logger *slog.Logger) http.Handler {
	return middleware.Chain(NewRouter(shared, health, logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recover(logger),
	)
}
