package server

import (
	"sync"

	"github.com/jeremyjsx/postboard/internal/handlers"
)

// SharedAPI is the single API instance shared by every connection. Do runs
// one operation at a time; waiters are not served in arrival order.
type SharedAPI struct {
	mu  sync.Mutex
	api *handlers.API
}

func NewSharedAPI(api *handlers.API) *SharedAPI {
	return &SharedAPI{api: api}
}

func (s *SharedAPI) Do(fn func(api *handlers.API) handlers.Response) handlers.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.api)
}
