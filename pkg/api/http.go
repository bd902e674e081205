package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"kiarachat/pkg/api/handlers"
	"kiarachat/pkg/auth"
	"kiarachat/pkg/chat"
	"kiarachat/pkg/store"
	"kiarachat/pkg/telemetry"
)

// Options carries everything the router wires together.
type Options struct {
	Service   *chat.Service
	Store     *store.Store
	MaxMsgLen int64
	HasAPIKey bool
}

// NewRouter builds the /api router: identity resolution, request metrics
// and the chat endpoints.
func NewRouter(opts Options) http.Handler {
	r := mux.NewRouter()
	// Use runs the metrics middleware after route matching, so labels carry
	// the route template rather than the raw request path
	r.Use(telemetry.Middleware)
	apiRouter := r.PathPrefix("/api").Subrouter()
	handlers.NewChatHandlers(opts.Service, opts.Store, opts.MaxMsgLen, opts.HasAPIKey).Register(apiRouter)

	return auth.WithClientIdentity(r)
}
