// README: API gateway; holds module services and builds the gin engine.
package http

import (
	"log/slog"

	"voyager/internal/http/handlers"
	"voyager/internal/infra"
	"voyager/internal/modules/editor"
	"voyager/internal/modules/itinerary"
)

// Planner generates trips and runs chat turns.
type Planner interface {
	handlers.Generator
	handlers.Turner
}

type ServerDeps struct {
	Verifier      infra.TokenVerifier
	Planner       Planner
	Conversations *itinerary.ConversationStore
	Trips         handlers.Collections
	Edits         *editor.Sessions
	Location      handlers.Resolver
	Identity      handlers.Identity
	Logger        *slog.Logger
}

type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, log: logger}
}
