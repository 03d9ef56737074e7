// Package httpapi exposes the JingleBox HTTP API.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jingleboxpro/jinglebox/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	pages   service.PageService
	boards  *service.Boards
	gifts   *service.Exchange
	signKey []byte
	log     *zap.Logger
}

// New constructs an API server with injected services.
func New(auth service.AuthService, pages service.PageService, boards *service.Boards, gifts *service.Exchange, signKey []byte, log *zap.Logger) *Server {
	return &Server{auth: auth, pages: pages, boards: boards, gifts: gifts, signKey: signKey, log: log}
}

// Handler builds the route table with logging/recovery on every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withRecover(s.log, withLogging(s.log, h))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /countdown", wrap(s.handleCountdown))

	mux.HandleFunc("POST /auth/signup", wrap(s.handleSignUp))
	mux.HandleFunc("POST /auth/signin", wrap(s.handleSignIn))

	mux.HandleFunc("GET /me/page", wrap(s.requireAuth(s.handleMyPage)))
	mux.HandleFunc("GET /me/gifts", wrap(s.requireAuth(s.handlePendingGifts)))
	mux.HandleFunc("POST /me/gifts/unwrap", wrap(s.requireAuth(s.handleUnwrap)))

	mux.HandleFunc("POST /pages", wrap(s.requireAuth(s.handleClaimPage)))
	mux.HandleFunc("GET /pages/{username}", wrap(s.handleGetPage))
	mux.HandleFunc("GET /pages/{username}/messages", wrap(s.handleListMessages))
	mux.HandleFunc("POST /pages/{username}/messages", wrap(s.handleAddMessage))
	mux.HandleFunc("POST /pages/{username}/gifts", wrap(s.requireAuth(s.handleSendGift)))

	return withCORS(mux)
}
