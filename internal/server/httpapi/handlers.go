package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/jingleboxpro/jinglebox/internal/countdown"
	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/model"
)

// --- wire types ---

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username,omitempty"`
}

type pageResponse struct {
	Username     string `json:"username"`
	MessageCount int    `json:"message_count"`
	PendingGifts int    `json:"pending_gifts"`
}

type claimPageRequest struct {
	Username string `json:"username"`
}

type addMessageRequest struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

type sendGiftRequest struct {
	Template string         `json:"template"`
	Note     string         `json:"note"`
	Wrapping model.Wrapping `json:"wrapping"`
}

type giftResponse struct {
	model.ReceivedGift
	Name        string `json:"name"`
	Description string `json:"description"`
}

type pendingResponse struct {
	Pending int `json:"pending"`
}

// --- auth ---

// handleSignUp creates the account, claims the page, and signs the user in.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "email, password and username are required")
		return
	}

	tok, page, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "email or username already taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
		Username:    page.Username,
	})
}

// handleSignIn authenticates and returns a token; the page lookup is a
// separate call so a pageless account still signs in cleanly.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	tok, u, err := s.auth.SignInWithIP(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "bad credentials")
		case errors.Is(err, errs.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "too many attempts, try again later")
		default:
			writeError(w, http.StatusInternalServerError, "sign in failed")
		}
		return
	}

	resp := authResponse{AccessToken: tok.AccessToken, ExpiresAt: tok.ExpiresAt}
	if page, err := s.pages.ByOwner(r.Context(), u.ID); err == nil {
		resp.Username = page.Username
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- pages ---

func (s *Server) handleMyPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no auth")
		return
	}
	page, err := s.pages.ByOwner(r.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no page yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, s.pageView(page))
}

func (s *Server) handleClaimPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no auth")
		return
	}
	var req claimPageRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	page, err := s.pages.Claim(r.Context(), userID, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.pageView(page))
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	page, err := s.pages.ByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "page not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, s.pageView(page))
}

func (s *Server) pageView(page *model.Page) pageResponse {
	return pageResponse{
		Username:     page.Username,
		MessageCount: s.boards.Count(page.Username),
		PendingGifts: s.gifts.Pending(page.Username),
	}
}

// --- message board ---

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if _, err := s.pages.ByUsername(r.Context(), username); err != nil {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	msgs := s.boards.List(username)
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if _, err := s.pages.ByUsername(r.Context(), username); err != nil {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	var req addMessageRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Text == "" || req.Sender == "" {
		writeError(w, http.StatusBadRequest, "text and sender are required")
		return
	}

	msg, err := s.boards.Add(username, req.Text, req.Sender)
	if err != nil {
		if errors.Is(err, errs.ErrBoardFull) {
			writeError(w, http.StatusConflict, "this tree is full of messages already")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// --- gift exchange ---

func (s *Server) handleSendGift(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no auth")
		return
	}
	recipient := r.PathValue("username")
	if _, err := s.pages.ByUsername(r.Context(), recipient); err != nil {
		writeError(w, http.StatusNotFound, "recipient page not found")
		return
	}

	var req sendGiftRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	template, err := model.ParseGiftTemplate(req.Template)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Wrapping == (model.Wrapping{}) {
		req.Wrapping = model.DefaultWrapping()
	}

	// Senders without a page of their own show up as Santa.
	from := "santa"
	if page, err := s.pages.ByOwner(r.Context(), userID); err == nil {
		from = page.Username
	}

	gift, err := s.gifts.Send(from, recipient, template, req.Note, req.Wrapping)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, giftView(gift))
}

func (s *Server) handlePendingGifts(w http.ResponseWriter, r *http.Request) {
	page, ok := s.myPage(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pendingResponse{Pending: s.gifts.Pending(page.Username)})
}

func (s *Server) handleUnwrap(w http.ResponseWriter, r *http.Request) {
	page, ok := s.myPage(w, r)
	if !ok {
		return
	}
	gift, err := s.gifts.Unwrap(r.Context(), page.Username)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNoGifts):
			writeError(w, http.StatusNotFound, "no gifts to unwrap right now")
		case errors.Is(err, errs.ErrUnwrapBusy):
			writeError(w, http.StatusConflict, "already unwrapping a gift")
		default:
			writeError(w, http.StatusInternalServerError, "unwrap failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, giftView(gift))
}

// myPage resolves the authenticated caller's page or writes the error.
func (s *Server) myPage(w http.ResponseWriter, r *http.Request) (*model.Page, bool) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no auth")
		return nil, false
	}
	page, err := s.pages.ByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no page yet")
		return nil, false
	}
	return page, true
}

func giftView(g model.ReceivedGift) giftResponse {
	return giftResponse{
		ReceivedGift: g,
		Name:         g.Template.Name(),
		Description:  g.Template.Description(),
	}
}

// --- countdown ---

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countdown.Until(time.Now()))
}
