package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/joshdurbin/minilink/internal/auth"
	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/service"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// Handler holds the HTTP handlers for the link shortener
type Handler struct {
	links        service.LinkService
	accounts     service.AccountService
	secureCookie bool
	logger       *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(links service.LinkService, accounts service.AccountService, secureCookie bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		links:        links,
		accounts:     accounts,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// errorResponse is the JSON body of every error reply
type errorResponse struct {
	Error string `json:"error"`
}

// CreateLink handles POST /links
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.links.CreateLink(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, link)
}

// ListLinks handles GET /links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	order := domain.ListOrder(r.URL.Query().Get("sort"))

	links, err := h.links.ListLinks(r.Context(), auth.UserID(r.Context()), order)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if links == nil {
		links = []*domain.Link{}
	}

	h.writeJSON(w, r, http.StatusOK, links)
}

// GetLink handles GET /links/{code}
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.GetLink(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, link)
}

// UpdateLink handles PATCH /links/{code}
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateLinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.links.UpdateLink(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["code"], req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, link)
}

// DeleteLink handles DELETE /links/{code}
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.links.DeleteLink(r.Context(), auth.UserID(r.Context()), mux.Vars(r)["code"]); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /links/{code}/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.links.Stats(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, stats)
}

// Redirect handles /r/{code} for every method. 307 keeps the method and body.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	dest, err := h.links.Resolve(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, dest.URL, http.StatusTemporaryRedirect)
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.accounts.Signup(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	h.writeJSON(w, r, http.StatusCreated, session)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	h.writeJSON(w, r, http.StatusOK, session)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == nil {
		h.writeError(w, r, domain.ErrUnauthorized)
		return
	}

	user, err := h.accounts.CurrentUser(r.Context(), *userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, user)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.links.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err, "request_id", RequestID(r.Context()))
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown routes with a JSON error
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
}

// MethodNotAllowed answers known routes hit with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug("invalid JSON body", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
		message = "internal server error"
		if errors.Is(err, domain.ErrExhaustedRetries) {
			message = "could not allocate a short code, try again"
		}
	} else {
		h.logger.Debug("request rejected",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err, "request_id", RequestID(r.Context()))
	}

	h.writeJSON(w, r, status, errorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err, "request_id", RequestID(r.Context()))
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
