package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/auth"
	"github.com/MrJamesThe3rd/pennywise/internal/http/request"
	"github.com/MrJamesThe3rd/pennywise/internal/http/respond"
	"github.com/MrJamesThe3rd/pennywise/internal/user"
)

type Handler struct {
	users  *user.Service
	tokens *auth.Tokens
}

func NewHandler(users *user.Service, tokens *auth.Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// PublicRoutes mounts the endpoints that issue tokens.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// Routes mounts the endpoints that need an authenticated caller.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/profile", h.profile)
}

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.session(u)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Created(w, "User registered successfully", session)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.session(u)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Login successful", session)
}

func (h *Handler) session(u *user.User) (sessionResponse, error) {
	issued, err := h.tokens.Issue(u.ID)
	if err != nil {
		return sessionResponse{}, err
	}

	return sessionResponse{
		User:      toUserResponse(u),
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	if err := h.users.Logout(r.Context(), id.UserID, id.TokenID, id.ExpiresAt); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, "Successfully logged out", nil)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), request.UserID(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]userResponse{"user": toUserResponse(u)})
}
