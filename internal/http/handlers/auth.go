package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"jobpilot/internal/domain"
	"jobpilot/internal/middleware"
)

const minPasswordLength = 8

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Plan     string `json:"plan"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username, email and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "email is invalid")
		return
	}
	if len(req.Password) < minPasswordLength {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
		return
	}
	plan, err := domain.ParsePlan(req.Plan)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Plan:         plan,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respondWithToken(w, r, http.StatusCreated, user)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "login and password are required")
		return
	}
	user, err := a.Users.GetByLogin(r.Context(), strings.TrimSpace(req.Login))
	if errors.Is(err, domain.ErrNotFound) {
		a.fail(w, r, domain.ErrInvalidCredentials)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.fail(w, r, domain.ErrInvalidCredentials)
		return
	}
	a.respondWithToken(w, r, http.StatusOK, user)
}

func (a *App) respondWithToken(w http.ResponseWriter, r *http.Request, code int, user *domain.User) {
	ttl := a.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, err := middleware.IssueToken(a.JWTSecret, user.ID, user.Username, string(user.Plan), ttl)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, code, authResponse{User: user, Token: token})
}
