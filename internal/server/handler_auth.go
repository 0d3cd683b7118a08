package server

import (
	"net/http"
	"strings"
	"time"

	"mealbook/internal/auth"
	"mealbook/internal/user"
)

const tokenLifetime = 24 * time.Hour

// MinPasswordLength is enforced both here and client-side before any
// network call.
const MinPasswordLength = 8

type authResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

func (cfg *APIConfig) handleRegister(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	params, err := decodePayload[parameters](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not register user", err)
		return
	}

	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)
	if params.Name == "" || params.Email == "" || params.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Name, email and password are required", nil)
		return
	}
	if len(params.Password) < MinPasswordLength {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 8 characters", nil)
		return
	}

	existing, _, err := cfg.Users.GetByEmail(r.Context(), params.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not register user", err)
		return
	}
	if existing != nil {
		respondWithError(w, http.StatusConflict, "An account with this email already exists", nil)
		return
	}

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not register user", err)
		return
	}

	u, err := cfg.Users.Create(r.Context(), params.Name, params.Email, hashed)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not register user", err)
		return
	}

	token, err := auth.MakeJWT(u.ID, cfg.JWTSecret, tokenLifetime)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not register user", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{User: u, Token: token})
}

func (cfg *APIConfig) handleLogin(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	params, err := decodePayload[parameters](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not log in", err)
		return
	}

	if params.Email == "" || params.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	u, hashed, err := cfg.Users.GetByEmail(r.Context(), params.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not log in", err)
		return
	}
	if u == nil {
		respondWithError(w, http.StatusUnauthorized, "Incorrect email or password", nil)
		return
	}

	match, err := auth.CheckPasswordHash(params.Password, hashed)
	if err != nil || !match {
		respondWithError(w, http.StatusUnauthorized, "Incorrect email or password", err)
		return
	}

	token, err := auth.MakeJWT(u.ID, cfg.JWTSecret, tokenLifetime)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not log in", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{User: u, Token: token})
}
