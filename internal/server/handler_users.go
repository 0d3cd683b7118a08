package server

import (
	"net/http"

	"mealbook/internal/user"
)

func (cfg *APIConfig) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	type parameters struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	params, err := decodePayload[parameters](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not update user", err)
		return
	}

	u, err := cfg.Users.Update(r.Context(), authenticatedUserID(r), params.Name, params.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not update user", err)
		return
	}

	respondWithData(w, http.StatusOK, u)
}

// handleGetUsers returns every user; the client filters itself out by its
// cached user ID.
func (cfg *APIConfig) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := cfg.Users.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch users", err)
		return
	}
	if users == nil {
		users = []user.User{}
	}

	respondWithDataCount(w, http.StatusOK, len(users), users)
}

func (cfg *APIConfig) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	u, err := cfg.Users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch user", err)
		return
	}
	if u == nil {
		respondWithError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	respondWithData(w, http.StatusOK, u)
}

func (cfg *APIConfig) handleGetFollowData(w http.ResponseWriter, r *http.Request) {
	following, err := cfg.Follows.ListFollowing(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not fetch follow data", err)
		return
	}
	if following == nil {
		following = []user.User{}
	}

	type followData struct {
		Following []user.User `json:"following"`
	}
	respondWithData(w, http.StatusOK, followData{Following: following})
}

func (cfg *APIConfig) handleFollow(w http.ResponseWriter, r *http.Request) {
	cfg.handleFollowToggle(w, r, true)
}

func (cfg *APIConfig) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	cfg.handleFollowToggle(w, r, false)
}

func (cfg *APIConfig) handleFollowToggle(w http.ResponseWriter, r *http.Request, follow bool) {
	type parameters struct {
		UserID string `json:"userId"`
	}

	params, err := decodePayload[parameters](r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Could not update follow state", err)
		return
	}
	if params.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required", nil)
		return
	}

	target, err := cfg.Users.GetByID(r.Context(), params.UserID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not update follow state", err)
		return
	}
	if target == nil {
		respondWithError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	followerID := authenticatedUserID(r)
	if follow {
		err = cfg.Follows.Follow(r.Context(), followerID, params.UserID)
	} else {
		err = cfg.Follows.Unfollow(r.Context(), followerID, params.UserID)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Could not update follow state", err)
		return
	}

	respondWithData(w, http.StatusOK, params.UserID)
}
