package http

import (
	"encoding/json"
	"net/http"

	"convo/internal/entity"

	"github.com/go-chi/chi/v5"
)

// GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId := chi.URLParam(r, "id")

	user, err := h.userUc.Get(r.Context(), userId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusOK, Response{Message: "success", Data: user})
}

// GET /users?search=term
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	users, err := h.userUc.Search(r.Context(), term)
	if err != nil {
		h.writeError(w, err)
		return
	}

	for i := range users {
		users[i].Password = ""
	}
	writeJSON(w, http.StatusOK, Response{Message: "success", Data: users})
}

// PUT /me/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var update entity.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if err := h.userUc.UpdateProfile(r.Context(), claims.UserId, update); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "profile updated"})
}

// PUT /me/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Status entity.UserStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if err := h.userUc.UpdateStatus(r.Context(), claims.UserId, req.Status); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "status updated"})
}

// GET /me/last-chat
func (h *Handler) LastOpenedChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	chatId, err := h.userUc.LastOpenedChat(r.Context(), claims.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: map[string]string{"chatId": chatId}})
}

// PUT /me/last-chat
func (h *Handler) SetLastOpenedChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		ChatId string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChatId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "chatId is required"})
		return
	}

	if err := h.userUc.SetLastOpenedChat(r.Context(), claims.UserId, req.ChatId); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "last opened chat saved"})
}
