package http

import (
	"encoding/json"
	"net/http"

	"convo/internal/entity"

	"github.com/go-chi/chi/v5"
)

// POST /chats/direct
func (h *Handler) CreateDirectChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		UserId string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "userId is required"})
		return
	}

	chatId, err := h.chatUc.CreateDirectChat(r.Context(), claims.UserId, req.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: map[string]string{"chatId": chatId}})
}

// POST /chats/group
func (h *Handler) CreateGroupChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Name    string   `json:"name"`
		UserIds []string `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	chatId, err := h.chatUc.CreateGroupChat(r.Context(), req.Name, claims.UserId, req.UserIds)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: map[string]string{"chatId": chatId}})
}

// GET /chats
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	chats, err := h.chatUc.Index(r.Context(), claims.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chats})
}

// GET /chats/{chatId}
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	chat, err := h.chatUc.Get(r.Context(), chi.URLParam(r, "chatId"), claims.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: chat})
}

// PATCH /chats/{chatId}
func (h *Handler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var update entity.ChatUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if err := h.chatUc.Update(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, update); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "chat updated"})
}

// POST /chats/{chatId}/participants
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		UserId string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "userId is required"})
		return
	}

	if err := h.chatUc.AddParticipant(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, req.UserId); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "participant added"})
}

// DELETE /chats/{chatId}/participants/{userId}
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.chatUc.RemoveParticipant(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "participant removed"})
}

// POST /chats/{chatId}/admins/{userId}
func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.chatUc.PromoteAdmin(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "admin added"})
}

// DELETE /chats/{chatId}/admins/{userId}
func (h *Handler) DemoteAdmin(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.chatUc.DemoteAdmin(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, chi.URLParam(r, "userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "admin removed"})
}

// PUT /chats/{chatId}/pin
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if err := h.chatUc.TogglePin(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, req.Pinned); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "pin updated"})
}

// DELETE /chats/{chatId}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	if err := h.chatUc.Delete(r.Context(), chi.URLParam(r, "chatId"), claims.UserId); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "chat deleted"})
}
