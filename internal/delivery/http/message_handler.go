package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"convo/internal/entity"

	"github.com/go-chi/chi/v5"
)

// GET /chats/{chatId}/messages?limit=N
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, Response{Message: "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.messageUc.Index(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: messages})
}

// POST /chats/{chatId}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Text     string             `json:"text"`
		Type     entity.MessageType `json:"type,omitempty"`
		FileURL  string             `json:"fileURL,omitempty"`
		FileName string             `json:"fileName,omitempty"`
		ReplyTo  string             `json:"replyTo,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	message := entity.Message{
		Text:     req.Text,
		Type:     req.Type,
		FileURL:  req.FileURL,
		FileName: req.FileName,
		ReplyTo:  req.ReplyTo,
	}

	messageId, err := h.messageUc.Send(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: map[string]string{"messageId": messageId}})
}

// PATCH /chats/{chatId}/messages/{messageId}
func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	err := h.messageUc.Edit(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "messageId"), claims.UserId, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "message edited"})
}

// DELETE /chats/{chatId}/messages/{messageId}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.messageUc.Delete(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "messageId"), claims.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "message deleted"})
}

// POST /chats/{chatId}/messages/{messageId}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.messageUc.MarkRead(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "messageId"), claims.UserId)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "marked as read"})
}

// POST /chats/{chatId}/messages/{messageId}/reactions
func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Emoji == "" {
		writeJSON(w, http.StatusBadRequest, Response{Message: "emoji is required"})
		return
	}

	err := h.messageUc.AddReaction(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "messageId"), claims.UserId, req.Emoji)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "reaction added"})
}

// DELETE /chats/{chatId}/messages/{messageId}/reactions/{emoji}
func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	err := h.messageUc.RemoveReaction(r.Context(), chi.URLParam(r, "chatId"), chi.URLParam(r, "messageId"), claims.UserId, chi.URLParam(r, "emoji"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "reaction removed"})
}

// GET /chats/{chatId}/messages/search?q=term
func (h *Handler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	term := r.URL.Query().Get("q")

	messages, err := h.messageUc.Search(r.Context(), chi.URLParam(r, "chatId"), claims.UserId, term)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: messages})
}
