package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"convo/internal/entity"
	"convo/internal/repository"
	"convo/internal/usecase"

	"go.uber.org/zap"
)

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type Handler struct {
	chatUc    usecase.ChatUsecase
	userUc    usecase.UserUsecase
	messageUc usecase.MessageUsecase
	logger    *zap.SugaredLogger
}

func NewHandler(chatUc usecase.ChatUsecase, userUc usecase.UserUsecase, messageUc usecase.MessageUsecase, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		chatUc:    chatUc,
		userUc:    userUc,
		messageUc: messageUc,
		logger:    logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// writeError maps domain errors onto status codes. Not-found sentinels
// become 404, authorization failures 403, validation failures 400,
// everything else is a store failure surfaced as 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrChatNotFound),
		errors.Is(err, repository.ErrMessageNotFound),
		errors.Is(err, repository.ErrNoLastOpenedChat):
		writeJSON(w, http.StatusNotFound, Response{Message: err.Error()})

	case errors.Is(err, usecase.ErrNotAdmin),
		errors.Is(err, usecase.ErrNotParticipant):
		writeJSON(w, http.StatusForbidden, Response{Message: err.Error()})

	case errors.Is(err, usecase.ErrGroupNameRequired),
		errors.Is(err, usecase.ErrNoParticipants),
		errors.Is(err, usecase.ErrUnknownParticipant),
		errors.Is(err, usecase.ErrNotGroupChat),
		errors.Is(err, usecase.ErrLastAdmin),
		errors.Is(err, usecase.ErrEmptyMessage),
		errors.Is(err, repository.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, Response{Message: err.Error()})

	default:
		h.logger.Errorf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Message: "internal server error"})
	}
}

// currentUser pulls the authenticated claims the middleware stored.
func currentUser(r *http.Request) (*entity.TokenClaims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*entity.TokenClaims)
	return claims, ok
}
