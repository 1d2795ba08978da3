package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"convo/infrastructure/cache"
	"convo/infrastructure/ws"
	"convo/internal/entity"
	"convo/internal/live"
	"convo/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const chatCacheTTL = 5 * time.Second

type WebsocketHandler struct {
	hub       ws.IHub
	liveMgr   *live.Manager
	userUc    usecase.UserUsecase
	chatUc    usecase.ChatUsecase
	messageUc usecase.MessageUsecase
	chatCache *cache.MemCache
	logger    *zap.SugaredLogger
}

func NewWebsocketHandler(
	hub ws.IHub,
	liveMgr *live.Manager,
	userUc usecase.UserUsecase,
	chatUc usecase.ChatUsecase,
	messageUc usecase.MessageUsecase,
	chatCache *cache.MemCache,
	logger *zap.SugaredLogger,
) *WebsocketHandler {
	return &WebsocketHandler{
		hub:       hub,
		liveMgr:   liveMgr,
		userUc:    userUc,
		chatUc:    chatUc,
		messageUc: messageUc,
		chatCache: chatCache,
		logger:    logger,
	}
}

// session tracks the live subscriptions one connection holds. Each is an
// independent handle and is stopped individually on unsubscribe or
// disconnect.
type session struct {
	mu            sync.Mutex
	subscriptions map[string]*live.Subscription
}

func (s *session) add(id string, sub *live.Subscription) {
	s.mu.Lock()
	old := s.subscriptions[id]
	s.subscriptions[id] = sub
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
}

func (s *session) remove(id string) bool {
	s.mu.Lock()
	sub, ok := s.subscriptions[id]
	delete(s.subscriptions, id)
	s.mu.Unlock()

	if ok {
		sub.Stop()
	}
	return ok
}

func (s *session) stopAll() {
	s.mu.Lock()
	subs := s.subscriptions
	s.subscriptions = map[string]*live.Subscription{}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Stop()
	}
}

func (h *WebsocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userId := chi.URLParam(r, "userId")
	if userId == "" {
		http.Error(w, "Missing user ID", http.StatusBadRequest)
		return
	}

	if _, err := h.userUc.Get(ctx, userId); err != nil {
		h.logger.Errorf("get user: %v", err)
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorf("upgrade: %v", err)
		return
	}

	if err := h.userUc.UpdateStatus(ctx, userId, entity.StatusOnline); err != nil {
		h.logger.Errorf("set online: %v", err)
	}

	client := ws.NewClient(userId, h.hub, conn, h.logger)
	h.hub.RegisterClient(client)

	sess := &session{subscriptions: map[string]*live.Subscription{}}
	defer sess.stopAll()

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.handleFrame(context.Background(), client, sess, data)
	})
}

func (h *WebsocketHandler) handleFrame(ctx context.Context, client *ws.UserClient, sess *session, data []byte) {
	var req ClientRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.sendError(client, "", "invalid frame")
		return
	}

	switch req.Action {
	case ActionSubscribeMessages:
		h.subscribeMessages(ctx, client, sess, req)
	case ActionSubscribeChats:
		h.subscribeChats(ctx, client, sess, req)
	case ActionSubscribePresence:
		h.subscribePresence(ctx, client, sess, req)
	case ActionUnsubscribe:
		if sess.remove(req.Id) {
			h.sendFrame(client.UserId, ServerFrame{Event: EventAck, Id: req.Id})
		}
	case ActionSendMessage:
		h.sendMessage(ctx, client, req)
	case ActionMarkRead:
		h.markRead(ctx, client, req)
	default:
		h.sendError(client, req.Id, "unknown action")
	}
}

func (h *WebsocketHandler) subscribeMessages(ctx context.Context, client *ws.UserClient, sess *session, req ClientRequest) {
	if req.Id == "" || req.ChatId == "" {
		h.sendError(client, req.Id, "id and chatId are required")
		return
	}

	if _, err := h.chatUc.Get(ctx, req.ChatId, client.UserId); err != nil {
		h.sendError(client, req.Id, err.Error())
		return
	}

	userId := client.UserId
	id := req.Id
	sub, err := h.liveMgr.Messages(ctx, req.ChatId, req.Limit, func(messages []entity.Message) {
		h.sendFrame(userId, ServerFrame{Event: EventMessages, Id: id, Data: messages})
	})
	if err != nil {
		h.sendError(client, req.Id, "subscription failed")
		return
	}

	sess.add(req.Id, sub)
}

func (h *WebsocketHandler) subscribeChats(ctx context.Context, client *ws.UserClient, sess *session, req ClientRequest) {
	if req.Id == "" {
		h.sendError(client, req.Id, "id is required")
		return
	}

	userId := client.UserId
	id := req.Id
	sub, err := h.liveMgr.Chats(ctx, userId, func(chats []entity.Chat) {
		h.sendFrame(userId, ServerFrame{Event: EventChats, Id: id, Data: chats})
	})
	if err != nil {
		h.sendError(client, req.Id, "subscription failed")
		return
	}

	sess.add(req.Id, sub)
}

func (h *WebsocketHandler) subscribePresence(ctx context.Context, client *ws.UserClient, sess *session, req ClientRequest) {
	if req.Id == "" || req.UserId == "" {
		h.sendError(client, req.Id, "id and userId are required")
		return
	}

	clientId := client.UserId
	id := req.Id
	sub, err := h.liveMgr.Presence(ctx, req.UserId, func(user *entity.User) {
		if user != nil {
			user.Password = ""
		}
		h.sendFrame(clientId, ServerFrame{Event: EventPresence, Id: id, Data: user})
	})
	if err != nil {
		h.sendError(client, req.Id, "subscription failed")
		return
	}

	sess.add(req.Id, sub)
}

// sendMessage persists the message and pushes a notification frame to
// every other participant's connection, wherever it lives.
func (h *WebsocketHandler) sendMessage(ctx context.Context, client *ws.UserClient, req ClientRequest) {
	message := entity.Message{
		Text:     req.Text,
		Type:     entity.MessageType(req.Type),
		FileURL:  req.FileURL,
		FileName: req.FileName,
		ReplyTo:  req.ReplyTo,
	}

	messageId, err := h.messageUc.Send(ctx, req.ChatId, client.UserId, message)
	if err != nil {
		h.sendError(client, req.Id, err.Error())
		return
	}

	chat, err := h.cachedChat(ctx, req.ChatId, client.UserId)
	if err != nil {
		h.logger.Errorf("resolve chat for fan-out: %v", err)
		return
	}

	frame := ServerFrame{
		Event: EventMessageNotify,
		Data: map[string]string{
			"chatId":    req.ChatId,
			"messageId": messageId,
			"senderId":  client.UserId,
		},
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Errorf("marshal fan-out frame: %v", err)
		return
	}

	for _, participantId := range chat.Participants {
		if participantId == client.UserId {
			continue
		}
		h.hub.SendToClient(participantId, payload)
	}

	h.sendFrame(client.UserId, ServerFrame{Event: EventAck, Id: req.Id, Data: map[string]string{"messageId": messageId}})
}

func (h *WebsocketHandler) markRead(ctx context.Context, client *ws.UserClient, req ClientRequest) {
	if err := h.messageUc.MarkRead(ctx, req.ChatId, req.MessageId, client.UserId); err != nil {
		h.sendError(client, req.Id, err.Error())
	}
}

// cachedChat keeps the chat record briefly so a burst of frames does not
// re-read it on every send.
func (h *WebsocketHandler) cachedChat(ctx context.Context, chatId, userId string) (entity.Chat, error) {
	if cached, ok := h.chatCache.Get(chatId); ok {
		if chat, ok := cached.(entity.Chat); ok && chat.HasParticipant(userId) {
			return chat, nil
		}
	}

	chat, err := h.chatUc.Get(ctx, chatId, userId)
	if err != nil {
		return entity.Chat{}, err
	}

	h.chatCache.Set(chatId, chat, chatCacheTTL)

	return chat, nil
}

func (h *WebsocketHandler) sendFrame(userId string, frame ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Errorf("marshal frame: %v", err)
		return
	}
	h.hub.SendToClient(userId, payload)
}

func (h *WebsocketHandler) sendError(client *ws.UserClient, id, message string) {
	h.sendFrame(client.UserId, ServerFrame{Event: EventError, Id: id, Error: message})
}
