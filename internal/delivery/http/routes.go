package http

import (
	"net/http"

	wsDelivery "convo/internal/delivery/websocket"

	"github.com/go-chi/chi/v5"
)

func MapHttpRoutes(r *chi.Mux, handler *Handler, websocketHandler *wsDelivery.WebsocketHandler, authHandler *AuthHandler, authMiddleware *AuthMiddleware) {
	r.Handle("/ws/{userId}", http.HandlerFunc(websocketHandler.HandleWebSocket))

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handler.SearchUsers)
			r.Get("/{id}", handler.GetUser)
		})

		r.Route("/me", func(r chi.Router) {
			r.Put("/profile", handler.UpdateProfile)
			r.Put("/status", handler.UpdateStatus)
			r.Get("/last-chat", handler.LastOpenedChat)
			r.Put("/last-chat", handler.SetLastOpenedChat)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", handler.ListChats)
			r.Post("/direct", handler.CreateDirectChat)
			r.Post("/group", handler.CreateGroupChat)

			r.Route("/{chatId}", func(r chi.Router) {
				r.Get("/", handler.GetChat)
				r.Patch("/", handler.UpdateChat)
				r.Delete("/", handler.DeleteChat)
				r.Put("/pin", handler.TogglePin)
				r.Post("/participants", handler.AddParticipant)
				r.Delete("/participants/{userId}", handler.RemoveParticipant)
				r.Post("/admins/{userId}", handler.PromoteAdmin)
				r.Delete("/admins/{userId}", handler.DemoteAdmin)

				r.Route("/messages", func(r chi.Router) {
					r.Get("/", handler.ListMessages)
					r.Post("/", handler.SendMessage)
					r.Get("/search", handler.SearchMessages)
					r.Patch("/{messageId}", handler.EditMessage)
					r.Delete("/{messageId}", handler.DeleteMessage)
					r.Post("/{messageId}/read", handler.MarkMessageRead)
					r.Post("/{messageId}/reactions", handler.AddReaction)
					r.Delete("/{messageId}/reactions/{emoji}", handler.RemoveReaction)
				})
			})
		})
	})
}
