package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/httpx/middlewares"
)

// NewRouter mounts the full API. Menu and cart routes are public; orders
// require authentication; /api/admin requires the admin role.
func NewRouter(handler *Handler, authenticator auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Authenticate(authenticator))

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", handler.GetMenu)
		r.Get("/restaurants/{restaurant}/menu", handler.GetRestaurantMenu)
		r.Get("/delivery/slots", handler.GetSlots)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", handler.CreateCart)
			r.Get("/{id}", handler.GetCart)
			r.Delete("/{id}", handler.DeleteCart)
			r.Put("/{id}/restaurant", handler.SwitchRestaurant)
			r.Post("/{id}/items", handler.AddItem)
			r.Patch("/{id}/items/{lineID}", handler.AdjustLine)
			r.Delete("/{id}/items/{lineID}", handler.RemoveLine)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAuth)
			r.Post("/orders", handler.SubmitOrder)
			r.Get("/orders", handler.ListOrders)
			r.Get("/orders/{id}", handler.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewares.RequireAdmin)
			r.Get("/stats", handler.AdminStats)
			r.Get("/orders", handler.AdminListOrders)
			r.Get("/orders/{id}/events", handler.AdminOrderEvents)
			r.Patch("/orders/{id}/status", handler.AdminUpdateStatus)
			r.Post("/orders/{id}/cancel", handler.AdminCancelOrder)
			r.Get("/users", handler.AdminListUsers)
			r.Post("/users/{id}/ban", handler.AdminBanUser)
			r.Post("/users/{id}/unban", handler.AdminUnbanUser)
			r.Post("/users/{id}/promote", handler.AdminPromoteUser)
			r.Post("/users/{id}/reset-password", handler.AdminResetPassword)
		})
	})

	return r
}
