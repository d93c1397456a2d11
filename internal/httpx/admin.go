package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizu-catering/orderhub/internal/admin"
	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// AdminStats returns the order counts per status.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AdminListOrders returns orders across all users, filterable by status,
// user, date range and page.
func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), listFilter(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// AdminOrderEvents returns the order's status history.
func (h *Handler) AdminOrderEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.orders.Events(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// AdminUpdateStatus moves an order to a new status. Cancellation goes
// through AdminCancelOrder instead so the refund runs.
func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.admin.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status), actor(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(updated))
}

// AdminCancelOrder cancels an order, refunding its payment best-effort.
// The response reports how the refund went; a failed refund does not fail
// the request.
func (h *Handler) AdminCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	amount, err := parseAmount(req.RefundAmount)
	if err != nil {
		var verr validation.Error
		verr.Add("refund_amount", "must be a decimal amount")
		h.writeDomainError(w, r, verr.Err())
		return
	}

	result, err := h.admin.CancelOrder(r.Context(), admin.CancelParams{
		OrderID: chi.URLParam(r, "id"),
		Reason:  req.Reason,
		Amount:  amount,
		Notify:  req.NotifyUser,
		Actor:   actor(r),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CancelResponse{
		Order:    mapOrder(result.Order),
		Refund:   string(result.Refund),
		RefundID: result.RefundID,
		Note:     result.Note,
	})
}

// AdminListUsers returns all registered users.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminBanUser bans the user; their tokens stop authenticating.
func (h *Handler) AdminBanUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.BanUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// AdminUnbanUser lifts a ban.
func (h *Handler) AdminUnbanUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.UnbanUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// AdminPromoteUser grants the user the admin role.
func (h *Handler) AdminPromoteUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.PromoteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// AdminResetPassword issues a temporary password and mails it to the user.
func (h *Handler) AdminResetPassword(w http.ResponseWriter, r *http.Request) {
	temp, err := h.admin.ResetPassword(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"temporary_password": temp})
}

// actor names the admin performing a mutation, for the audit trail.
func actor(r *http.Request) string {
	if ident := auth.IdentityFrom(r.Context()); ident != nil {
		return ident.Email
	}
	return "unknown"
}
