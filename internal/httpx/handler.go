// Package httpx is the REST surface: routing, DTO mapping and error
// translation over the core services. No business rules live here.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mizu-catering/orderhub/internal/admin"
	"github.com/mizu-catering/orderhub/internal/auth"
	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/catalog"
	"github.com/mizu-catering/orderhub/internal/checkout"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/pkg/cache"
	"github.com/mizu-catering/orderhub/internal/pricing"
	"github.com/mizu-catering/orderhub/internal/schedule"
	"github.com/mizu-catering/orderhub/internal/validation"
)

const menuCacheTTL = 5 * time.Minute

// Handler serves the catering API.
type Handler struct {
	carts     *cart.Store
	scheduler *schedule.Scheduler
	checkout  *checkout.Service
	admin     *admin.Service
	orders    order.Repository
	// menuCache may be nil; menus are then rendered per request.
	menuCache cache.Cache
}

// NewHandler wires the handler with its services.
func NewHandler(carts *cart.Store, scheduler *schedule.Scheduler, co *checkout.Service, ad *admin.Service, orders order.Repository, menuCache cache.Cache) *Handler {
	return &Handler{
		carts:     carts,
		scheduler: scheduler,
		checkout:  co,
		admin:     ad,
		orders:    orders,
		menuCache: menuCache,
	}
}

// GetMenu returns the whole catalog.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "menu", "all", func() (any, error) {
		return catalog.Menu(), nil
	})
}

// GetRestaurantMenu returns one restaurant's catalog.
func (h *Handler) GetRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "restaurant")
	rest, ok := catalog.FindRestaurant(id)
	if !ok {
		writeError(w, http.StatusNotFound, "restaurant_not_found", "")
		return
	}
	h.serveCached(w, r, "menu", id, func() (any, error) {
		return rest, nil
	})
}

// serveCached serves a JSON payload through the menu cache when one is
// configured, falling straight through when it is not or on cache errors.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, op, id string, load func() (any, error)) {
	if h.menuCache != nil {
		key := h.menuCache.Key(op, id)
		if cached, err := h.menuCache.Get(r.Context(), key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
		v, err := load()
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		payload, err := json.Marshal(v)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "")
			return
		}
		if err := h.menuCache.Set(r.Context(), key, string(payload), menuCacheTTL); err != nil {
			slog.WarnContext(r.Context(), "menu cache set failed", "error", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	v, err := load()
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetSlots returns the selectable delivery time slots.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Slots())
}

// CreateCart opens a cart for a restaurant.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req CreateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if _, ok := catalog.FindRestaurant(req.RestaurantID); !ok {
		writeError(w, http.StatusNotFound, "restaurant_not_found", "")
		return
	}
	c := h.carts.Create(req.RestaurantID)
	writeJSON(w, http.StatusCreated, mapCart(c))
}

// GetCart returns the cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

// SwitchRestaurant destroys the cart contents and rebinds the session to
// another restaurant.
func (h *Handler) SwitchRestaurant(w http.ResponseWriter, r *http.Request) {
	var req CreateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if _, ok := catalog.FindRestaurant(req.RestaurantID); !ok {
		writeError(w, http.StatusNotFound, "restaurant_not_found", "")
		return
	}
	c, err := h.carts.Replace(chi.URLParam(r, "id"), req.RestaurantID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

// AddItem resolves a customization and adds the priced lines to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	cartID := chi.URLParam(r, "id")
	c, err := h.carts.Get(cartID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	rest, ok := catalog.FindRestaurant(c.RestaurantID)
	if !ok {
		writeError(w, http.StatusNotFound, "restaurant_not_found", "")
		return
	}
	item, ok := rest.Item(req.ItemID)
	if !ok {
		writeError(w, http.StatusNotFound, "item_not_found", "")
		return
	}

	lines, err := resolveLines(item, req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	updated, err := h.carts.Update(cartID, func(c *cart.Cart) error {
		c.Add(lines...)
		return nil
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(updated))
}

// resolveLines dispatches to the resolver matching the item's schema.
func resolveLines(item *catalog.Item, req AddItemRequest) ([]cart.LineItem, error) {
	if item.Customization == nil {
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		// Plain items use the catalog id as the line id so re-adding
		// the same item increments the existing row.
		return []cart.LineItem{{
			ID:        item.ID,
			CatalogID: item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  qty,
			Category:  item.Category,
			Tags:      item.Tags,
		}}, nil
	}

	switch item.Customization.Kind {
	case catalog.KindSized:
		return pricing.ResolveSized(item, req.Sizes)
	case catalog.KindPlatter:
		if req.Platter == nil {
			return nil, missingSelection("platter")
		}
		line, err := pricing.ResolvePlatter(item, req.Platter.TierItemCount, req.Platter.Selections)
		if err != nil {
			return nil, err
		}
		return []cart.LineItem{line}, nil
	case catalog.KindSampler:
		if req.Sampler == nil {
			return nil, missingSelection("sampler")
		}
		line, err := pricing.ResolveSampler(item, req.Sampler.Size, pricing.SamplerSelection(req.Sampler.Sandwiches))
		if err != nil {
			return nil, err
		}
		return []cart.LineItem{line}, nil
	case catalog.KindFlavor:
		return pricing.ResolveFlavor(item, req.Flavors)
	case catalog.KindSalad:
		sel := pricing.SaladSelection{}
		if req.Salad != nil {
			sel = pricing.SaladSelection{
				Dressings:       req.Salad.Dressings,
				RemovedToppings: req.Salad.RemovedToppings,
				AddedToppings:   req.Salad.AddedToppings,
				Cheeses:         req.Salad.Cheeses,
				Meats:           req.Salad.Meats,
			}
		}
		line, err := pricing.ResolveSalad(item, sel)
		if err != nil {
			return nil, err
		}
		return []cart.LineItem{line}, nil
	default:
		return nil, missingSelection(string(item.Customization.Kind))
	}
}

func missingSelection(kind string) error {
	var verr validation.Error
	verr.Addf(kind, "%s selection is required for this item", kind)
	return verr.Err()
}

// AdjustLine increments or decrements a line's quantity.
func (h *Handler) AdjustLine(w http.ResponseWriter, r *http.Request) {
	var req AdjustLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	lineID := chi.URLParam(r, "lineID")

	updated, err := h.carts.Update(chi.URLParam(r, "id"), func(c *cart.Cart) error {
		var ok bool
		switch req.Op {
		case "increment":
			ok = c.Increment(lineID)
		case "decrement":
			ok = c.Decrement(lineID)
		default:
			var verr validation.Error
			verr.Add("op", `must be "increment" or "decrement"`)
			return verr.Err()
		}
		if !ok {
			return cart.ErrNotFound
		}
		return nil
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(updated))
}

// RemoveLine deletes a line from the cart.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")
	updated, err := h.carts.Update(chi.URLParam(r, "id"), func(c *cart.Cart) error {
		if !c.Remove(lineID) {
			return cart.ErrNotFound
		}
		return nil
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(updated))
}

// DeleteCart destroys the cart.
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// SubmitOrder runs the submission sequence and returns the persisted
// order.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.checkout.Submit(r.Context(), req.CartID, req.Delivery, req.PaymentRef)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(o))
}

// GetOrder returns one order. Customers see only their own orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFrom(r.Context())
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if !ident.IsAdmin() && o.UserID != ident.ID {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

// ListOrders returns the caller's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFrom(r.Context())
	f := listFilter(r)
	f.UserID = ident.ID

	orders, err := h.orders.List(r.Context(), f)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func mapOrders(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	return out
}

func listFilter(r *http.Request) order.Filter {
	q := r.URL.Query()
	f := order.Filter{
		Status: order.Status(q.Get("status")),
		UserID: q.Get("user"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		f.Offset = v
	}
	if t, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		f.From = t
	}
	if t, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		f.To = t
	}
	return f
}

// writeDomainError translates core errors into the HTTP envelope.
// Validation failures carry the full violation list; store failures get a
// generic retry-safe message.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	var transErr *order.InvalidTransitionError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      "validation_failed",
			Violations: verr.Violations,
		})
	case errors.As(err, &transErr):
		writeError(w, http.StatusConflict, "invalid_state_transition", transErr.Error())
	case errors.Is(err, auth.ErrAuthenticationRequired):
		writeError(w, http.StatusUnauthorized, "authentication_required", "")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "")
	case errors.Is(err, cart.ErrNotFound):
		writeError(w, http.StatusNotFound, "cart_not_found", "")
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "")
	case errors.Is(err, order.ErrDuplicatePaymentRef):
		writeError(w, http.StatusConflict, "duplicate_submission", "an order for this payment already exists")
	case errors.Is(err, checkout.ErrPaymentNotConfirmed):
		writeError(w, http.StatusPaymentRequired, "payment_not_confirmed", "payment must be completed before submitting")
	case errors.Is(err, checkout.ErrOrderCreationFailed):
		writeError(w, http.StatusBadGateway, "order_creation_failed", "we could not place your order; your cart is unchanged, please try again")
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
