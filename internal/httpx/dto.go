package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizu-catering/orderhub/internal/cart"
	"github.com/mizu-catering/orderhub/internal/order"
	"github.com/mizu-catering/orderhub/internal/schedule"
	"github.com/mizu-catering/orderhub/internal/validation"
)

// CreateCartRequest opens a cart for one restaurant.
type CreateCartRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

// AddItemRequest adds a catalog item to the cart. Exactly one selection
// block should be present, matching the item's customization kind; plain
// items take only Quantity.
type AddItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity,omitempty"`

	Sizes   map[string]int       `json:"sizes,omitempty"`
	Platter *PlatterSelectionDTO `json:"platter,omitempty"`
	Sampler *SamplerSelectionDTO `json:"sampler,omitempty"`
	Flavors map[string]int       `json:"flavors,omitempty"`
	Salad   *SaladSelectionDTO   `json:"salad,omitempty"`
}

// PlatterSelectionDTO picks a tier and its sub-items.
type PlatterSelectionDTO struct {
	TierItemCount int      `json:"tier_item_count"`
	Selections    []string `json:"selections"`
}

// SamplerSelectionDTO picks a plate size and sandwich counts.
type SamplerSelectionDTO struct {
	Size       string         `json:"size"`
	Sandwiches map[string]int `json:"sandwiches"`
}

// SaladSelectionDTO captures salad choices.
type SaladSelectionDTO struct {
	Dressings       []string `json:"dressings,omitempty"`
	RemovedToppings []string `json:"removed_toppings,omitempty"`
	AddedToppings   []string `json:"added_toppings,omitempty"`
	Cheeses         []string `json:"cheeses,omitempty"`
	Meats           []string `json:"meats,omitempty"`
}

// AdjustLineRequest bumps a line's quantity up or down by one.
type AdjustLineRequest struct {
	// Op is "increment" or "decrement".
	Op string `json:"op"`
}

// SubmitOrderRequest is the submission payload. Payment is already
// collected; only the reference travels here.
type SubmitOrderRequest struct {
	CartID     string           `json:"cart_id"`
	Delivery   schedule.Request `json:"delivery"`
	PaymentRef string           `json:"payment_ref"`
}

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelOrderRequest cancels an order with an optional partial refund.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
	// RefundAmount overrides the refunded amount; empty refunds in full.
	RefundAmount string `json:"refund_amount,omitempty"`
	NotifyUser   bool   `json:"notify_user"`
}

// CartResponse is the cart as the client sees it.
type CartResponse struct {
	ID           string             `json:"id"`
	RestaurantID string             `json:"restaurant_id"`
	Items        []LineItemResponse `json:"items"`
	Subtotal     string             `json:"subtotal"`
	ItemCount    int                `json:"item_count"`
}

// LineItemResponse is one cart or order line.
type LineItemResponse struct {
	ID          string `json:"id"`
	CatalogID   string `json:"catalog_id"`
	Name        string `json:"name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
	Description string `json:"description,omitempty"`
}

// OrderResponse is a persisted order.
type OrderResponse struct {
	ID           string             `json:"id"`
	Number       string             `json:"order_number"`
	UserID       string             `json:"user_id"`
	RestaurantID string             `json:"restaurant_id"`
	Items        []LineItemResponse `json:"items"`
	TotalAmount  string             `json:"total_amount"`
	Delivery     schedule.Request   `json:"delivery"`
	Status       string             `json:"status"`
	PaymentRef   string             `json:"payment_ref,omitempty"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// CancelResponse reports a cancellation and its refund outcome.
type CancelResponse struct {
	Order    OrderResponse `json:"order"`
	Refund   string        `json:"refund"`
	RefundID string        `json:"refund_id,omitempty"`
	Note     string        `json:"note,omitempty"`
}

// ErrorResponse is the error envelope. Violations is populated for
// validation failures so the client can show every broken rule at once.
type ErrorResponse struct {
	Error      string                 `json:"error"`
	Message    string                 `json:"message,omitempty"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

func mapCart(c cart.Cart) CartResponse {
	return CartResponse{
		ID:           c.ID,
		RestaurantID: c.RestaurantID,
		Items:        mapLines(c.Items),
		Subtotal:     c.Subtotal().StringFixed(2),
		ItemCount:    c.ItemCount(),
	}
}

func mapLines(lines []cart.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(lines))
	for i, l := range lines {
		out[i] = LineItemResponse{
			ID:          l.ID,
			CatalogID:   l.CatalogID,
			Name:        l.Name,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal().StringFixed(2),
			Description: l.Description,
		}
	}
	return out
}

func mapOrder(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		Items:        mapLines(o.Items),
		TotalAmount:  o.TotalAmount.StringFixed(2),
		Delivery:     o.Delivery,
		Status:       string(o.Status),
		PaymentRef:   o.PaymentRef,
		CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
