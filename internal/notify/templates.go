package notify

import (
	"fmt"
	"strings"

	"github.com/mizu-catering/orderhub/internal/order"
)

// RefundOutcome tells the cancellation template which branch to render.
type RefundOutcome string

const (
	RefundSucceeded RefundOutcome = "succeeded"
	RefundFailed    RefundOutcome = "failed"
	RefundNone      RefundOutcome = "none"
)

// OrderConfirmation renders the post-submission email.
func OrderConfirmation(o *order.Order) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order! Your order number is %s.\n\n", o.Number)
	for _, line := range o.Items {
		fmt.Fprintf(&b, "  %dx %s  $%s\n", line.Quantity, line.Name, line.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Delivery: %s at %s\n%s, %s, %s %s\n",
		o.Delivery.Date, o.Delivery.Time,
		o.Delivery.Street, o.Delivery.City, o.Delivery.State, o.Delivery.PostalCode)
	return fmt.Sprintf("Order %s confirmed", o.Number), b.String()
}

// StatusUpdate renders the admin-triggered status notification.
func StatusUpdate(o *order.Order) (subject, body string) {
	subject = fmt.Sprintf("Order %s is now %s", o.Number, o.Status)
	body = fmt.Sprintf("Hi,\n\nYour order %s has been updated to: %s.\n", o.Number, o.Status)
	return subject, body
}

// Cancellation renders the cancellation email; the body branches on how
// the refund went.
func Cancellation(o *order.Order, outcome RefundOutcome, reason string) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Your order %s has been cancelled.\n", o.Number)
	if reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", reason)
	}
	switch outcome {
	case RefundSucceeded:
		fmt.Fprintf(&b, "\nA refund has been issued to your original payment method. Please allow 5-10 business days for it to appear.\n")
	case RefundFailed:
		fmt.Fprintf(&b, "\nWe were unable to process your refund automatically. Our team has been notified and will follow up with you directly.\n")
	case RefundNone:
		fmt.Fprintf(&b, "\nNo payment was captured for this order, so no refund is due.\n")
	}
	return fmt.Sprintf("Order %s cancelled", o.Number), b.String()
}

// PasswordReset renders the temporary-credential email.
func PasswordReset(tempPassword string) (subject, body string) {
	return "Your password has been reset",
		fmt.Sprintf("A temporary password has been set on your account:\n\n    %s\n\nPlease sign in and change it immediately.\n", tempPassword)
}
