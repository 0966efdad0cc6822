package notification

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Templates renders the transactional emails. All bodies share one
// lightweight HTML frame so storefront mails look consistent.
type Templates struct {
	baseURL string
}

// NewTemplates creates a template renderer. baseURL is the public
// dashboard URL used for links in account emails.
func NewTemplates(baseURL string) *Templates {
	return &Templates{baseURL: baseURL}
}

func (t *Templates) frame(storeName, title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body style="font-family:Arial,Helvetica,sans-serif;color:#333;max-width:600px;margin:0 auto;padding:16px">
<h2 style="color:#1a1a2e">%s</h2>
%s
<p style="margin-top:32px;font-size:12px;color:#888">%s</p>
</body></html>`, title, body, storeName)
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

// OrderConfirmation thanks the customer for a new order
func (t *Templates) OrderConfirmation(to, storeName, orderNumber string, total decimal.Decimal, currency string) Message {
	body := fmt.Sprintf(`<p>Thank you for your order!</p>
<p>Your order <strong>%s</strong> has been received and is being processed.</p>
<p>Order total: <strong>%s</strong></p>
<p>We will email you again as soon as it ships.</p>`, orderNumber, formatAmount(total, currency))
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Order %s confirmed - %s", orderNumber, storeName),
		HTMLBody: t.frame(storeName, "Order Confirmed", body),
	}
}

// NewOrderAlert notifies the store owner of an incoming order
func (t *Templates) NewOrderAlert(to, storeName, orderNumber string, total decimal.Decimal, currency string) Message {
	body := fmt.Sprintf(`<p>A new order just came in.</p>
<p>Order <strong>%s</strong> for <strong>%s</strong>.</p>
<p><a href="%s/orders">Open the dashboard</a> to process it.</p>`,
		orderNumber, formatAmount(total, currency), t.baseURL)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("New order %s - %s", orderNumber, storeName),
		HTMLBody: t.frame(storeName, "New Order", body),
	}
}

// PaymentReceived confirms a captured payment
func (t *Templates) PaymentReceived(to, storeName, orderNumber string, total decimal.Decimal, currency string) Message {
	body := fmt.Sprintf(`<p>We have received your payment of <strong>%s</strong> for order <strong>%s</strong>.</p>
<p>Your order is now being prepared.</p>`, formatAmount(total, currency), orderNumber)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Payment received for order %s - %s", orderNumber, storeName),
		HTMLBody: t.frame(storeName, "Payment Received", body),
	}
}

// OrderShipped carries the tracking details
func (t *Templates) OrderShipped(to, storeName, orderNumber, partner, trackingNumber, trackingURL string) Message {
	tracking := fmt.Sprintf("<p>Tracking number: <strong>%s</strong> (%s)</p>", trackingNumber, partner)
	if trackingURL != "" {
		tracking = fmt.Sprintf(`<p>Tracking number: <strong>%s</strong> (%s)</p>
<p><a href="%s">Track your shipment</a></p>`, trackingNumber, partner, trackingURL)
	}
	body := fmt.Sprintf(`<p>Good news - your order <strong>%s</strong> is on its way!</p>%s`, orderNumber, tracking)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Order %s shipped - %s", orderNumber, storeName),
		HTMLBody: t.frame(storeName, "Order Shipped", body),
	}
}

// OrderCancelled tells the customer the order was cancelled
func (t *Templates) OrderCancelled(to, storeName, orderNumber, reason string, wasPaid bool) Message {
	body := fmt.Sprintf("<p>Your order <strong>%s</strong> has been cancelled.</p>", orderNumber)
	if reason != "" {
		body += fmt.Sprintf("<p>Reason: %s</p>", reason)
	}
	if wasPaid {
		body += "<p>Your payment will be refunded to the original payment method within 5-7 business days.</p>"
	}
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Order %s cancelled - %s", orderNumber, storeName),
		HTMLBody: t.frame(storeName, "Order Cancelled", body),
	}
}

// Welcome greets a new store owner after signup
func (t *Templates) Welcome(to, storeName string) Message {
	body := fmt.Sprintf(`<p>Your store <strong>%s</strong> is ready.</p>
<p><a href="%s">Open your dashboard</a> to add products and start selling.</p>`, storeName, t.baseURL)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Welcome to %s", storeName),
		HTMLBody: t.frame(storeName, "Welcome", body),
	}
}

// PasswordReset carries the emailed reset link
func (t *Templates) PasswordReset(to, name, token string) Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", t.baseURL, token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your password.</p>
<p><a href="%s">Reset your password</a></p>
<p>The link expires in one hour. If you did not request this, you can ignore this email.</p>`, name, link)
	return Message{
		To:       to,
		Subject:  "Reset your password",
		HTMLBody: t.frame("", "Password Reset", body),
	}
}

// EmailVerification carries the emailed verification link
func (t *Templates) EmailVerification(to, name, token string) Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", t.baseURL, token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please confirm your email address to activate your account.</p>
<p><a href="%s">Verify email</a></p>
<p>The link expires in 24 hours.</p>`, name, link)
	return Message{
		To:       to,
		Subject:  "Verify your email address",
		HTMLBody: t.frame("", "Verify Email", body),
	}
}

// StaffInvite invites a staff member to a store's dashboard
func (t *Templates) StaffInvite(to, name, storeName, token string) Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", t.baseURL, token)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You have been invited to the <strong>%s</strong> dashboard.</p>
<p><a href="%s">Accept the invite</a> to verify your email and sign in.</p>`, name, storeName, link)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("You have been invited to %s", storeName),
		HTMLBody: t.frame(storeName, "Staff Invite", body),
	}
}

// TrialEndingSoon warns the store owner before the free trial runs out
func (t *Templates) TrialEndingSoon(to, storeName string, endsAt time.Time) Message {
	body := fmt.Sprintf(`<p>The free trial for <strong>%s</strong> ends on <strong>%s</strong>.</p>
<p><a href="%s/settings/billing">Choose a plan</a> to keep your store online.</p>`,
		storeName, endsAt.Format("2 January 2006"), t.baseURL)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Your trial ends soon - %s", storeName),
		HTMLBody: t.frame(storeName, "Trial Ending", body),
	}
}

// SubscriptionEndingSoon warns the store owner before the paid plan lapses
func (t *Templates) SubscriptionEndingSoon(to, storeName, plan string, endsAt time.Time) Message {
	body := fmt.Sprintf(`<p>The <strong>%s</strong> plan for <strong>%s</strong> expires on <strong>%s</strong>.</p>
<p><a href="%s/settings/billing">Renew now</a> to avoid interruption.</p>`,
		plan, storeName, endsAt.Format("2 January 2006"), t.baseURL)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Subscription expiring - %s", storeName),
		HTMLBody: t.frame(storeName, "Subscription Expiring", body),
	}
}

// LowStockAlert warns the store owner about a product running out
func (t *Templates) LowStockAlert(to, storeName, productName, sku, variantSKU string, remaining, threshold int) Message {
	item := fmt.Sprintf("%s (%s)", productName, sku)
	if variantSKU != "" {
		item = fmt.Sprintf("%s (%s / %s)", productName, sku, variantSKU)
	}
	body := fmt.Sprintf(`<p><strong>%s</strong> is running low.</p>
<p>Remaining stock: <strong>%d</strong> (threshold %d).</p>
<p><a href="%s/products">Restock it</a> before it sells out.</p>`, item, remaining, threshold, t.baseURL)
	return Message{
		To:       to,
		Subject:  fmt.Sprintf("Low stock: %s - %s", productName, storeName),
		HTMLBody: t.frame(storeName, "Low Stock Alert", body),
	}
}
