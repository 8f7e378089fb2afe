package service

import (
	"strings"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

// PaymentView is what the admin order table shows for one order: the current
// payment label and the labels the admin may move it to.
type PaymentView struct {
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

func codOptions() []string {
	return []string{models.PaymentStatusCODPending, models.PaymentStatusCODReceived}
}

func razorpayOptions() []string {
	return []string{
		models.PaymentStatusRazorpayPending,
		models.PaymentStatusRazorpayReceived,
		models.PaymentStatusRazorpayRefunded,
	}
}

func refundOptions() []string {
	return []string{models.PaymentStatusRazorpayReceived, models.PaymentStatusRazorpayRefunded}
}

// DerivePaymentView computes the payment label and allowed transitions from
// an order's stored fields. It is pure and defined for every reachable
// state, including legacy records with no paymentStatus.
//
// Cancellation freezes the normal pending/received progression: a cancelled
// paid gateway order enters a refund sub-state (received vs refunded), while
// a cancelled COD or unpaid order has no payment action left at all.
func DerivePaymentView(status models.OrderStatus, method models.PaymentMethod, paid bool, paymentStatus string) PaymentView {
	if status == models.OrderStatusCancelled {
		if method == models.PaymentMethodRazorpay && paid {
			if paymentStatus == models.PaymentStatusRazorpayRefunded {
				return PaymentView{Label: models.PaymentStatusRazorpayRefunded, Options: refundOptions()}
			}
			// Captured but not refunded yet: the signal that a refund is owed.
			return PaymentView{Label: models.PaymentStatusRazorpayReceived, Options: refundOptions()}
		}
		return PaymentView{Label: "N/A", Options: []string{}}
	}

	if paymentStatus != "" {
		switch method {
		case models.PaymentMethodCOD:
			return PaymentView{Label: paymentStatus, Options: codOptions()}
		case models.PaymentMethodRazorpay:
			return PaymentView{Label: paymentStatus, Options: razorpayOptions()}
		default:
			return PaymentView{Label: paymentStatus, Options: []string{}}
		}
	}

	// Legacy records predate the paymentStatus label; fall back to the
	// boolean payment flag.
	switch method {
	case models.PaymentMethodCOD:
		if paid {
			return PaymentView{Label: models.PaymentStatusCODReceived, Options: codOptions()}
		}
		return PaymentView{Label: models.PaymentStatusCODPending, Options: codOptions()}
	case models.PaymentMethodRazorpay:
		if paid {
			return PaymentView{Label: models.PaymentStatusRazorpayReceived, Options: razorpayOptions()}
		}
		return PaymentView{Label: models.PaymentStatusRazorpayPending, Options: razorpayOptions()}
	default:
		return PaymentView{Label: "Unknown", Options: []string{}}
	}
}

// PaymentFlagFor returns the payment boolean implied by an admin-selected
// label. "Refunded" keeps the flag true: money moved and was returned, which
// is different from money never arriving.
func PaymentFlagFor(selection string) bool {
	return strings.Contains(selection, "Received") || strings.Contains(selection, "Refunded")
}
