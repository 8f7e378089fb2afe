package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

func TestDerivePaymentViewCancelled(t *testing.T) {
	t.Run("razorpay paid not refunded", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusCancelled, models.PaymentMethodRazorpay, true, models.PaymentStatusRazorpayReceived)
		assert.Equal(t, models.PaymentStatusRazorpayReceived, view.Label)
		assert.Equal(t, []string{models.PaymentStatusRazorpayReceived, models.PaymentStatusRazorpayRefunded}, view.Options)
	})

	t.Run("razorpay paid refunded", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusCancelled, models.PaymentMethodRazorpay, true, models.PaymentStatusRazorpayRefunded)
		assert.Equal(t, models.PaymentStatusRazorpayRefunded, view.Label)
		assert.Equal(t, []string{models.PaymentStatusRazorpayReceived, models.PaymentStatusRazorpayRefunded}, view.Options)
	})

	t.Run("razorpay paid with empty label still owes refund", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusCancelled, models.PaymentMethodRazorpay, true, "")
		assert.Equal(t, models.PaymentStatusRazorpayReceived, view.Label)
	})

	t.Run("razorpay unpaid", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusCancelled, models.PaymentMethodRazorpay, false, models.PaymentStatusRazorpayPending)
		assert.Equal(t, "N/A", view.Label)
		assert.Empty(t, view.Options)
	})

	t.Run("cod always terminal", func(t *testing.T) {
		for _, paid := range []bool{false, true} {
			view := DerivePaymentView(models.OrderStatusCancelled, models.PaymentMethodCOD, paid, "")
			assert.Equal(t, "N/A", view.Label)
			assert.Empty(t, view.Options)
		}
	})
}

func TestDerivePaymentViewStoredLabel(t *testing.T) {
	t.Run("cod label shown verbatim", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusShipped, models.PaymentMethodCOD, false, models.PaymentStatusCODPending)
		assert.Equal(t, models.PaymentStatusCODPending, view.Label)
		assert.Equal(t, []string{models.PaymentStatusCODPending, models.PaymentStatusCODReceived}, view.Options)
	})

	t.Run("razorpay label shown verbatim", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, models.PaymentMethodRazorpay, true, models.PaymentStatusRazorpayReceived)
		assert.Equal(t, models.PaymentStatusRazorpayReceived, view.Label)
		assert.Equal(t, []string{
			models.PaymentStatusRazorpayPending,
			models.PaymentStatusRazorpayReceived,
			models.PaymentStatusRazorpayRefunded,
		}, view.Options)
	})

	t.Run("unknown method keeps label but offers nothing", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, "Wallet", false, "Wallet - Pending")
		assert.Equal(t, "Wallet - Pending", view.Label)
		assert.Empty(t, view.Options)
	})
}

func TestDerivePaymentViewLegacyRecords(t *testing.T) {
	t.Run("cod unpaid", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, models.PaymentMethodCOD, false, "")
		assert.Equal(t, models.PaymentStatusCODPending, view.Label)
	})

	t.Run("cod paid", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusDelivered, models.PaymentMethodCOD, true, "")
		assert.Equal(t, models.PaymentStatusCODReceived, view.Label)
	})

	t.Run("razorpay unpaid", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, models.PaymentMethodRazorpay, false, "")
		assert.Equal(t, models.PaymentStatusRazorpayPending, view.Label)
	})

	t.Run("razorpay paid", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, models.PaymentMethodRazorpay, true, "")
		assert.Equal(t, models.PaymentStatusRazorpayReceived, view.Label)
	})

	t.Run("unknown method", func(t *testing.T) {
		view := DerivePaymentView(models.OrderStatusPlaced, "Wallet", false, "")
		assert.Equal(t, "Unknown", view.Label)
		assert.Empty(t, view.Options)
	})
}

func TestPaymentFlagFor(t *testing.T) {
	assert.False(t, PaymentFlagFor(models.PaymentStatusCODPending))
	assert.True(t, PaymentFlagFor(models.PaymentStatusCODReceived))
	assert.False(t, PaymentFlagFor(models.PaymentStatusRazorpayPending))
	assert.True(t, PaymentFlagFor(models.PaymentStatusRazorpayReceived))
	// A refund means money moved and came back, not that it never arrived.
	assert.True(t, PaymentFlagFor(models.PaymentStatusRazorpayRefunded))
}
