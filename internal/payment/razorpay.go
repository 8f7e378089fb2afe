// Package payment wraps the Razorpay API behind a small gateway interface:
// intent creation goes to the API, signature verification is a local HMAC
// recomputation and never calls out.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/apperr"
)

// Intent is a gateway-side pending charge the client completes in the
// checkout widget. Amount is in the gateway's minor unit (paise for INR).
type Intent struct {
	ID       string `json:"intentId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*Intent, error)
	VerifySignature(intentID, paymentID, signature string) bool
}

type RazorpayGateway struct {
	client *razorpay.Client
	secret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

var _ Gateway = (*RazorpayGateway)(nil)

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*Intent, error) {
	data := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create razorpay order: %v", apperr.ErrGateway, err)
	}

	id, ok := order["id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: razorpay response missing order id", apperr.ErrGateway)
	}
	amount := amountMinorUnits
	if a, ok := order["amount"].(float64); ok {
		amount = int64(a)
	}
	cur := currency
	if c, ok := order["currency"].(string); ok {
		cur = c
	}
	return &Intent{ID: id, Amount: amount, Currency: cur}, nil
}

// VerifySignature recomputes HMAC-SHA256 over "<intentID>|<paymentID>" with
// the key secret and compares it to the supplied signature in constant time.
func (g *RazorpayGateway) VerifySignature(intentID, paymentID, signature string) bool {
	return VerifyHMAC(g.secret, intentID, paymentID, signature)
}

// VerifyHMAC is the raw verification primitive, exported so tests can build
// known-good signatures without a gateway client.
func VerifyHMAC(secret, intentID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
