package integrations

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Space-Xplorer/Erimuga-sub000/internal/models"
)

type httpSession struct {
	cookie *http.Cookie
}

func (s *IntegrationSuite) request(method, path string, body string, sess *httpSession) (*http.Response, []byte) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, testServer.URL+path, reader)
	require.NoError(s.T(), err)
	if sess != nil && sess.cookie != nil {
		req.AddCookie(sess.cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.T(), err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	_ = resp.Body.Close()
	return resp, data
}

func (s *IntegrationSuite) signup(email string, admin bool) *httpSession {
	body := fmt.Sprintf(`{"name":"Test","email":%q,"password":"correcthorse"}`, email)
	resp, data := s.request("POST", "/auth/register", body, nil)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(data))

	if admin {
		_, err := db.Collection("users").UpdateOne(context.Background(),
			bson.M{"email": email}, bson.M{"$set": bson.M{"isAdmin": true}})
		require.NoError(s.T(), err)
	}

	login := fmt.Sprintf(`{"email":%q,"password":"correcthorse"}`, email)
	resp, data = s.request("POST", "/auth/login", login, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	for _, c := range resp.Cookies() {
		if c.Name == "erimuga_session" {
			return &httpSession{cookie: c}
		}
	}
	s.T().Fatal("login did not set a session cookie")
	return nil
}

func checkoutBody() string {
	return `{
		"items": [{"productId": "p1", "name": "Linen Shirt", "quantity": 2, "size": "M", "price": 500}],
		"amount": 1000,
		"address": {"street": "12 MG Road", "city": "Kochi", "state": "Kerala", "postalCode": "682001", "country": "India"}
	}`
}

func razorpaySign(intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(razorpayTestSecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *IntegrationSuite) TestCODCheckoutAndCancel() {
	sess := s.signup("cod@example.com", false)

	resp, data := s.request("POST", "/orders/place-order/cod", checkoutBody(), sess)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(data))

	var order models.Order
	require.NoError(s.T(), json.Unmarshal(data, &order))
	assert.Equal(s.T(), models.OrderStatusPlaced, order.Status)
	assert.False(s.T(), order.Payment)

	resp, data = s.request("DELETE", "/orders/"+order.ID.Hex(), "", sess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	var cancelled models.Order
	require.NoError(s.T(), json.Unmarshal(data, &cancelled))
	assert.Equal(s.T(), models.OrderStatusCancelled, cancelled.Status)

	resp, _ = s.request("DELETE", "/orders/"+order.ID.Hex(), "", sess)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationSuite) TestRazorpayVerification() {
	sess := s.signup("rzp@example.com", false)

	sig := razorpaySign("order_int_1", "pay_int_1")
	body := fmt.Sprintf(`{
		"razorpay_order_id": "order_int_1",
		"razorpay_payment_id": "pay_int_1",
		"razorpay_signature": %q,
		"items": [{"productId": "p1", "name": "Linen Shirt", "quantity": 1, "price": 500}],
		"amount": 500,
		"address": {"street": "12 MG Road", "city": "Kochi", "state": "Kerala", "postalCode": "682001", "country": "India"}
	}`, sig)

	resp, data := s.request("POST", "/orders/verify-payment", body, sess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	var order models.Order
	require.NoError(s.T(), json.Unmarshal(data, &order))
	assert.True(s.T(), order.Payment)
	assert.Equal(s.T(), models.PaymentStatusRazorpayReceived, order.PaymentStatus)

	forged := strings.Replace(body, sig, "forgedsignature", 1)
	resp, data = s.request("POST", "/orders/verify-payment", forged, sess)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	var errResp map[string]string
	require.NoError(s.T(), json.Unmarshal(data, &errResp))
	assert.Equal(s.T(), "Invalid payment signature", errResp["error"])
}

func (s *IntegrationSuite) TestAdminLifecycle() {
	userSess := s.signup("shopper@example.com", false)
	adminSess := s.signup("boss@example.com", true)

	resp, data := s.request("POST", "/orders/place-order/cod", checkoutBody(), userSess)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(data))
	var order models.Order
	require.NoError(s.T(), json.Unmarshal(data, &order))
	statusPath := "/orders/" + order.ID.Hex() + "/status"

	resp, data = s.request("PUT", statusPath, `{"status": "Shipped"}`, adminSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))

	resp, data = s.request("PUT", statusPath, `{"paymentStatus": "COD - Received"}`, adminSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	var updated models.Order
	require.NoError(s.T(), json.Unmarshal(data, &updated))
	assert.True(s.T(), updated.Payment)

	resp, _ = s.request("PUT", statusPath, `{"status": "Shipped"}`, userSess)
	assert.Equal(s.T(), http.StatusForbidden, resp.StatusCode)

	resp, data = s.request("GET", "/orders", "", adminSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	assert.True(s.T(), bytes.Contains(data, []byte("COD - Received")))

	resp, _ = s.request("DELETE", "/admin/orders/"+order.ID.Hex(), "", adminSess)
	assert.Equal(s.T(), http.StatusNoContent, resp.StatusCode)
}

func (s *IntegrationSuite) TestCartFlow() {
	adminSess := s.signup("catalog@example.com", true)
	userSess := s.signup("cart@example.com", false)

	resp, data := s.request("POST", "/products",
		`{"name": "Linen Shirt", "category": "Men", "subcategory": "Shirts", "price": 500}`, adminSess)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, string(data))
	var product models.Product
	require.NoError(s.T(), json.Unmarshal(data, &product))

	addBody := fmt.Sprintf(`{"productId": %q, "size": "M", "quantity": 1}`, product.ID.Hex())
	resp, data = s.request("POST", "/cart/add", addBody, userSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))

	resp, data = s.request("POST", "/cart/add", addBody, userSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, string(data))
	var cart []models.CartItem
	require.NoError(s.T(), json.Unmarshal(data, &cart))
	require.Len(s.T(), cart, 1)
	assert.Equal(s.T(), 2, cart[0].Quantity)

	// Checkout clears the cart.
	resp, _ = s.request("POST", "/orders/place-order/cod", checkoutBody(), userSess)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	resp, data = s.request("GET", "/cart", "", userSess)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	require.NoError(s.T(), json.Unmarshal(data, &cart))
	assert.Empty(s.T(), cart)
}
