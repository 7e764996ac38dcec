package paystack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/commercekit/paystack-adapter/internal/domain"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/paystack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "sk_test_123"

// fakePaystack intercepts requests by method and path, mirroring how the
// live API shapes its responses.
func fakePaystack(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testSecretKey, r.Header.Get("Authorization"))

		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		h(w, r)
	}))
}

func newTestClient(t *testing.T, server *httptest.Server) *paystack.Client {
	t.Helper()

	client, err := paystack.NewClient(config.PaystackConfig{
		SecretKey: testSecretKey,
		BaseURL:   server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresSecretKey(t *testing.T) {
	_, err := paystack.NewClient(config.PaystackConfig{})

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeMissingSecretKey, domainErr.Code)
}

func TestInitializeTransaction_Success(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"POST /transaction/initialize": func(w http.ResponseWriter, r *http.Request) {
			var req paystack.InitializeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(2000), req.Amount)
			assert.Equal(t, "shopper@example.com", req.Email)
			assert.Equal(t, "NGN", req.Currency)
			assert.Equal(t, "session-1", req.Metadata["session_id"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]any{
					"authorization_url": "https://checkout.paystack.com/abc123",
					"access_code":       "abc123",
					"reference":         req.Reference,
				},
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	resp, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
		Amount:    2000,
		Email:     "shopper@example.com",
		Currency:  "NGN",
		Reference: "ref-1",
		Metadata:  map[string]any{"session_id": "session-1"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Status)
	assert.Equal(t, "ref-1", resp.Data.Reference)
	assert.Equal(t, "abc123", resp.Data.AccessCode)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.Data.AuthorizationURL)
}

func TestVerifyTransaction_DecodesSnapshotWithRawPayload(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"GET /transaction/verify/ref-1": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Verification successful",
				"data": map[string]any{
					"id":               123,
					"status":           "success",
					"reference":        "ref-1",
					"amount":           2000,
					"currency":         "GHS",
					"gateway_response": "Successful",
				},
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	resp, err := client.VerifyTransaction(context.Background(), "ref-1")

	require.NoError(t, err)
	assert.True(t, resp.Status)
	assert.Equal(t, int64(123), resp.Data.ID)
	assert.Equal(t, "success", resp.Data.Status)
	assert.Equal(t, float64(2000), resp.Data.Amount)
	// Raw keeps fields the typed snapshot does not model.
	assert.Equal(t, "Successful", resp.Data.Raw["gateway_response"])
}

func TestGetTransaction_UsesTransactionIDPath(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"GET /transaction/123": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Transaction retrieved",
				"data": map[string]any{
					"id":     123,
					"status": "failed",
				},
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	resp, err := client.GetTransaction(context.Background(), 123)

	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Data.Status)
}

func TestCreateRefund_Success(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"POST /refund": func(w http.ResponseWriter, r *http.Request) {
			var req paystack.RefundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(123), req.Transaction)
			assert.Equal(t, int64(2000), req.Amount)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Refund has been queued for processing",
				"data": map[string]any{
					"id":     55,
					"status": "pending",
					"amount": 2000,
				},
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	resp, err := client.CreateRefund(context.Background(), paystack.RefundRequest{
		Transaction: 123,
		Amount:      2000,
	})

	require.NoError(t, err)
	assert.True(t, resp.Status)
	assert.Equal(t, int64(55), resp.Data.ID)
}

func TestClient_MapsNon2xxToGatewayError(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"GET /transaction/verify/ref-unknown": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  false,
				"code":    "transaction_not_found",
				"message": "Transaction reference not found",
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.VerifyTransaction(context.Background(), "ref-unknown")

	require.Error(t, err)
	gwErr, ok := paystack.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "transaction_not_found", gwErr.Code)
	assert.Equal(t, "Transaction reference not found", gwErr.Message)
	assert.False(t, gwErr.IsRetryable())
}

func TestClient_5xxIsRetryable(t *testing.T) {
	server := fakePaystack(t, map[string]http.HandlerFunc{
		"POST /refund": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  false,
				"message": "Internal server error",
			})
		},
	})
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateRefund(context.Background(), paystack.RefundRequest{Transaction: 1, Amount: 100})

	require.Error(t, err)
	gwErr, ok := paystack.IsGatewayError(err)
	require.True(t, ok)
	assert.True(t, gwErr.IsRetryable())
}
