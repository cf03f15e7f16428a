package paymentgateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateOrder(t *testing.T) {
	reqParams := CreateOrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "rcpt_test",
		Notes:    map[string]string{"user_uid": "user123"},
	}

	t.Run("success - order created", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/orders", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			username, password, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key_id", username)
			assert.Equal(t, "key_secret", password)

			var got CreateOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, reqParams, got)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(Order{
				ID:       "order_abc",
				Amount:   49900,
				Currency: "INR",
				Receipt:  "rcpt_test",
				Status:   "created",
			})
		}))
		defer server.Close()

		client := NewClient("key_id", "key_secret", server.URL)

		order, err := client.CreateOrder(reqParams)
		require.NoError(t, err)
		assert.Equal(t, "order_abc", order.ID)
		assert.Equal(t, int64(49900), order.Amount)
		assert.Equal(t, "created", order.Status)
	})

	t.Run("gateway error includes response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"description":"amount is invalid"}}`))
		}))
		defer server.Close()

		client := NewClient("key_id", "key_secret", server.URL)

		order, err := client.CreateOrder(reqParams)
		assert.Nil(t, order)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
		assert.Contains(t, err.Error(), "amount is invalid")
	})

	t.Run("invalid response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("not-json"))
		}))
		defer server.Close()

		client := NewClient("key_id", "key_secret", server.URL)

		order, err := client.CreateOrder(reqParams)
		assert.Nil(t, order)
		assert.Error(t, err)
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient("key_id", "key_secret", server.URL)

		for range 5 {
			_, err := client.CreateOrder(reqParams)
			require.Error(t, err)
		}

		// Шестой запрос отклоняется самим breaker-ом, без обращения к шлюзу.
		server.Close()
		_, err := client.CreateOrder(reqParams)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "circuit breaker is open")
	})
}
