package paymentgateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Order]
}

// NewClient создаёт новый клиент платёжного шлюза.
//
// Запросы на создание заказа идут через circuit breaker: после пяти
// последовательных отказов шлюза клиент минуту отвечает ошибкой сразу,
// не дожидаясь таймаута соединения.
func NewClient(keyID, keySecret, apiURL string) *Client {
	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker[*Order](settings),
	}
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder отправляет запрос на создание заказа для фиксированной суммы.
//
// Шлюз возвращает идентификатор заказа, по которому клиент завершает оплату
// на своей стороне; локально заказ не сохраняется.
func (c *Client) CreateOrder(reqParams CreateOrderRequest) (*Order, error) {
	return c.breaker.Execute(func() (*Order, error) {
		req, err := c.newRequest("POST", "/v1/orders", reqParams)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			if len(msg) > 0 {
				return nil, errors.New("unexpected status " + resp.Status + ": " + string(msg))
			}
			return nil, errors.New("unexpected status: " + resp.Status)
		}

		var order Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, err
		}
		return &order, nil
	})
}
