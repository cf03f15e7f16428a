package paymentgateway

// CreateOrderRequest — запрос шлюзу на создание заказа.
//
// Amount задаётся в минимальных единицах валюты. Notes привязывают заказ к
// пользователю для последующей сверки на стороне шлюза.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order — ответ шлюза на создание заказа.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
