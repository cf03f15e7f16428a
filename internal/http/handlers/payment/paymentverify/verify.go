// Package paymentverify реализует HTTP-обработчик подтверждения платежа.
//
// Handler принимает JSON с реквизитами завершённого платежа, валидирует их,
// извлекает uid пользователя из контекста и делегирует проверку подписи и
// апгрейд профиля сервису. Несовпадение подписи и отказ записи после
// успешной проверки разводятся по разным статусам: первый — ошибка клиента,
// второй — случай для ручной сверки, платёж уже захвачен.
package paymentverify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/docupress/entitlement-service/internal/http/middlewarectx"
	"github.com/docupress/entitlement-service/internal/http/response"
	"github.com/docupress/entitlement-service/internal/lib/sl"
	"github.com/docupress/entitlement-service/internal/services/payment"
)

// Request — реквизиты завершённого платежа, полученные клиентом от шлюза.
type Request struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Service описывает интерфейс бизнес-логики проверки платежа.
type Service interface {
	VerifyAndUpgrade(ctx context.Context, userUID, orderID, paymentID, signature string) (*payment.Result, error)
}

// Handler управляет HTTP-запросами подтверждения платежа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис проверки платежа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить платёж
// @Description Проверяет подпись завершённого платежа и выставляет профилю постоянный доступ.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Реквизиты завершённого платежа"
// @Success 200 {object} map[string]any "Профиль премиальный"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подпись"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Платёж захвачен, запись не удалась — требуется повтор"
// @Router /payments/verify [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.VerifyAndUpgrade(r.Context(), userUID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSignatureMismatch):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment signature mismatch"))
		case errors.Is(err, payment.ErrPersistence):
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment captured but upgrade not persisted, please retry"))
		default:
			log.Error("failed to verify payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("payment verified", slog.String("user_uid", userUID), slog.Bool("upgraded", result.Upgraded))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success":    true,
		"is_premium": result.IsPremium,
	}))
}
