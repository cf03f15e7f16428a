// Package ordercreate реализует HTTP-обработчик создания платёжного заказа.
//
// Handler извлекает uid пользователя из контекста, вызывает бизнес-логику
// выпуска заказа и возвращает либо признак уже оплаченного доступа, либо
// реквизиты созданного заказа вместе с публичным ключом шлюза.
package ordercreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/docupress/entitlement-service/internal/http/middlewarectx"
	"github.com/docupress/entitlement-service/internal/http/response"
	"github.com/docupress/entitlement-service/internal/lib/sl"
	"github.com/docupress/entitlement-service/internal/services/order"
)

// Service описывает интерфейс бизнес-логики выпуска заказа.
type Service interface {
	Create(ctx context.Context, userUID string) (*order.Result, error)
}

// Handler управляет HTTP-запросами на создание платёжных заказов.
type Handler struct {
	log              *slog.Logger // Логгер для записи информации и ошибок
	service          Service      // Сервис бизнес-логики выпуска заказов
	gatewayPublicKey string       // Публичный ключ шлюза для checkout на клиенте
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, gatewayPublicKey string) *Handler {
	return &Handler{
		log:              log,
		service:          service,
		gatewayPublicKey: gatewayPublicKey,
	}
}

// ServeHTTP godoc
// @Summary Создать платёжный заказ
// @Description Выпускает заказ на оплату постоянного доступа. Для уже оплаченного профиля возвращает already_paid.
// @Tags Orders
// @Produce  json
// @Success 200 {object} map[string]any "Реквизиты заказа либо already_paid"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного шлюза или сервера"
// @Router /orders [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
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

	result, err := h.service.Create(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, order.ErrGateway) {
			log.Error("payment gateway failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	if result.AlreadyPaid {
		log.Info("order skipped, profile already premium", slog.String("user_uid", userUID))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"already_paid": true,
		}))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id":           result.Order.ID,
		"amount":             result.Order.Amount,
		"currency":           result.Order.Currency,
		"gateway_public_key": h.gatewayPublicKey,
	}))
}
