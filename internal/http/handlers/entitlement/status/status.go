// Package status реализует HTTP-обработчик проверки доступа пользователя.
package status

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
	"github.com/docupress/entitlement-service/internal/services/entitlement"
	"github.com/docupress/entitlement-service/internal/storage"
)

// Service описывает интерфейс вычисления решения о доступе.
type Service interface {
	Status(ctx context.Context, userUID string) (*entitlement.Status, error)
}

// Handler управляет HTTP-запросами проверки доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к платным функциям
// @Description Возвращает решение о доступе: оплаченный профиль либо действующее пробное окно.
// @Tags Entitlement
// @Produce  json
// @Success 200 {object} entitlement.Status "Решение о доступе"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Router /entitlement [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.status"
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

	result, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to compute entitlement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute entitlement"))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
