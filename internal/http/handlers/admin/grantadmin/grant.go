// Package grantadmin реализует HTTP-обработчик bootstrap-а администратора.
package grantadmin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/docupress/entitlement-service/internal/http/response"
	"github.com/docupress/entitlement-service/internal/lib/sl"
	"github.com/docupress/entitlement-service/internal/services/admin"
	"github.com/docupress/entitlement-service/internal/storage"
)

// Request — входные данные bootstrap-а администратора.
type Request struct {
	UserUID string `json:"user_id" validate:"required,uuid"`
	Phone   string `json:"phone" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выдачи прав.
type Service interface {
	Grant(ctx context.Context, userUID, claimedPhone string) error
}

// Handler управляет HTTP-запросами на выдачу административных прав.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Выдать административные права
// @Description Выставляет is_admin профилю, если телефон входит в список супер-администраторов.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор профиля и телефон"
// @Success 200 {object} map[string]any "Права выданы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Телефон не в списке разрешённых"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/bootstrap [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grant"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	if err := h.service.Grant(r.Context(), req.UserUID, req.Phone); err != nil {
		switch {
		case errors.Is(err, admin.ErrPhoneNotAllowed):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, storage.ErrProfileNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		default:
			log.Error("failed to grant admin rights", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not grant admin rights"))
		}
		return
	}

	log.Info("admin rights granted", slog.String("user_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": true,
	}))
}
