package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/docupress/entitlement-service/internal/http/middlewarectx"
	"github.com/docupress/entitlement-service/internal/services/entitlement"
	"github.com/docupress/entitlement-service/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, userUID string) (*entitlement.Status, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Status), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "premium profile entitled",
			userUID: "user123",
			setupMocks: func(s *MockService) {
				s.On("Status", mock.Anything, "user123").Return(&entitlement.Status{
					Entitled:  true,
					IsPremium: true,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"entitled":true,"is_premium":true,"trial_active":false,"trial_remaining_seconds":0}}`,
		},
		{
			name:    "free profile inside trial",
			userUID: "user123",
			setupMocks: func(s *MockService) {
				s.On("Status", mock.Anything, "user123").Return(&entitlement.Status{
					Entitled:       true,
					TrialActive:    true,
					TrialRemaining: 3600,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"entitled":true,"is_premium":false,"trial_active":true,"trial_remaining_seconds":3600}}`,
		},
		{
			name:    "free profile after trial",
			userUID: "user123",
			setupMocks: func(s *MockService) {
				s.On("Status", mock.Anything, "user123").Return(&entitlement.Status{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"entitled":false,"is_premium":false,"trial_active":false,"trial_remaining_seconds":0}}`,
		},
		{
			name:           "missing user UID",
			userUID:        "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "profile not found",
			userUID: "ghost",
			setupMocks: func(s *MockService) {
				s.On("Status", mock.Anything, "ghost").Return(nil, storage.ErrProfileNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"profile not found"}`,
		},
		{
			name:    "internal error",
			userUID: "user123",
			setupMocks: func(s *MockService) {
				s.On("Status", mock.Anything, "user123").Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not compute entitlement"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/entitlement", nil)

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}
