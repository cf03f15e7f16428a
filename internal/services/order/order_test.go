package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/docupress/entitlement-service/internal/models"
	"github.com/docupress/entitlement-service/internal/paymentgateway"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(reqParams paymentgateway.CreateOrderRequest) (*paymentgateway.Order, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.Order), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Create(t *testing.T) {
	gatewayOrder := &paymentgateway.Order{
		ID:       "order_abc",
		Amount:   49900,
		Currency: "INR",
		Status:   "created",
	}

	tests := []struct {
		name           string
		userUID        string
		setupMocks     func(*MockRepository, *MockGatewayClient)
		expectedResult *Result
		expectedError  error
	}{
		{
			name:    "free profile - order created",
			userUID: "user123",
			setupMocks: func(r *MockRepository, g *MockGatewayClient) {
				r.On("GetProfile", mock.Anything, "user123").Return(&models.Profile{UID: "user123"}, nil).Once()
				g.On("CreateOrder", mock.MatchedBy(func(req paymentgateway.CreateOrderRequest) bool {
					return req.Amount == 49900 && req.Currency == "INR" &&
						req.Notes["user_uid"] == "user123" && req.Receipt != ""
				})).Return(gatewayOrder, nil).Once()
			},
			expectedResult: &Result{Order: gatewayOrder},
		},
		{
			name:    "premium profile - no gateway call",
			userUID: "user123",
			setupMocks: func(r *MockRepository, g *MockGatewayClient) {
				r.On("GetProfile", mock.Anything, "user123").Return(&models.Profile{UID: "user123", IsPremium: true}, nil).Once()
			},
			expectedResult: &Result{AlreadyPaid: true},
		},
		{
			name:    "profile read error",
			userUID: "user123",
			setupMocks: func(r *MockRepository, g *MockGatewayClient) {
				r.On("GetProfile", mock.Anything, "user123").Return(nil, errors.New("db error")).Once()
			},
			expectedError: errors.New("failed to read profile: db error"),
		},
		{
			name:    "gateway error",
			userUID: "user123",
			setupMocks: func(r *MockRepository, g *MockGatewayClient) {
				r.On("GetProfile", mock.Anything, "user123").Return(&models.Profile{UID: "user123"}, nil).Once()
				g.On("CreateOrder", mock.Anything).Return(nil, errors.New("gateway unavailable")).Once()
			},
			expectedError: ErrGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			gateway := new(MockGatewayClient)
			service := New(repo, gateway, 49900, "INR", newNoopLogger())

			tt.setupMocks(repo, gateway)

			result, err := service.Create(context.Background(), tt.userUID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedError, ErrGateway) {
					assert.ErrorIs(t, err, ErrGateway)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
			}

			repo.AssertExpectations(t)
			gateway.AssertExpectations(t)
		})
	}
}

func TestService_Create_FreshOrderEachAttempt(t *testing.T) {
	repo := new(MockRepository)
	gateway := new(MockGatewayClient)
	service := New(repo, gateway, 49900, "INR", newNoopLogger())

	repo.On("GetProfile", mock.Anything, "user123").Return(&models.Profile{UID: "user123"}, nil).Twice()

	var receipts []string
	gateway.On("CreateOrder", mock.Anything).Run(func(args mock.Arguments) {
		req := args.Get(0).(paymentgateway.CreateOrderRequest)
		receipts = append(receipts, req.Receipt)
	}).Return(&paymentgateway.Order{ID: "order_abc", Status: "created"}, nil).Twice()

	_, err := service.Create(context.Background(), "user123")
	assert.NoError(t, err)
	_, err = service.Create(context.Background(), "user123")
	assert.NoError(t, err)

	assert.Len(t, receipts, 2)
	assert.NotEqual(t, receipts[0], receipts[1])

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}
