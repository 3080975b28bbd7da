package purchasesub

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PurchaseSubscription(ctx context.Context, profileID string, days int) (*models.UserPlan, error) {
	args := m.Called(ctx, profileID, days)
	if res := args.Get(0); res != nil {
		return res.(*models.UserPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPurchaseSubscriptionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная покупка",
			body: `{"days":30}`,
			setupMock: func(m *MockService) {
				p := models.NewUserPlan(now)
				p.TrialEnded = true
				p.Subscription = &models.Subscription{Type: "30d", StartedAt: now, ExpiresAt: now.Add(30 * 24 * time.Hour)}
				m.On("PurchaseSubscription", mock.Anything, "alice", 30).Return(p, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"type":"30d"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"days":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "недопустимый срок",
			body:           `{"days":45}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `must be one of [30 60 90]`,
		},
		{
			name: "срок отключен в политике",
			body: `{"days":90}`,
			setupMock: func(m *MockService) {
				m.On("PurchaseSubscription", mock.Anything, "alice", 90).Return(nil, plan.ErrInvalidDuration)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `subscription duration is not allowed`,
		},
		{
			name: "ошибка хранилища",
			body: `{"days":60}`,
			setupMock: func(m *MockService) {
				m.On("PurchaseSubscription", mock.Anything, "alice", 60).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not purchase subscription`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/plan/subscription", bytes.NewBufferString(tt.body))
			req = req.WithContext(middlewarectx.WithProfileID(req.Context(), "alice"))
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
