package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// MockPurchaser реализует интерфейс purchase.Purchaser
type MockPurchaser struct {
	mock.Mock
}

func (m *MockPurchaser) PurchaseContest(ctx context.Context, account string, req models.ContestCreationRequest) (*purchasesvc.Session, error) {
	args := m.Called(ctx, account, req)
	session, _ := args.Get(0).(*purchasesvc.Session)
	return session, args.Error(1)
}

type stubLedger struct{}

func (stubLedger) VerifyPayment(context.Context, string, int64) error { return nil }
func (stubLedger) SubmitContestCreation(context.Context, models.ContestCreationRequest) (string, error) {
	return "contest-1", nil
}
func (stubLedger) DataFeeRate(context.Context) (int64, error) { return 0, nil }

type stubRepo struct{}

func (stubRepo) SaveContest(context.Context, models.ContestRecord) error { return nil }

type stubPublisher struct{}

func (stubPublisher) Publish(models.SessionEvent) error { return nil }

func newTestSession(creator string, base int64) *purchasesvc.Session {
	registry := purchasesvc.NewRegistry(stubLedger{}, stubRepo{}, stubPublisher{},
		sl.DiscardLogger(), time.Hour, time.Hour)
	return registry.Create(creator, &models.ValidatedRequest{
		ContestCreationRequest: models.ContestCreationRequest{
			Name:           "Best pie",
			Type:           models.ContestTypeOneOfN,
			TallyAlgorithm: models.TallyPlurality,
			Contestants: []models.Contestant{
				{Name: "Apple"}, {Name: "Cherry"}, {Name: "Plum"},
			},
		},
	}, models.PurchaseQuote{Base: base})
}

func TestPurchaseHandler(t *testing.T) {
	logger := sl.DiscardLogger()

	validBody := map[string]any{
		"name": "Best pie",
		"contestants": []map[string]string{
			{"name": "Apple"}, {"name": "Cherry"}, {"name": "Plum"},
		},
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockPurchaser)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]any)
	}{
		{
			name:        "успешная покупка",
			requestBody: validBody,
			setupMock: func(m *MockPurchaser) {
				m.On("PurchaseContest", mock.Anything, "alice", mock.AnythingOfType("models.ContestCreationRequest")).
					Return(newTestSession("alice", 60), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "OK", body["status"])
				data := body["data"].(map[string]any)
				assert.NotEmpty(t, data["session_id"])
				assert.EqualValues(t, 60, data["total"])
			},
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockPurchaser) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Error", body["status"])
			},
		},
		{
			name: "неподдерживаемый тип конкурса",
			requestBody: map[string]any{
				"name": "Best pie",
				"type": "ranked_choice",
			},
			setupMock:      func(_ *MockPurchaser) {},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body["error"], "Type")
			},
		},
		{
			name:        "отказ доменной валидации",
			requestBody: map[string]any{"name": ""},
			setupMock: func(m *MockPurchaser) {
				m.On("PurchaseContest", mock.Anything, "alice", mock.AnythingOfType("models.ContestCreationRequest")).
					Return(nil, models.ErrEmptyName)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(models.ErrEmptyName), body["error"])
			},
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody,
			setupMock: func(m *MockPurchaser) {
				m.On("PurchaseContest", mock.Anything, "alice", mock.AnythingOfType("models.ContestCreationRequest")).
					Return(nil, errors.New("config unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Error", body["status"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPurchaser := new(MockPurchaser)
			tt.setupMock(mockPurchaser)

			handler := New(logger, mockPurchaser)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/contests/purchase", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), mware.AccountKey, "alice")
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var got map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			tt.checkBody(t, got)

			mockPurchaser.AssertExpectations(t)
		})
	}
}

func TestPurchaseHandler_DefaultsSingleVariants(t *testing.T) {
	mockPurchaser := new(MockPurchaser)
	mockPurchaser.On("PurchaseContest", mock.Anything, "alice",
		mock.MatchedBy(func(req models.ContestCreationRequest) bool {
			return req.Type == models.ContestTypeOneOfN &&
				req.TallyAlgorithm == models.TallyPlurality
		})).Return(newTestSession("alice", 60), nil)

	handler := New(sl.DiscardLogger(), mockPurchaser)

	body, err := json.Marshal(map[string]any{"name": "Best pie"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contests/purchase", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), mware.AccountKey, "alice"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockPurchaser.AssertExpectations(t)
}
