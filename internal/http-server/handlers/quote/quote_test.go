package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// MockSessionGetter реализует интерфейс quote.SessionGetter
type MockSessionGetter struct {
	mock.Mock
}

func (m *MockSessionGetter) Get(id, creator string) (*purchasesvc.Session, error) {
	args := m.Called(id, creator)
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

func newRequest(sessionID, account string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/quote", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", sessionID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, mware.AccountKey, account)
	return req.WithContext(ctx)
}

func TestQuoteHandler(t *testing.T) {
	registry := purchasesvc.NewRegistry(stubLedger{}, stubRepo{}, stubPublisher{},
		sl.DiscardLogger(), time.Hour, time.Hour)
	session := registry.Create("alice", &models.ValidatedRequest{
		ContestCreationRequest: models.ContestCreationRequest{Name: "Best pie"},
	}, models.PurchaseQuote{
		Base:       100,
		Surcharges: map[string]int64{"infinite-duration-contest": 50},
	})

	mockGetter := new(MockSessionGetter)
	mockGetter.On("Get", session.ID(), "alice").Return(session, nil)

	handler := New(sl.DiscardLogger(), mockGetter)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest(session.ID(), "alice"))

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	data := got["data"].(map[string]any)
	assert.EqualValues(t, 150, data["total"])
	assert.Equal(t, string(models.StatusQuoted), data["status"])

	mockGetter.AssertExpectations(t)
}

func TestQuoteHandler_UnknownSession(t *testing.T) {
	mockGetter := new(MockSessionGetter)
	mockGetter.On("Get", "missing", "alice").Return(nil, models.ErrUnknownSession)

	handler := New(sl.DiscardLogger(), mockGetter)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newRequest("missing", "alice"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"unknown session"}`, w.Body.String())
	mockGetter.AssertExpectations(t)
}
