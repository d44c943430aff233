package purchase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	"github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

type mockLedger struct {
	VerifyPaymentFunc         func(ctx context.Context, proof string, amount int64) error
	SubmitContestCreationFunc func(ctx context.Context, req models.ContestCreationRequest) (string, error)
	DataFeeRateFunc           func(ctx context.Context) (int64, error)
}

func (m *mockLedger) VerifyPayment(ctx context.Context, proof string, amount int64) error {
	return m.VerifyPaymentFunc(ctx, proof, amount)
}

func (m *mockLedger) SubmitContestCreation(ctx context.Context, req models.ContestCreationRequest) (string, error) {
	return m.SubmitContestCreationFunc(ctx, req)
}

func (m *mockLedger) DataFeeRate(ctx context.Context) (int64, error) {
	if m.DataFeeRateFunc != nil {
		return m.DataFeeRateFunc(ctx)
	}
	return 0, nil
}

type mockRepo struct {
	SaveContestFunc func(ctx context.Context, rec models.ContestRecord) error
}

func (m *mockRepo) SaveContest(ctx context.Context, rec models.ContestRecord) error {
	if m.SaveContestFunc != nil {
		return m.SaveContestFunc(ctx, rec)
	}
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []models.SessionEvent
}

func (m *mockPublisher) Publish(event models.SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func okLedger() *mockLedger {
	return &mockLedger{
		VerifyPaymentFunc: func(context.Context, string, int64) error { return nil },
		SubmitContestCreationFunc: func(context.Context, models.ContestCreationRequest) (string, error) {
			return "contest-1", nil
		},
	}
}

func validated(oversizedBytes int64) *models.ValidatedRequest {
	return &models.ValidatedRequest{
		ContestCreationRequest: models.ContestCreationRequest{
			Name:           "Best mascot",
			Contestants:    []models.Contestant{{Name: "Gopher"}, {Name: "Ferris"}},
			Type:           models.ContestTypeOneOfN,
			TallyAlgorithm: models.TallyPlurality,
		},
		Oversized:      oversizedBytes > 0,
		OversizedBytes: oversizedBytes,
	}
}

func newRegistry(ledger purchase.Ledger, pub purchase.EventPublisher) *purchase.Registry {
	return purchase.NewRegistry(ledger, &mockRepo{}, pub, sl.DiscardLogger(), time.Hour, time.Hour)
}

func TestSession_PaymentFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path to completed", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		require.Equal(t, models.StatusQuoted, s.Status())
		require.NoError(t, s.SubmitPayment(ctx, "proof"))
		require.Equal(t, models.StatusPaid, s.Status())

		contestID, err := s.Complete(ctx)
		require.NoError(t, err)
		assert.Equal(t, "contest-1", contestID)
		assert.Equal(t, models.StatusCompleted, s.Status())
		assert.Equal(t, "contest-1", s.ContestID())
	})

	t.Run("second payment reports AlreadyPaid", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		require.NoError(t, s.SubmitPayment(ctx, "proof"))
		err := s.SubmitPayment(ctx, "proof")
		assert.ErrorIs(t, err, models.ErrAlreadyPaid)
		assert.Equal(t, models.StatusPaid, s.Status())
	})

	t.Run("verification failure keeps state for retry", func(t *testing.T) {
		calls := 0
		ledger := okLedger()
		ledger.VerifyPaymentFunc = func(context.Context, string, int64) error {
			calls++
			if calls == 1 {
				return models.ErrPaymentNotFound
			}
			return nil
		}
		reg := newRegistry(ledger, &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		err := s.SubmitPayment(ctx, "proof")
		assert.ErrorIs(t, err, models.ErrPaymentNotFound)
		assert.Equal(t, models.StatusPendingPayment, s.Status())

		require.NoError(t, s.SubmitPayment(ctx, "proof"))
		assert.Equal(t, models.StatusPaid, s.Status())
	})

	t.Run("insufficient funds passes through unchanged", func(t *testing.T) {
		ledger := okLedger()
		ledger.VerifyPaymentFunc = func(context.Context, string, int64) error {
			return models.ErrInsufficientFunds
		}
		reg := newRegistry(ledger, &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		assert.ErrorIs(t, s.SubmitPayment(ctx, "proof"), models.ErrInsufficientFunds)
	})

	t.Run("oversized surcharge applied before verification", func(t *testing.T) {
		var verified int64
		ledger := okLedger()
		ledger.DataFeeRateFunc = func(context.Context) (int64, error) { return 7, nil }
		ledger.VerifyPaymentFunc = func(_ context.Context, _ string, amount int64) error {
			verified = amount
			return nil
		}
		reg := newRegistry(ledger, &mockPublisher{})
		// 1500 байт сверх мягких порогов — две начатых KiB по ставке 7.
		s := reg.Create("alice", validated(1500), models.PurchaseQuote{Base: 150})

		require.NoError(t, s.SubmitPayment(ctx, "proof"))

		quote := s.Quote()
		assert.Equal(t, int64(150), quote.Base)
		assert.Equal(t, int64(14), quote.Surcharges[purchase.SurchargeOversizedData])
		assert.Equal(t, int64(164), quote.Total())
		assert.Equal(t, int64(164), verified)
	})
}

func TestSession_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("NotPaid before payment", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		_, err := s.Complete(ctx)
		assert.ErrorIs(t, err, models.ErrNotPaid)
		assert.Equal(t, models.StatusQuoted, s.Status())
	})

	t.Run("AlreadyCompleted after completion", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})
		require.NoError(t, s.SubmitPayment(ctx, "proof"))
		_, err := s.Complete(ctx)
		require.NoError(t, err)

		_, err = s.Complete(ctx)
		assert.ErrorIs(t, err, models.ErrAlreadyCompleted)
	})

	t.Run("ledger failure cancels with reason", func(t *testing.T) {
		ledger := okLedger()
		ledger.SubmitContestCreationFunc = func(context.Context, models.ContestCreationRequest) (string, error) {
			return "", errors.New("chain rejected transaction")
		}
		pub := &mockPublisher{}
		reg := newRegistry(ledger, pub)
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})
		require.NoError(t, s.SubmitPayment(ctx, "proof"))

		_, err := s.Complete(ctx)
		require.Error(t, err)
		assert.Equal(t, models.StatusCancelled, s.Status())

		pub.mu.Lock()
		last := pub.events[len(pub.events)-1]
		pub.mu.Unlock()
		assert.Equal(t, models.StatusCancelled, last.Status)
		assert.Equal(t, "chain rejected transaction", last.Reason)
	})
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("events arrive in order", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		ch, unsubscribe := s.Subscribe()
		defer unsubscribe()

		require.NoError(t, s.SubmitPayment(ctx, "proof"))

		first := <-ch
		second := <-ch
		assert.Equal(t, models.StatusPendingPayment, first.Status)
		assert.Equal(t, models.StatusPaid, second.Status)
	})

	t.Run("unsubscribe closes channel and detaches", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		ch, unsubscribe := s.Subscribe()
		unsubscribe()
		_, open := <-ch
		assert.False(t, open)

		// Отписка не мешает дальнейшим переходам.
		require.NoError(t, s.SubmitPayment(ctx, "proof"))
	})
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown and foreign sessions look the same", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})

		_, err := reg.Get("no-such-id", "alice")
		assert.ErrorIs(t, err, models.ErrUnknownSession)

		_, err = reg.Get(s.ID(), "mallory")
		assert.ErrorIs(t, err, models.ErrUnknownSession)

		got, err := reg.Get(s.ID(), "alice")
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("complete records contest", func(t *testing.T) {
		var saved models.ContestRecord
		repo := &mockRepo{SaveContestFunc: func(_ context.Context, rec models.ContestRecord) error {
			saved = rec
			return nil
		}}
		reg := purchase.NewRegistry(okLedger(), repo, &mockPublisher{}, sl.DiscardLogger(), time.Hour, time.Hour)
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})
		require.NoError(t, reg.SubmitPayment(ctx, s.ID(), "alice", "proof"))

		contestID, err := reg.Complete(ctx, s.ID(), "alice")
		require.NoError(t, err)
		assert.Equal(t, contestID, saved.ContestID)
		assert.Equal(t, "alice", saved.Creator)
		assert.Equal(t, int64(150), saved.PricePaid)
	})

	t.Run("sweep expires stale sessions and collects terminal ones", func(t *testing.T) {
		reg := purchase.NewRegistry(okLedger(), &mockRepo{}, &mockPublisher{},
			sl.DiscardLogger(), time.Minute, time.Minute)
		s := reg.Create("alice", validated(0), models.PurchaseQuote{Base: 150})
		require.Equal(t, 1, reg.Len())

		reg.Sweep(time.Now().Add(2 * time.Minute))
		assert.Equal(t, models.StatusExpired, s.Status())

		assert.ErrorIs(t, s.SubmitPayment(ctx, "proof"), models.ErrSessionExpired)
		_, err := s.Complete(ctx)
		assert.ErrorIs(t, err, models.ErrSessionExpired)

		reg.Sweep(time.Now().Add(4 * time.Minute))
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("quote is fixed at creation", func(t *testing.T) {
		reg := newRegistry(okLedger(), &mockPublisher{})
		quote := models.PurchaseQuote{Base: 150}
		s := reg.Create("alice", validated(0), quote)

		// Перезагрузка конфигурации меняет только будущие квоты.
		quote.Base = 9000
		assert.Equal(t, int64(150), s.Quote().Total())

		got := s.Quote()
		got.Base = 1
		assert.Equal(t, int64(150), s.Quote().Total())
	})
}
