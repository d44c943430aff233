package purchase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/metrics"
	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// ContestRepository сохраняет записи о завершённых покупках.
type ContestRepository interface {
	SaveContest(ctx context.Context, rec models.ContestRecord) error
}

// Registry реестр живых сессий покупки. Владеет сессиями от создания до
// терминального статуса, после чего убирает их по истечении срока хранения.
type Registry struct {
	ledger    Ledger
	repo      ContestRepository
	pub       EventPublisher
	log       *slog.Logger
	ttl       time.Duration
	retention time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry создаёт реестр сессий. ttl ограничивает жизнь неоплаченной
// сессии, retention — хранение терминальной.
func NewRegistry(ledger Ledger, repo ContestRepository, pub EventPublisher,
	log *slog.Logger, ttl, retention time.Duration) *Registry {
	return &Registry{
		ledger:    ledger,
		repo:      repo,
		pub:       pub,
		log:       log,
		ttl:       ttl,
		retention: retention,
		sessions:  make(map[string]*Session),
	}
}

// Create регистрирует новую сессию для проверенного запроса и его квоты.
func (r *Registry) Create(creator string, req *models.ValidatedRequest, quote models.PurchaseQuote) *Session {
	s := &Session{
		id:             uuid.NewString(),
		creator:        creator,
		request:        req.ContestCreationRequest,
		ledger:         r.ledger,
		pub:            r.pub,
		log:            r.log,
		quote:          quote.Clone(),
		status:         models.StatusQuoted,
		oversized:      req.Oversized,
		oversizedBytes: req.OversizedBytes,
		createdAt:      time.Now(),
		subs:           make(map[int]chan models.SessionEvent),
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return s
}

// Get возвращает сессию по идентификатору. Чужая или неизвестная сессия
// неразличимы для клиента.
func (r *Registry) Get(id, creator string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || s.creator != creator {
		return nil, models.ErrUnknownSession
	}
	return s, nil
}

// SubmitPayment проверяет платёж по сессии.
func (r *Registry) SubmitPayment(ctx context.Context, id, creator, proof string) error {
	s, err := r.Get(id, creator)
	if err != nil {
		return err
	}

	if err := s.SubmitPayment(ctx, proof); err != nil {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.PaymentsTotal.WithLabelValues("ok").Inc()
	return nil
}

// Complete отправляет транзакцию создания конкурса и записывает результат
// в хранилище. Отказ записи не отменяет уже созданный конкурс.
func (r *Registry) Complete(ctx context.Context, id, creator string) (string, error) {
	s, err := r.Get(id, creator)
	if err != nil {
		return "", err
	}

	contestID, err := s.Complete(ctx)
	if err != nil {
		return "", err
	}

	rec := models.ContestRecord{
		ContestID: contestID,
		SessionID: s.ID(),
		Creator:   s.Creator(),
		Name:      s.request.Name,
		PricePaid: s.Quote().Total(),
		Oversized: s.oversized,
	}
	if err := r.repo.SaveContest(context.WithoutCancel(ctx), rec); err != nil {
		r.log.Error("failed to record completed contest",
			slog.String("contest_id", contestID), sl.Err(err))
	}

	return contestID, nil
}

// Run запускает периодическую уборку до отмены контекста.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Sweep просрочивает застоявшиеся сессии и убирает терминальные,
// отлежавшие срок хранения.
func (r *Registry) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.expire(r.ttl, now) {
			r.log.Info("session expired", slog.String("session_id", id))
		}
		if s.collectable(r.retention, now) {
			delete(r.sessions, id)
			metrics.ActiveSessions.Dec()
		}
	}
}

// Len возвращает число живых сессий.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
