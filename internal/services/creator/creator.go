// Package creator содержит бизнес-логику создания конкурса: проверку
// запроса по лимитам, расчёт цены и регистрацию сессии покупки.
package creator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/contest-creator/internal/metrics"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	"github.com/magabrotheeeer/contest-creator/internal/services/pricing"
	"github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// SnapshotProvider отдаёт текущий снимок конфигурации и умеет его перечитывать.
type SnapshotProvider interface {
	// Snapshot возвращает снимок лимитов и прайс-листа.
	Snapshot(ctx context.Context) (*models.ConfigSnapshot, error)
	// Reload сбрасывает кешированный снимок; уже выданные квоты не меняются.
	Reload(ctx context.Context) error
}

// SessionFactory регистрирует сессию покупки для принятого запроса.
type SessionFactory interface {
	Create(creator string, req *models.ValidatedRequest, quote models.PurchaseQuote) *purchase.Session
}

// Service entry point сервиса: оркестрирует Validator → PriceCalculator →
// создание сессии и отдаёт справочные запросы по конфигурации.
type Service struct {
	config   SnapshotProvider
	sessions SessionFactory
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(config SnapshotProvider, sessions SessionFactory, log *slog.Logger) *Service {
	return &Service{
		config:   config,
		sessions: sessions,
		log:      log,
	}
}

// PurchaseContest проверяет запрос, считает цену и регистрирует сессию.
// Ошибка валидации не оставляет следов: сессия не создаётся.
func (s *Service) PurchaseContest(ctx context.Context, account string, req models.ContestCreationRequest) (*purchase.Session, error) {
	const op = "creator.PurchaseContest"

	snapshot, err := s.config.Snapshot(ctx)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	validatedReq, err := pricing.Validate(req, snapshot.Limits, time.Now())
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	quote := pricing.Price(validatedReq, snapshot.Schedule)
	session := s.sessions.Create(account, validatedReq, quote)

	s.log.Info("created purchase session",
		slog.String("session_id", session.ID()),
		slog.String("account", account),
		slog.Int64("base_price", quote.Base),
		slog.Bool("oversized", validatedReq.Oversized))
	metrics.PurchasesTotal.WithLabelValues("ok").Inc()

	return session, nil
}

// PriceSchedule возвращает прайс-лист в каноническом порядке позиций.
func (s *Service) PriceSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	const op = "creator.PriceSchedule"

	snapshot, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]models.ScheduleEntry, 0, len(models.LineItems))
	for _, item := range models.LineItems {
		if price, ok := snapshot.Schedule[item]; ok {
			entries = append(entries, models.ScheduleEntry{LineItem: item, Price: price})
		}
	}
	return entries, nil
}

// ContestLimits возвращает лимиты в каноническом порядке имён.
func (s *Service) ContestLimits(ctx context.Context) ([]models.LimitEntry, error) {
	const op = "creator.ContestLimits"

	snapshot, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]models.LimitEntry, 0, len(models.LimitNames))
	for _, name := range models.LimitNames {
		if value, ok := snapshot.Limits[name]; ok {
			entries = append(entries, models.LimitEntry{Limit: name, Value: value})
		}
	}
	return entries, nil
}

// Reload перечитывает конфигурацию. Существующие сессии сохраняют квоты.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.config.Reload(ctx); err != nil {
		return fmt.Errorf("creator.Reload: %w", err)
	}
	s.log.Info("configuration snapshot invalidated")
	return nil
}
