// Package purchase реализует сессию покупки конкурса: конечный автомат
// Quoted → PendingPayment → Paid → Completed (с терминальными Cancelled и
// Expired), подписку на события сессии и реестр живых сессий.
package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// Ledger внешний леджер-адаптор: проверка оплаты, отправка транзакции
// создания конкурса и курс доплаты за объём данных.
type Ledger interface {
	VerifyPayment(ctx context.Context, proof string, amount int64) error
	SubmitContestCreation(ctx context.Context, req models.ContestCreationRequest) (string, error)
	DataFeeRate(ctx context.Context) (int64, error)
}

// EventPublisher публикует события сессии во внешнюю шину.
type EventPublisher interface {
	Publish(event models.SessionEvent) error
}

// SurchargeOversizedData ключ доплаты за превышение мягких порогов длины.
const SurchargeOversizedData = "oversized-data"

const subscriberBuffer = 32

// Session сессия покупки одного конкурса. Базовая цена квоты фиксируется
// при создании и не меняется даже после перезагрузки конфигурации.
// Все переходы статуса сериализуются мьютексом сессии: операции над одной
// сессией выполняются строго по очереди, сессии между собой независимы.
type Session struct {
	id      string
	creator string
	request models.ContestCreationRequest

	ledger Ledger
	pub    EventPublisher
	log    *slog.Logger

	mu             sync.Mutex
	quote          models.PurchaseQuote
	status         models.SessionStatus
	oversized      bool
	oversizedBytes int64
	dataFeeApplied bool
	contestID      string
	reason         string
	createdAt      time.Time
	terminalAt     time.Time
	subs           map[int]chan models.SessionEvent
	nextSub        int
}

// ID возвращает непрозрачный идентификатор сессии.
func (s *Session) ID() string { return s.id }

// Creator возвращает аккаунт, создавший сессию.
func (s *Session) Creator() string { return s.creator }

// Quote возвращает копию текущей квоты. Базовая цена неизменна,
// доплаты могут добавиться после первой попытки оплаты.
func (s *Session) Quote() models.PurchaseQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote.Clone()
}

// Status возвращает текущий статус сессии.
func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ContestID возвращает идентификатор созданного конкурса (после Completed).
func (s *Session) ContestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contestID
}

// Subscribe регистрирует подписчика на события сессии и возвращает канал
// событий вместе с функцией отписки. Доставка по каналу в порядке
// возникновения; подписчик, не вычитывающий события, считается отключённым
// и удаляется, не задерживая остальных.
func (s *Session) Subscribe() (<-chan models.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.SessionEvent, subscriberBuffer)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// SubmitPayment проверяет платёж через леджер и переводит сессию в Paid.
// Перед первой проверкой к квоте добавляется доплата за объём данных,
// если запрос был помечен Oversized. При неуспехе проверки состояние
// сессии не меняется и оплату можно повторить. Начатый вызов леджера
// доводится до конца, даже если исходный клиент отключился.
func (s *Session) SubmitPayment(ctx context.Context, proof string) error {
	const op = "purchase.SubmitPayment"
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case models.StatusPaid, models.StatusCompleted:
		return models.ErrAlreadyPaid
	case models.StatusExpired, models.StatusCancelled:
		return models.ErrSessionExpired
	}

	if s.status == models.StatusQuoted {
		s.setStatusLocked(models.StatusPendingPayment, "")
	}

	if s.oversized && !s.dataFeeApplied {
		rate, err := s.ledger.DataFeeRate(ctx)
		if err != nil {
			return fmt.Errorf("%s: data fee rate: %w", op, err)
		}
		fee := (s.oversizedBytes + 1023) / 1024 * rate
		s.dataFeeApplied = true
		if fee > 0 {
			if s.quote.Surcharges == nil {
				s.quote.Surcharges = make(map[string]int64)
			}
			s.quote.Surcharges[SurchargeOversizedData] = fee
			s.notifyLocked(models.EventQuoteChanged, "")
		}
	}

	if err := s.ledger.VerifyPayment(ctx, proof, s.quote.Total()); err != nil {
		return err
	}

	s.setStatusLocked(models.StatusPaid, "")
	return nil
}

// Complete отправляет транзакцию создания конкурса через леджер.
// Допустим только из Paid. Успех переводит сессию в Completed и возвращает
// идентификатор конкурса; отказ леджера переводит сессию в Cancelled с
// записанной причиной, так как неудачную отправку в цепочку нельзя
// безопасно повторить без повторной проверки оплаты.
func (s *Session) Complete(ctx context.Context) (string, error) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case models.StatusCompleted:
		return "", models.ErrAlreadyCompleted
	case models.StatusExpired, models.StatusCancelled:
		return "", models.ErrSessionExpired
	case models.StatusQuoted, models.StatusPendingPayment:
		return "", models.ErrNotPaid
	}

	contestID, err := s.ledger.SubmitContestCreation(ctx, s.request)
	if err != nil {
		s.setStatusLocked(models.StatusCancelled, err.Error())
		return "", fmt.Errorf("submit contest creation: %w", err)
	}

	s.contestID = contestID
	s.setStatusLocked(models.StatusCompleted, "")
	return contestID, nil
}

// expire переводит нетерминальную сессию в Expired, если её срок вышел.
func (s *Session) expire(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() || now.Sub(s.createdAt) < ttl {
		return false
	}
	s.setStatusLocked(models.StatusExpired, "session ttl elapsed")
	return true
}

// collectable сообщает, можно ли убрать терминальную сессию из реестра.
func (s *Session) collectable(retention time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status.Terminal() && now.Sub(s.terminalAt) >= retention
}

func (s *Session) setStatusLocked(status models.SessionStatus, reason string) {
	s.status = status
	s.reason = reason
	if status.Terminal() {
		s.terminalAt = time.Now()
	}
	s.notifyLocked(models.EventStatusChanged, reason)
}

func (s *Session) notifyLocked(eventType, reason string) {
	event := models.SessionEvent{
		Type:      eventType,
		SessionID: s.id,
		Status:    s.status,
		Quote:     s.quote.Clone(),
		Total:     s.quote.Total(),
		Reason:    reason,
		At:        time.Now(),
	}

	for id, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// Переполненный канал означает отключённого подписчика.
			delete(s.subs, id)
			close(ch)
		}
	}

	if s.pub != nil {
		if err := s.pub.Publish(event); err != nil {
			s.log.Warn("failed to publish session event",
				slog.String("session_id", s.id), sl.Err(err))
		}
	}
}
