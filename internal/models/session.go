package models

import "time"

// PurchaseQuote цена, рассчитанная при создании сессии покупки.
// Base фиксируется при создании и больше не меняется; Surcharges
// дополняются позже (доплата за объём данных), Total всегда
// Base + сумма Surcharges.
type PurchaseQuote struct {
	Base       int64            `json:"base_price"`
	Surcharges map[string]int64 `json:"surcharges,omitempty"`
}

// Total возвращает полную стоимость покупки.
func (q PurchaseQuote) Total() int64 {
	total := q.Base
	for _, s := range q.Surcharges {
		total += s
	}
	return total
}

// Clone возвращает независимую копию квоты.
func (q PurchaseQuote) Clone() PurchaseQuote {
	out := PurchaseQuote{Base: q.Base}
	if len(q.Surcharges) > 0 {
		out.Surcharges = make(map[string]int64, len(q.Surcharges))
		for k, v := range q.Surcharges {
			out.Surcharges[k] = v
		}
	}
	return out
}

// SessionStatus статус сессии покупки.
type SessionStatus string

// Жизненный цикл сессии: Quoted → PendingPayment → Paid → Completed,
// Cancelled и Expired — терминальные состояния отказа.
const (
	StatusQuoted         SessionStatus = "quoted"
	StatusPendingPayment SessionStatus = "pending_payment"
	StatusPaid           SessionStatus = "paid"
	StatusCompleted      SessionStatus = "completed"
	StatusCancelled      SessionStatus = "cancelled"
	StatusExpired        SessionStatus = "expired"
)

// Terminal сообщает, является ли статус конечным.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

// Типы событий сессии.
const (
	EventQuoteChanged  = "quote_changed"
	EventStatusChanged = "status_changed"
)

// SessionEvent событие изменения квоты или статуса сессии.
// Доставляется подписчикам сессии (как минимум один раз, в порядке
// возникновения) и публикуется во внешнюю шину.
type SessionEvent struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	Status    SessionStatus `json:"status"`
	Quote     PurchaseQuote `json:"quote"`
	Total     int64         `json:"total"`
	Reason    string        `json:"reason,omitempty"`
	At        time.Time     `json:"at"`
}
