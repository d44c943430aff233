// Package events отдаёт события сессии покупки потоком server-sent events.
// Подписчик получает изменения квоты и статуса в порядке возникновения;
// отключение клиента снимает подписку, не влияя на сессию.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// SessionGetter находит сессию покупки по идентификатору и владельцу.
type SessionGetter interface {
	Get(id, creator string) (*purchasesvc.Session, error)
}

// New возвращает обработчик GET /sessions/{id}/events.
func New(log *slog.Logger, sessions SessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "id")
		session, err := sessions.Get(sessionID, mware.Account(r.Context()))
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown session"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("streaming unsupported"))
			return
		}

		events, unsubscribe := session.Subscribe()
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		log.Info("subscriber attached", slog.String("session_id", sessionID))

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				body, err := json.Marshal(event)
				if err != nil {
					log.Error("failed to marshal event", sl.Err(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, body); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
