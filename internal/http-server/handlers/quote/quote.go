// Package quote отдаёт квоту сессии покупки. Квота зафиксирована при
// создании сессии и не зависит от последующих перезагрузок конфигурации.
package quote

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// SessionGetter находит сессию покупки по идентификатору и владельцу.
type SessionGetter interface {
	Get(id, creator string) (*purchasesvc.Session, error)
}

// New возвращает обработчик GET /sessions/{id}/quote.
func New(log *slog.Logger, sessions SessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.quote.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "id")
		session, err := sessions.Get(sessionID, mware.Account(r.Context()))
		if err != nil {
			log.Info("unknown session", slog.String("session_id", sessionID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown session"))
			return
		}

		quote := session.Quote()
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"quote":  quote,
			"total":  quote.Total(),
			"status": session.Status(),
		}))
	}
}
