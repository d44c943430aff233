// Package complete завершает оплаченную сессию: конкурс публикуется
// в леджер и клиенту возвращается его идентификатор.
package complete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// Completer публикует конкурс по оплаченной сессии.
type Completer interface {
	Complete(ctx context.Context, id, creator string) (string, error)
}

// ResultResponse ответ с идентификатором созданного конкурса.
type ResultResponse struct {
	ContestID string `json:"contest_id"`
}

// New возвращает обработчик POST /sessions/{id}/complete.
func New(log *slog.Logger, sessions Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.complete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		account := mware.Account(r.Context())
		sessionID := chi.URLParam(r, "id")

		contestID, err := sessions.Complete(r.Context(), sessionID, account)
		if err != nil {
			var sessionErr models.SessionError
			switch {
			case errors.Is(err, models.ErrUnknownSession):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("unknown session"))
			case errors.As(err, &sessionErr):
				log.Info("completion rejected", slog.String("code", string(sessionErr)))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(string(sessionErr)))
			default:
				log.Error("failed to publish contest", sl.Err(err))
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("failed to publish contest"))
			}
			return
		}

		log.Info("contest published",
			slog.String("session_id", sessionID),
			slog.String("contest_id", contestID))
		render.JSON(w, r, response.StatusOKWithData(ResultResponse{ContestID: contestID}))
	}
}
