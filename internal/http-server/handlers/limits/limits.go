// Package limits отдаёт действующие лимиты на содержимое конкурса.
package limits

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// Provider отдаёт лимиты из снимка конфигурации.
type Provider interface {
	ContestLimits(ctx context.Context) ([]models.LimitEntry, error)
}

// New возвращает обработчик GET /pricing/limits.
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.limits.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		entries, err := provider.ContestLimits(r.Context())
		if err != nil {
			log.Error("failed to read contest limits", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read contest limits"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(entries))
	}
}
