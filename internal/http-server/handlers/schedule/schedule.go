// Package schedule отдаёт текущий прайс-лист создания конкурсов.
package schedule

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

// Provider отдаёт прайс-лист из снимка конфигурации.
type Provider interface {
	PriceSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

// New возвращает обработчик GET /pricing/schedule.
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		entries, err := provider.PriceSchedule(r.Context())
		if err != nil {
			log.Error("failed to read price schedule", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read price schedule"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(entries))
	}
}
