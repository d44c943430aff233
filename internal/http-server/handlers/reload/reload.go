// Package reload принудительно перечитывает лимиты и прайс-лист из базы.
// Новые значения влияют только на свежие котировки, открытые сессии
// сохраняют зафиксированную цену.
package reload

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
)

// Reloader сбрасывает кэш конфигурации и загружает свежий снимок.
type Reloader interface {
	Reload(ctx context.Context) error
}

// New возвращает обработчик POST /admin/config/reload.
func New(log *slog.Logger, config Reloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reload.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := config.Reload(r.Context()); err != nil {
			log.Error("failed to reload configuration", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reload configuration"))
			return
		}

		log.Info("configuration reloaded")
		render.JSON(w, r, response.OK())
	}
}
