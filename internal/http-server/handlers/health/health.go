// Package health отдаёт готовность сервиса: проверяется доступность базы.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
)

// Pinger проверяет, что хранилище конфигурации доступно.
type Pinger interface {
	CheckDatabaseReady() error
}

// New возвращает обработчик GET /health.
func New(log *slog.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := storage.CheckDatabaseReady(); err != nil {
			log.Error("database is not ready", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("database is not ready"))
			return
		}
		render.JSON(w, r, response.OK())
	}
}
