// Package purchase принимает запрос на создание конкурса: проверяет его,
// считает цену и возвращает клиенту идентификатор сессии покупки с квотой.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// Purchaser решает, принимать ли запрос, и регистрирует сессию покупки.
type Purchaser interface {
	PurchaseContest(ctx context.Context, account string, req models.ContestCreationRequest) (*purchasesvc.Session, error)
}

// DummyRequest форма JSON-запроса. Содержимое полей проверяет доменный
// валидатор (каждое нарушение имеет собственный код), здесь проверяются
// только значения перечислений.
type DummyRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Contestants    []models.Contestant `json:"contestants"`
	Type           string             `json:"type" validate:"omitempty,oneof=one_of_n"`
	TallyAlgorithm string             `json:"tally_algorithm" validate:"omitempty,oneof=plurality"`
	EndTime        int64              `json:"end_time" validate:"min=0"`
}

// New возвращает обработчик POST /contests/purchase.
func New(log *slog.Logger, purchaser Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.purchase.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq DummyRequest
		if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("request body decoded", slog.String("name", dummyReq.Name))

		if err := validator.New().Struct(dummyReq); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		req := models.ContestCreationRequest{
			Name:           dummyReq.Name,
			Description:    dummyReq.Description,
			Contestants:    dummyReq.Contestants,
			Type:           models.ContestTypeOneOfN,
			TallyAlgorithm: models.TallyPlurality,
			EndTime:        dummyReq.EndTime,
		}
		if dummyReq.Type != "" {
			req.Type = models.ContestType(dummyReq.Type)
		}
		if dummyReq.TallyAlgorithm != "" {
			req.TallyAlgorithm = models.TallyAlgorithm(dummyReq.TallyAlgorithm)
		}

		account := mware.Account(r.Context())
		session, err := purchaser.PurchaseContest(r.Context(), account, req)
		if err != nil {
			var validationErr models.ValidationError
			if errors.As(err, &validationErr) {
				log.Info("request rejected", slog.String("code", string(validationErr)))
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, response.Error(string(validationErr)))
				return
			}
			log.Error("failed to create purchase session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create purchase session"))
			return
		}

		quote := session.Quote()
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"session_id": session.ID(),
			"quote":      quote,
			"total":      quote.Total(),
		}))
	}
}
