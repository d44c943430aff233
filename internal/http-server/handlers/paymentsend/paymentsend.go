// Package paymentsend принимает подтверждение оплаты по сессии и просит
// леджер проверить платёж против полной стоимости квоты.
package paymentsend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/response"
	"github.com/magabrotheeeer/contest-creator/internal/lib/sl"
	"github.com/magabrotheeeer/contest-creator/internal/models"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
)

// PaymentSubmitter проверяет платёж по сессии и двигает её статус.
type PaymentSubmitter interface {
	Get(id, creator string) (*purchasesvc.Session, error)
	SubmitPayment(ctx context.Context, id, creator, proof string) error
}

// BalanceReader отдаёт баланс аккаунта в леджере.
type BalanceReader interface {
	GetBalance(ctx context.Context, account string) (int64, error)
}

// DummyRequest форма JSON-запроса с подтверждением оплаты.
type DummyRequest struct {
	Proof string `json:"proof" validate:"required"`
}

// New возвращает обработчик POST /sessions/{id}/payment.
func New(log *slog.Logger, sessions PaymentSubmitter, balances BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.paymentsend.New"

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

		if err := validator.New().Struct(dummyReq); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		account := mware.Account(r.Context())
		sessionID := chi.URLParam(r, "id")

		session, err := sessions.Get(sessionID, account)
		if err != nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown session"))
			return
		}

		// Баланс только подсказка в логах: решает проверка платежа леджером.
		if balance, err := balances.GetBalance(r.Context(), account); err == nil {
			if total := session.Quote().Total(); balance < total {
				log.Warn("account balance below quoted total",
					slog.Int64("balance", balance), slog.Int64("total", total))
			}
		}

		if err := sessions.SubmitPayment(r.Context(), sessionID, account, dummyReq.Proof); err != nil {
			var paymentErr models.PaymentError
			var sessionErr models.SessionError
			switch {
			case errors.Is(err, models.ErrUnknownSession):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("unknown session"))
			case errors.As(err, &paymentErr):
				log.Info("payment rejected", slog.String("code", string(paymentErr)))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(string(paymentErr)))
			case errors.As(err, &sessionErr):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(string(sessionErr)))
			default:
				log.Error("payment verification failed", sl.Err(err))
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("payment verification failed"))
			}
			return
		}

		log.Info("payment accepted", slog.String("session_id", sessionID))
		render.JSON(w, r, response.OK())
	}
}
