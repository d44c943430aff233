package ledger

// Запрос на проверку платежа по квоте.
type verifyPaymentRequest struct {
	Proof  string `json:"proof"`
	Amount int64  `json:"amount"`
}

// Ответ адаптора на отправку транзакции создания конкурса.
type submitContestResponse struct {
	ContestID string `json:"contest_id"`
}

// Ответ адаптора с курсом доплаты за объём данных.
type dataFeeRateResponse struct {
	MillivotesPerKiB int64 `json:"millivotes_per_kib"`
}

// Ответ адаптора с балансом аккаунта.
type balanceResponse struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}
