package models

// ValidationError ошибка проверки запроса на создание конкурса.
// Проверки выполняются в фиксированном порядке и останавливаются
// на первом нарушении, поэтому клиент всегда получает один код.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Коды ошибок валидации.
const (
	ErrEmptyName                    ValidationError = "EmptyName"
	ErrNameTooLong                  ValidationError = "NameTooLong"
	ErrDescriptionTooLong           ValidationError = "DescriptionTooLong"
	ErrTooFewContestants            ValidationError = "TooFewContestants"
	ErrTooManyContestants           ValidationError = "TooManyContestants"
	ErrContestantNameEmpty          ValidationError = "ContestantNameEmpty"
	ErrContestantNameTooLong        ValidationError = "ContestantNameTooLong"
	ErrContestantDescriptionTooLong ValidationError = "ContestantDescriptionTooLong"
	ErrEndTimeTooSoon               ValidationError = "EndTimeTooSoon"
)

// PaymentError ошибка этапа оплаты; состояние сессии при этом не меняется.
type PaymentError string

func (e PaymentError) Error() string { return string(e) }

// Коды ошибок оплаты.
const (
	ErrInsufficientFunds PaymentError = "InsufficientFunds"
	ErrPaymentNotFound   PaymentError = "PaymentNotFound"
	ErrAlreadyPaid       PaymentError = "AlreadyPaid"
)

// SessionError ошибка операции над сессией покупки.
type SessionError string

func (e SessionError) Error() string { return string(e) }

// Коды ошибок сессии.
const (
	ErrNotPaid          SessionError = "NotPaid"
	ErrAlreadyCompleted SessionError = "AlreadyCompleted"
	ErrSessionExpired   SessionError = "SessionExpired"
	ErrUnknownSession   SessionError = "UnknownSession"
)
