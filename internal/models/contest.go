// Package models содержит доменные структуры сервиса создания конкурсов:
// запрос на создание, конфигурационные лимиты, прайс-лист,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

// ContestType тип конкурса. Сейчас поддерживается единственный вариант,
// но значение хранится явно, чтобы новые типы добавлялись без миграции данных.
type ContestType string

// TallyAlgorithm алгоритм подсчёта голосов.
type TallyAlgorithm string

const (
	// ContestTypeOneOfN конкурс с выбором одного варианта из N.
	ContestTypeOneOfN ContestType = "one_of_n"

	// TallyPlurality подсчёт по относительному большинству.
	TallyPlurality TallyAlgorithm = "plurality"
)

// Contestant участник конкурса.
type Contestant struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContestCreationRequest запрос клиента на создание конкурса.
// EndTime хранится в миллисекундах unix-эпохи, 0 означает бессрочный конкурс.
type ContestCreationRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Contestants    []Contestant   `json:"contestants"`
	Type           ContestType    `json:"type"`
	TallyAlgorithm TallyAlgorithm `json:"tally_algorithm"`
	EndTime        int64          `json:"end_time"`
}

// ValidatedRequest запрос, прошедший проверку лимитов. Oversized выставляется,
// если описания превысили мягкий порог длины: это не блокирует создание,
// но ведёт к доплате за объём данных на этапе оплаты.
type ValidatedRequest struct {
	ContestCreationRequest
	Oversized      bool
	OversizedBytes int64
}

// LimitName имя административного лимита на содержимое конкурса.
type LimitName string

// Имена лимитов. Порядок LimitNames определяет порядок выдачи в API.
const (
	LimitNameLength                      LimitName = "NAME_LENGTH"
	LimitDescriptionHardLength           LimitName = "DESCRIPTION_HARD_LENGTH"
	LimitDescriptionSoftLength           LimitName = "DESCRIPTION_SOFT_LENGTH"
	LimitContestantCount                 LimitName = "CONTESTANT_COUNT"
	LimitContestantNameLength            LimitName = "CONTESTANT_NAME_LENGTH"
	LimitContestantDescriptionHardLength LimitName = "CONTESTANT_DESCRIPTION_HARD_LENGTH"
	LimitContestantDescriptionSoftLength LimitName = "CONTESTANT_DESCRIPTION_SOFT_LENGTH"
)

// LimitNames канонический порядок лимитов.
var LimitNames = []LimitName{
	LimitNameLength,
	LimitDescriptionHardLength,
	LimitDescriptionSoftLength,
	LimitContestantCount,
	LimitContestantNameLength,
	LimitContestantDescriptionHardLength,
	LimitContestantDescriptionSoftLength,
}

// LimitsConfig отображение имени лимита в целочисленную границу.
type LimitsConfig map[LimitName]int64

// LineItem позиция прайс-листа.
type LineItem string

// Позиции прайс-листа. Порядок LineItems определяет порядок выдачи в API.
const (
	LineContestTypeOneOfN    LineItem = "CONTEST_TYPE_ONE_OF_N"
	LinePluralityTally       LineItem = "PLURALITY_TALLY"
	LineContestant3          LineItem = "CONTESTANT3"
	LineContestant4          LineItem = "CONTESTANT4"
	LineContestant5          LineItem = "CONTESTANT5"
	LineContestant6          LineItem = "CONTESTANT6"
	LineContestant7Plus      LineItem = "CONTESTANT7_PLUS"
	LineInfiniteDuration     LineItem = "INFINITE_DURATION_CONTEST"
)

// LineItems канонический порядок позиций прайс-листа.
var LineItems = []LineItem{
	LineContestTypeOneOfN,
	LinePluralityTally,
	LineContestant3,
	LineContestant4,
	LineContestant5,
	LineContestant6,
	LineContestant7Plus,
	LineInfiniteDuration,
}

// PriceSchedule отображение позиции прайс-листа в цену.
type PriceSchedule map[LineItem]int64

// ConfigSnapshot неизменяемый снимок конфигурации на момент обработки запроса.
// Уже выданные квоты не меняются при перезагрузке конфигурации.
type ConfigSnapshot struct {
	Limits   LimitsConfig  `json:"limits"`
	Schedule PriceSchedule `json:"schedule"`
}

// ScheduleEntry строка прайс-листа в ответе API.
type ScheduleEntry struct {
	LineItem LineItem `json:"line_item"`
	Price    int64    `json:"price"`
}

// LimitEntry строка списка лимитов в ответе API.
type LimitEntry struct {
	Limit LimitName `json:"limit"`
	Value int64     `json:"value"`
}

// ContestRecord запись о созданном конкурсе для хранилища.
type ContestRecord struct {
	ContestID string
	SessionID string
	Creator   string
	Name      string
	PricePaid int64
	Oversized bool
}
