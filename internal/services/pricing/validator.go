// Package pricing содержит проверку запроса на создание конкурса
// по административным лимитам и расчёт цены покупки по прайс-листу.
package pricing

import (
	"time"

	"github.com/magabrotheeeer/contest-creator/internal/models"
)

// MinimumLead минимальный запас до даты окончания конкурса.
const MinimumLead = 10 * time.Minute

// Validate проверяет запрос по лимитам из снимка конфигурации.
// Проверки идут в фиксированном порядке и останавливаются на первом
// нарушении. Превышение мягких порогов длины описаний не является
// нарушением: оно лишь выставляет флаг Oversized и накапливает объём
// превышения для будущей доплаты.
func Validate(req models.ContestCreationRequest, limits models.LimitsConfig, now time.Time) (*models.ValidatedRequest, error) {
	if len(req.Name) == 0 {
		return nil, models.ErrEmptyName
	}
	if int64(len(req.Name)) > limits[models.LimitNameLength] {
		return nil, models.ErrNameTooLong
	}
	if int64(len(req.Description)) > limits[models.LimitDescriptionHardLength] {
		return nil, models.ErrDescriptionTooLong
	}

	var oversizedBytes int64
	if excess := int64(len(req.Description)) - limits[models.LimitDescriptionSoftLength]; excess > 0 {
		oversizedBytes += excess
	}

	if len(req.Contestants) < 1 {
		return nil, models.ErrTooFewContestants
	}
	if int64(len(req.Contestants)) > limits[models.LimitContestantCount] {
		return nil, models.ErrTooManyContestants
	}
	for _, c := range req.Contestants {
		if len(c.Name) == 0 {
			return nil, models.ErrContestantNameEmpty
		}
		if int64(len(c.Name)) > limits[models.LimitContestantNameLength] {
			return nil, models.ErrContestantNameTooLong
		}
		if int64(len(c.Description)) > limits[models.LimitContestantDescriptionHardLength] {
			return nil, models.ErrContestantDescriptionTooLong
		}
		if excess := int64(len(c.Description)) - limits[models.LimitContestantDescriptionSoftLength]; excess > 0 {
			oversizedBytes += excess
		}
	}

	if req.EndTime != 0 && req.EndTime < now.Add(MinimumLead).UnixMilli() {
		return nil, models.ErrEndTimeTooSoon
	}

	return &models.ValidatedRequest{
		ContestCreationRequest: req,
		Oversized:              oversizedBytes > 0,
		OversizedBytes:         oversizedBytes,
	}, nil
}
