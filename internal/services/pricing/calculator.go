package pricing

import "github.com/magabrotheeeer/contest-creator/internal/models"

// Price рассчитывает квоту покупки по проверенному запросу и прайс-листу.
// Детерминированная функция без ввода-вывода.
//
// Надбавка за участников накопительная: при n участниках суммируются
// ВСЕ позиции CONTESTANT3..CONTESTANT_n, а не только верхняя. Свыше шести
// участников каждый следующий оплачивается по CONTESTANT7_PLUS. Это
// намеренное бизнес-правило прайс-листа, не упрощать до одной позиции.
func Price(req *models.ValidatedRequest, schedule models.PriceSchedule) models.PurchaseQuote {
	var price int64

	switch req.Type {
	case models.ContestTypeOneOfN:
		price += schedule[models.LineContestTypeOneOfN]
	}

	switch req.TallyAlgorithm {
	case models.TallyPlurality:
		price += schedule[models.LinePluralityTally]
	}

	n := len(req.Contestants)
	if n > 6 {
		price += int64(n-6) * schedule[models.LineContestant7Plus]
		n = 6
	}
	tiers := []models.LineItem{
		models.LineContestant3,
		models.LineContestant4,
		models.LineContestant5,
		models.LineContestant6,
	}
	for i := 3; i <= n; i++ {
		price += schedule[tiers[i-3]]
	}

	if req.EndTime == 0 {
		price += schedule[models.LineInfiniteDuration]
	}

	return models.PurchaseQuote{Base: price}
}
