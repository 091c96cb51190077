package classifier

import (
	"strings"
)

// Tax categories. A closed set: transactions always carry exactly one of
// these, defaulting to 기타.
const (
	TaxEntertainment     = "접대비"
	TaxBusinessPromotion = "업무추진비"
	TaxWelfare           = "복리후생비"
	TaxSupplies          = "소모품비"
	TaxVehicleFuel       = "차량유류비"
	TaxTransport         = "교통비"
	TaxCommunication     = "통신비"
	TaxMeals             = "식비"
	TaxMeetings          = "회의비"
	TaxTraining          = "교육훈련비"
	TaxOther             = "기타"
)

// TaxCategories lists every valid tax category, 기타 last.
var TaxCategories = []string{
	TaxEntertainment,
	TaxBusinessPromotion,
	TaxWelfare,
	TaxSupplies,
	TaxVehicleFuel,
	TaxTransport,
	TaxCommunication,
	TaxMeals,
	TaxMeetings,
	TaxTraining,
	TaxOther,
}

type taxRule struct {
	Category         string
	UsageKeywords    []string
	MerchantKeywords []string
	MinAmount        int64 // 0 = unbounded
	MaxAmount        int64 // 0 = unbounded
}

// taxRules is scanned top to bottom and the 기타 entry is skipped; it exists
// so the table itself enumerates the full category set. Scan order is part
// of the classification contract. Do not reorder.
//
// None of the current rules carry amount bounds, but the bounds are honored
// when set.
var taxRules = []taxRule{
	{
		Category:         TaxEntertainment,
		UsageKeywords:    []string{"접대", "거래처"},
		MerchantKeywords: []string{"유흥", "노래"},
	},
	{
		Category:      TaxBusinessPromotion,
		UsageKeywords: []string{"업무추진"},
	},
	{
		Category:         TaxWelfare,
		UsageKeywords:    []string{"회식", "간식", "경조", "복리"},
		MerchantKeywords: []string{"스타벅스", "마트"},
	},
	{
		Category:         TaxSupplies,
		UsageKeywords:    []string{"소모품", "사무용품", "비품"},
		MerchantKeywords: []string{"다이소", "문구", "오피스", "쿠팡"},
	},
	{
		Category:         TaxVehicleFuel,
		UsageKeywords:    []string{"주유", "유류"},
		MerchantKeywords: []string{"주유소", "에너지", "칼텍스", "오일"},
	},
	{
		Category:         TaxTransport,
		UsageKeywords:    []string{"교통", "택시", "버스", "지하철"},
		MerchantKeywords: []string{"택시", "코레일", "ktx", "고속버스", "하이패스"},
	},
	{
		Category:         TaxCommunication,
		UsageKeywords:    []string{"통신", "전화", "인터넷"},
		MerchantKeywords: []string{"텔레콤", "유플러스", "케이티"},
	},
	{
		Category:         TaxMeals,
		UsageKeywords:    []string{"식대", "점심", "저녁", "식사", "야근"},
		MerchantKeywords: []string{"식당", "김밥", "국밥", "분식", "치킨"},
	},
	{
		Category:         TaxMeetings,
		UsageKeywords:    []string{"회의", "미팅"},
		MerchantKeywords: []string{"카페", "커피", "베이커리", "투썸", "이디야"},
	},
	{
		Category:         TaxTraining,
		UsageKeywords:    []string{"교육", "강의", "세미나", "도서"},
		MerchantKeywords: []string{"문고", "서점", "아카데미"},
	},
	{Category: TaxOther},
}

var (
	cafeMerchantWords = []string{"카페", "커피", "베이커리"}
	mealUsageWords    = []string{"식대", "점심", "저녁"}
)

func (r taxRule) amountInBounds(amount int64) bool {
	if r.MinAmount > 0 && amount < r.MinAmount {
		return false
	}
	if r.MaxAmount > 0 && amount > r.MaxAmount {
		return false
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Classify picks a tax category for a transaction. usageDescription may be
// empty. Always returns a category; 기타 when nothing applies.
func Classify(merchantName, usageDescription string, amount int64) string {
	merchant := strings.ToLower(merchantName)
	usage := strings.ToLower(usageDescription)

	if usage != "" {
		for _, rule := range taxRules {
			if rule.Category == TaxOther {
				continue
			}
			if containsAny(usage, rule.UsageKeywords) {
				return rule.Category
			}
		}
	} else {
		for _, rule := range taxRules {
			if rule.Category == TaxOther {
				continue
			}
			if !rule.amountInBounds(amount) {
				continue
			}
			if containsAny(merchant, rule.MerchantKeywords) {
				return rule.Category
			}
		}
	}

	// Cafés default to 회의비, but a meal-labeled usage at a café is food.
	if containsAny(merchant, cafeMerchantWords) && containsAny(usage, mealUsageWords) {
		return TaxMeals
	}

	if amount >= 1_000_000 {
		return TaxEntertainment
	}
	if amount <= 10_000 && strings.Contains(merchant, "편의점") {
		return TaxSupplies
	}

	return TaxOther
}

// ClassifyWithConfidence returns the category plus a display-only score:
// 0.7 for any usage-keyword hit, 0.5 for any merchant-keyword hit, additive
// and capped at 1.0. The score does not influence the category choice.
func ClassifyWithConfidence(merchantName, usageDescription string, amount int64) (string, float64) {
	category := Classify(merchantName, usageDescription, amount)

	merchant := strings.ToLower(merchantName)
	usage := strings.ToLower(usageDescription)

	var confidence float64
	for _, rule := range taxRules {
		if rule.Category == TaxOther {
			continue
		}
		if usage != "" && containsAny(usage, rule.UsageKeywords) {
			confidence += 0.7
			break
		}
	}
	for _, rule := range taxRules {
		if rule.Category == TaxOther {
			continue
		}
		if containsAny(merchant, rule.MerchantKeywords) {
			confidence += 0.5
			break
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return category, confidence
}

// ValidTaxCategory reports whether s is one of the fixed categories.
func ValidTaxCategory(s string) bool {
	for _, c := range TaxCategories {
		if c == s {
			return true
		}
	}
	return false
}
