package classifier

import (
	"strings"
	"unicode/utf8"
)

// Confidence levels reported by LookupIndustryDetail.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

type lexiconEntry struct {
	Keyword string
	Usage   string
}

// lexiconOverrides are checked before the general keyword table. Utility and
// toll operators land here so a generic keyword elsewhere in their name
// can't reroute them.
var lexiconOverrides = []lexiconEntry{
	{"한국전력", "공과금"},
	{"도시가스", "공과금"},
	{"수도사업소", "공과금"},
	{"한국도로공사", "교통비"},
	{"하이패스", "교통비"},
}

// lexiconKeywords is evaluated top to bottom; the first containment hit
// wins. Several keywords can overlap one merchant string, so the order of
// this table is part of its meaning. Do not sort it.
var lexiconKeywords = []lexiconEntry{
	{"스타벅스", "복리후생비"},
	{"투썸플레이스", "회의비"},
	{"이디야", "회의비"},
	{"커피", "회의비"},
	{"카페", "회의비"},
	{"베이커리", "회의비"},
	{"gs25", "소모품비"},
	{"세븐일레븐", "소모품비"},
	{"이마트24", "소모품비"},
	{"편의점", "소모품비"},
	{"다이소", "소모품비"},
	{"문구", "소모품비"},
	{"sk에너지", "차량유류비"},
	{"gs칼텍스", "차량유류비"},
	{"s-oil", "차량유류비"},
	{"현대오일뱅크", "차량유류비"},
	{"주유소", "차량유류비"},
	{"주유", "차량유류비"},
	{"택시", "교통비"},
	{"코레일", "교통비"},
	{"ktx", "교통비"},
	{"고속버스", "교통비"},
	{"항공", "교통비"},
	{"sk텔레콤", "통신비"},
	{"케이티", "통신비"},
	{"lg유플러스", "통신비"},
	{"맥도날드", "식비"},
	{"버거킹", "식비"},
	{"김밥", "식비"},
	{"국밥", "식비"},
	{"분식", "식비"},
	{"식당", "식비"},
	{"치킨", "식비"},
	{"교보문고", "교육훈련비"},
	{"예스24", "교육훈련비"},
	{"아카데미", "교육훈련비"},
	{"교육", "교육훈련비"},
	{"마트", "복리후생비"},
	{"쿠팡", "소모품비"},
}

// IndustryMatch is the detail variant's result, for suggestion UIs.
type IndustryMatch struct {
	UsageDescription string `json:"usage_description"`
	MatchedKeyword   string `json:"matched_keyword"`
	Confidence       string `json:"confidence"`
}

func normalizeMerchant(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, " ", "")
	n = strings.ReplaceAll(n, "\t", "")
	return strings.TrimSpace(n)
}

// LookupIndustry maps a merchant name to a default usage description via
// the static keyword tables. Overrides first, then the general table, first
// hit wins. Returns false when nothing matches.
func LookupIndustry(merchantName string) (string, bool) {
	m, ok := lookupEntry(merchantName)
	if !ok {
		return "", false
	}
	return m.Usage, true
}

// LookupIndustryDetail is LookupIndustry plus the matched keyword and a
// rough confidence grade. Display only; ingestion never calls the lexicon.
func LookupIndustryDetail(merchantName string) (*IndustryMatch, bool) {
	entry, ok := lookupEntry(merchantName)
	if !ok {
		return nil, false
	}

	confidence := ConfidenceLow
	for _, o := range lexiconOverrides {
		if o.Keyword == entry.Keyword {
			confidence = ConfidenceHigh
		}
	}
	if confidence != ConfidenceHigh && utf8.RuneCountInString(entry.Keyword) >= 3 {
		confidence = ConfidenceMedium
	}

	return &IndustryMatch{
		UsageDescription: entry.Usage,
		MatchedKeyword:   entry.Keyword,
		Confidence:       confidence,
	}, true
}

func lookupEntry(merchantName string) (lexiconEntry, bool) {
	normalized := normalizeMerchant(merchantName)
	if normalized == "" {
		return lexiconEntry{}, false
	}

	for _, entry := range lexiconOverrides {
		if strings.Contains(normalized, normalizeMerchant(entry.Keyword)) {
			return entry, true
		}
	}
	for _, entry := range lexiconKeywords {
		if strings.Contains(normalized, normalizeMerchant(entry.Keyword)) {
			return entry, true
		}
	}
	return lexiconEntry{}, false
}
