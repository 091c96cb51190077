package classifier

import (
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		merchant string
		usage    string
		amount   int64
		want     string
	}{
		{"usage keyword wins", "스타벅스 강남점", "점심 식대", 15000, TaxMeals},
		{"cafe with meal usage is food", "동네카페", "점심 식대", 9000, TaxMeals},
		{"cafe without usage defaults to meetings", "투썸플레이스 카페", "", 12000, TaxMeetings},
		{"merchant keyword", "GS칼텍스 주유소", "", 70000, TaxVehicleFuel},
		{"usage scan beats merchant scan", "투썸플레이스 카페", "거래처 접대", 50000, TaxEntertainment},
		{"large amount fallback", "알수없는상점", "", 2_000_000, TaxEntertainment},
		{"small convenience store fallback", "GS25 편의점", "", 5000, TaxSupplies},
		{"convenience store above threshold", "GS25 편의점", "", 50000, TaxOther},
		{"no rule applies", "아무가게", "", 30000, TaxOther},
		{"transport usage", "M상점", "택시 이동", 12000, TaxTransport},
		{"training merchant", "교보문고 광화문점", "", 25000, TaxTraining},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.merchant, c.usage, c.amount)
			if got != c.want {
				t.Fatalf("Classify(%q, %q, %d) = %q, want %q", c.merchant, c.usage, c.amount, got, c.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("스타벅스 강남점", "점심 식대", 15000)
	for i := 0; i < 10; i++ {
		if got := Classify("스타벅스 강남점", "점심 식대", 15000); got != first {
			t.Fatalf("classification not deterministic: %q then %q", first, got)
		}
	}
	if first != TaxMeals {
		t.Fatalf("expected %q, got %q", TaxMeals, first)
	}
}

func TestClassifyWithConfidence(t *testing.T) {
	cases := []struct {
		merchant string
		usage    string
		amount   int64
		wantCat  string
		wantConf float64
	}{
		// usage hit (0.7) + merchant hit via 스타벅스 (0.5), capped
		{"스타벅스 강남점", "점심 식대", 15000, TaxMeals, 1.0},
		// merchant hit only
		{"GS칼텍스 주유소", "", 70000, TaxVehicleFuel, 0.5},
		// usage hit only
		{"아무가게", "야근 식대", 9000, TaxMeals, 0.7},
		// nothing hits, fallback decides the category anyway
		{"알수없는상점", "", 2_000_000, TaxEntertainment, 0.0},
	}

	for _, c := range cases {
		cat, conf := ClassifyWithConfidence(c.merchant, c.usage, c.amount)
		if cat != c.wantCat || conf != c.wantConf {
			t.Fatalf("ClassifyWithConfidence(%q, %q, %d) = (%q, %v), want (%q, %v)",
				c.merchant, c.usage, c.amount, cat, conf, c.wantCat, c.wantConf)
		}
	}
}

func TestValidTaxCategory(t *testing.T) {
	if !ValidTaxCategory(TaxMeals) {
		t.Fatal("식비 should be valid")
	}
	if ValidTaxCategory("없는분류") {
		t.Fatal("unknown category should be invalid")
	}
}
