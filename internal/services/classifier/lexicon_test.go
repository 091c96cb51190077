package classifier

import (
	"testing"
)

func TestLookupIndustry(t *testing.T) {
	cases := []struct {
		merchant string
		want     string
		found    bool
	}{
		{"스타벅스 강남점", "복리후생비", true},
		{"GS25 서초점", "소모품비", true},
		{"동네카페", "회의비", true},
		{"없는가게이름", "", false},
		// case-insensitive, whitespace-stripped
		{"gs 25 서초점", "소모품비", true},
		{"KTX 서울역", "교통비", true},
	}

	for _, c := range cases {
		got, found := LookupIndustry(c.merchant)
		if found != c.found || got != c.want {
			t.Fatalf("LookupIndustry(%q) = (%q, %v), want (%q, %v)", c.merchant, got, found, c.want, c.found)
		}
	}
}

func TestLookupIndustryOverridesFirst(t *testing.T) {
	// 하이패스 is an override; the general table never sees it even though
	// other keywords could plausibly apply to the full merchant string.
	got, found := LookupIndustry("한국도로공사 하이패스")
	if !found || got != "교통비" {
		t.Fatalf("expected override hit 교통비, got (%q, %v)", got, found)
	}

	got, found = LookupIndustry("한국전력공사")
	if !found || got != "공과금" {
		t.Fatalf("expected override hit 공과금, got (%q, %v)", got, found)
	}
}

func TestLookupIndustryTableOrder(t *testing.T) {
	// Both 스타벅스 and 커피 match; 스타벅스 sits earlier in the table and
	// must win, so reordering the table would change behavior.
	got, found := LookupIndustry("스타벅스커피 코리아")
	if !found || got != "복리후생비" {
		t.Fatalf("expected first table entry to win with 복리후생비, got (%q, %v)", got, found)
	}
}

func TestLookupIndustryDetail(t *testing.T) {
	m, found := LookupIndustryDetail("한국전력공사")
	if !found || m.Confidence != ConfidenceHigh {
		t.Fatalf("override should report high confidence, got %+v found=%v", m, found)
	}

	m, found = LookupIndustryDetail("스타벅스 강남점")
	if !found || m.Confidence != ConfidenceMedium || m.MatchedKeyword != "스타벅스" {
		t.Fatalf("keyword hit should report medium confidence, got %+v found=%v", m, found)
	}

	if _, found := LookupIndustryDetail("없는가게이름"); found {
		t.Fatal("expected no match")
	}
}
