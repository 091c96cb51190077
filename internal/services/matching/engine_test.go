package matching

import (
	"io"
	"path/filepath"
	"testing"

	"card-expense-backend/internal/models"
	"card-expense-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) (*Engine, *repository.PatternRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Pattern{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := repository.NewPatternRepository(db)
	return NewEngine(repo, log), repo
}

func mustCreate(t *testing.T, repo *repository.PatternRepository, p *models.Pattern) *models.Pattern {
	t.Helper()
	if err := repo.Create(p); err != nil {
		t.Fatalf("failed to create pattern: %v", err)
	}
	return p
}

func uintPtr(v uint) *uint { return &v }

func TestResolveCardExactBeatsGlobalExact(t *testing.T) {
	engine, repo := newTestEngine(t)

	global := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스 강남점", UsageDescription: "전사 간식",
		MatchType: models.MatchTypeExact, Priority: 100,
	})
	scoped := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스 강남점", UsageDescription: "영업팀 간식",
		CardID: uintPtr(1), MatchType: models.MatchTypeExact, Priority: 0,
	})

	// Card scope wins even against a higher-priority global pattern.
	got, err := engine.Resolve("스타벅스 강남점", uintPtr(1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != scoped.ID {
		t.Fatalf("expected card-scoped pattern %d, got %+v", scoped.ID, got)
	}

	// Without a card, only the global pattern is eligible.
	got, err = engine.Resolve("스타벅스 강남점", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != global.ID {
		t.Fatalf("expected global pattern %d, got %+v", global.ID, got)
	}
}

func TestResolvePriorityAndTieBreak(t *testing.T) {
	engine, repo := newTestEngine(t)

	first := mustCreate(t, repo, &models.Pattern{
		MerchantName: "가게", UsageDescription: "첫번째",
		CardID: uintPtr(1), MatchType: models.MatchTypeExact, Priority: 5,
	})
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "가게", UsageDescription: "두번째",
		CardID: uintPtr(1), MatchType: models.MatchTypeExact, Priority: 5,
	})

	// Equal priority resolves to the older pattern, and stays stable.
	for i := 0; i < 3; i++ {
		got, err := engine.Resolve("가게", uintPtr(1))
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got == nil || got.ID != first.ID {
			t.Fatalf("tie-break not stable: expected %d, got %+v", first.ID, got)
		}
	}

	newer := mustCreate(t, repo, &models.Pattern{
		MerchantName: "가게", UsageDescription: "우선",
		CardID: uintPtr(1), MatchType: models.MatchTypeExact, Priority: 9,
	})
	got, err := engine.Resolve("가게", uintPtr(1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Fatalf("expected higher-priority pattern %d, got %+v", newer.ID, got)
	}
}

func TestResolveExactBeatsContains(t *testing.T) {
	engine, repo := newTestEngine(t)

	mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스", UsageDescription: "포함 규칙",
		MatchType: models.MatchTypeContains, Priority: 100,
	})
	exact := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스 강남점", UsageDescription: "정확 규칙",
		MatchType: models.MatchTypeExact, Priority: 0,
	})

	got, err := engine.Resolve("스타벅스 강남점", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != exact.ID {
		t.Fatalf("expected exact pattern %d over contains, got %+v", exact.ID, got)
	}
}

func TestResolveContainsScopeAndOrder(t *testing.T) {
	engine, repo := newTestEngine(t)

	// Scoped to card 2: invisible from card 1.
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "커피", UsageDescription: "다른 카드",
		CardID: uintPtr(2), MatchType: models.MatchTypeContains, Priority: 50,
	})
	low := mustCreate(t, repo, &models.Pattern{
		MerchantName: "커피", UsageDescription: "전사 커피",
		MatchType: models.MatchTypeContains, Priority: 0,
	})
	high := mustCreate(t, repo, &models.Pattern{
		MerchantName: "이디야", UsageDescription: "이디야 규칙",
		MatchType: models.MatchTypeContains, Priority: 10,
	})

	got, err := engine.Resolve("이디야커피 본점", uintPtr(1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != high.ID {
		t.Fatalf("expected higher-priority contains pattern %d, got %+v", high.ID, got)
	}

	got, err = engine.Resolve("커피나무", uintPtr(1))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got == nil || got.ID != low.ID {
		t.Fatalf("expected global contains pattern %d, got %+v", low.ID, got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	engine, repo := newTestEngine(t)
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스", UsageDescription: "간식", MatchType: models.MatchTypeExact,
	})

	got, err := engine.Resolve("아무관계없는가게", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestResolveBumpsUseCount(t *testing.T) {
	engine, repo := newTestEngine(t)
	p := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스", UsageDescription: "간식", MatchType: models.MatchTypeExact,
	})

	for i := 0; i < 3; i++ {
		if _, err := engine.Resolve("스타벅스", nil); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}

	reloaded, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.UseCount != 3 {
		t.Fatalf("use_count = %d, want 3", reloaded.UseCount)
	}
}

func TestRegexIgnoredByResolveButUsedByTestPattern(t *testing.T) {
	engine, repo := newTestEngine(t)
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "^쿠팡", UsageDescription: "온라인 구매",
		MatchType: models.MatchTypeRegex, Priority: 100,
	})

	got, err := engine.Resolve("쿠팡 주식회사", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != nil {
		t.Fatalf("ingestion-path resolution must not evaluate regex patterns, got %+v", got)
	}

	result, err := engine.TestPattern("쿠팡 주식회사", nil)
	if err != nil {
		t.Fatalf("TestPattern failed: %v", err)
	}
	if !result.Matched || !result.ViaRegex {
		t.Fatalf("expected a regex hit from the tester, got %+v", result)
	}
	if result.UsageDescription != "온라인 구매" {
		t.Fatalf("usage = %q, want 온라인 구매", result.UsageDescription)
	}
}

func TestTestPatternSkipsInvalidRegex(t *testing.T) {
	engine, repo := newTestEngine(t)
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "(", UsageDescription: "깨진 규칙",
		MatchType: models.MatchTypeRegex, Priority: 100,
	})
	valid := mustCreate(t, repo, &models.Pattern{
		MerchantName: "쿠팡.*", UsageDescription: "온라인 구매",
		MatchType: models.MatchTypeRegex, Priority: 0,
	})

	result, err := engine.TestPattern("쿠팡 주식회사", nil)
	if err != nil {
		t.Fatalf("TestPattern failed: %v", err)
	}
	if !result.Matched || result.Pattern == nil || result.Pattern.ID != valid.ID {
		t.Fatalf("expected the valid regex pattern %d, got %+v", valid.ID, result)
	}
}

func TestTestPatternPrefersNormalResolution(t *testing.T) {
	engine, repo := newTestEngine(t)
	exact := mustCreate(t, repo, &models.Pattern{
		MerchantName: "쿠팡 주식회사", UsageDescription: "정확 규칙",
		MatchType: models.MatchTypeExact,
	})
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "쿠팡.*", UsageDescription: "정규식 규칙",
		MatchType: models.MatchTypeRegex, Priority: 100,
	})

	result, err := engine.TestPattern("쿠팡 주식회사", nil)
	if err != nil {
		t.Fatalf("TestPattern failed: %v", err)
	}
	if !result.Matched || result.ViaRegex || result.Pattern == nil || result.Pattern.ID != exact.ID {
		t.Fatalf("expected the exact pattern %d without regex, got %+v", exact.ID, result)
	}
}

func TestSuggestScoring(t *testing.T) {
	engine, repo := newTestEngine(t)

	exact := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스 강남점", UsageDescription: "a", MatchType: models.MatchTypeExact,
	})
	contained := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스", UsageDescription: "b", MatchType: models.MatchTypeExact,
	})
	container := mustCreate(t, repo, &models.Pattern{
		MerchantName: "스타벅스 강남점 2호", UsageDescription: "c", MatchType: models.MatchTypeExact,
	})
	sharedWord := mustCreate(t, repo, &models.Pattern{
		MerchantName: "강남점 분식", UsageDescription: "d", MatchType: models.MatchTypeExact,
	})
	mustCreate(t, repo, &models.Pattern{
		MerchantName: "버거킹", UsageDescription: "e", MatchType: models.MatchTypeExact,
	})

	suggestions, err := engine.Suggest("스타벅스 강남점", nil)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(suggestions) != 4 {
		t.Fatalf("expected 4 suggestions, got %d: %+v", len(suggestions), suggestions)
	}

	wantOrder := []struct {
		id    uint
		score int
	}{
		{exact.ID, 100},
		{contained.ID, 80},
		{container.ID, 60},
		{sharedWord.ID, 40},
	}
	for i, want := range wantOrder {
		got := suggestions[i]
		if got.PatternID != want.id || got.Score != want.score {
			t.Errorf("suggestion %d = (id %d, score %d), want (id %d, score %d)",
				i, got.PatternID, got.Score, want.id, want.score)
		}
	}
}

func TestUpsertManualPattern(t *testing.T) {
	engine, repo := newTestEngine(t)

	created, err := engine.UpsertManualPattern("모르는가게", "거래처 접대", uintPtr(1), "manual")
	if err != nil {
		t.Fatalf("UpsertManualPattern failed: %v", err)
	}
	if created.CardID != nil {
		t.Fatal("a fresh manual pattern should be global")
	}
	if created.MatchType != models.MatchTypeExact || created.UseCount != 1 || created.Priority != 0 {
		t.Fatalf("unexpected new pattern: %+v", created)
	}

	// Second correction for the same merchant updates in place.
	updated, err := engine.UpsertManualPattern("모르는가게", "회의 다과", uintPtr(1), "manual")
	if err != nil {
		t.Fatalf("UpsertManualPattern failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected an in-place update of pattern %d, got %d", created.ID, updated.ID)
	}

	all, err := repo.GetAll(nil, "")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single stored pattern, got %d", len(all))
	}
	if all[0].UsageDescription != "회의 다과" {
		t.Fatalf("usage = %q, want the corrected value", all[0].UsageDescription)
	}
}

func TestCreatePatternFromManualPriorities(t *testing.T) {
	engine, _ := newTestEngine(t)

	scoped, err := engine.CreatePatternFromManual("가게A", "간식", uintPtr(3), "manual")
	if err != nil {
		t.Fatalf("CreatePatternFromManual failed: %v", err)
	}
	if scoped.Priority != 10 {
		t.Fatalf("card-scoped priority = %d, want 10", scoped.Priority)
	}

	global, err := engine.CreatePatternFromManual("가게B", "간식", nil, "manual")
	if err != nil {
		t.Fatalf("CreatePatternFromManual failed: %v", err)
	}
	if global.Priority != 0 {
		t.Fatalf("global priority = %d, want 0", global.Priority)
	}
}
