package matching

import (
	"regexp"
	"sort"
	"strings"

	"card-expense-backend/internal/models"
	"card-expense-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

// Engine resolves a merchant name against the pattern store.
type Engine struct {
	patterns *repository.PatternRepository
	log      *logrus.Logger
}

func NewEngine(patterns *repository.PatternRepository, log *logrus.Logger) *Engine {
	return &Engine{patterns: patterns, log: log}
}

// Resolve finds the single best pattern for a merchant. Precedence, first
// hit wins:
//
//  1. card-scoped exact patterns, highest priority first
//  2. global exact patterns, highest priority first
//  3. contains patterns (scoped and global together) by descending
//     priority, where the pattern's scope is global or matches cardID
//
// TODO: regex-type patterns are never consulted here even though the
// pattern API can create them; confirm with product whether ingestion-time
// matching should evaluate regex before wiring it in. TestPattern already
// does.
//
// Returns (nil, nil) on no match. A hit bumps the winner's use_count;
// failure to bump is logged and swallowed, never failing the resolution.
func (e *Engine) Resolve(merchantName string, cardID *uint) (*models.Pattern, error) {
	if cardID != nil {
		p, err := e.patterns.FindCardExact(merchantName, *cardID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			e.bumpUseCount(p)
			return p, nil
		}
	}

	p, err := e.patterns.FindGlobalExact(merchantName)
	if err != nil {
		return nil, err
	}
	if p != nil {
		e.bumpUseCount(p)
		return p, nil
	}

	candidates, err := e.patterns.ListContains()
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		c := &candidates[i]
		if !strings.Contains(merchantName, c.MerchantName) {
			continue
		}
		if c.CardID == nil || (cardID != nil && *c.CardID == *cardID) {
			e.bumpUseCount(c)
			return c, nil
		}
	}

	return nil, nil
}

func (e *Engine) bumpUseCount(p *models.Pattern) {
	if err := e.patterns.IncrementUseCount(p.ID); err != nil {
		e.log.WithFields(logrus.Fields{
			"pattern_id": p.ID,
			"merchant":   p.MerchantName,
		}).WithError(err).Warn("use_count increment failed")
	}
}

// TestResult is the pattern tester's outcome.
type TestResult struct {
	Matched          bool            `json:"matched"`
	UsageDescription string          `json:"usage_description,omitempty"`
	Pattern          *models.Pattern `json:"pattern,omitempty"`
	ViaRegex         bool            `json:"via_regex,omitempty"`
}

// TestPattern is the diagnostic resolver for the pattern-management UI. It
// runs the normal resolution first and then, unlike Resolve, also tries
// regex-type patterns.
func (e *Engine) TestPattern(merchantName string, cardID *uint) (*TestResult, error) {
	p, err := e.Resolve(merchantName, cardID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return &TestResult{Matched: true, UsageDescription: p.UsageDescription, Pattern: p}, nil
	}

	regexPatterns, err := e.patterns.ListRegex()
	if err != nil {
		return nil, err
	}
	for i := range regexPatterns {
		rp := &regexPatterns[i]
		if rp.CardID != nil && (cardID == nil || *rp.CardID != *cardID) {
			continue
		}
		re, err := regexp.Compile(rp.MerchantName)
		if err != nil {
			e.log.WithField("pattern_id", rp.ID).WithError(err).Warn("invalid regex pattern")
			continue
		}
		if re.MatchString(merchantName) {
			e.bumpUseCount(rp)
			return &TestResult{Matched: true, UsageDescription: rp.UsageDescription, Pattern: rp, ViaRegex: true}, nil
		}
	}

	return &TestResult{Matched: false}, nil
}

// Suggestion is a near-miss pattern offered to the manual-entry UI.
type Suggestion struct {
	PatternID        uint   `json:"pattern_id"`
	MerchantName     string `json:"merchant_name"`
	UsageDescription string `json:"usage_description"`
	Score            int    `json:"score"`
	IsCardSpecific   bool   `json:"is_card_specific"`
}

// Suggest scores stored patterns against a merchant name: 100 exact, 80
// pattern-contained-in-merchant, 60 merchant-contained-in-pattern, 40 any
// shared word. Top five, best first.
func (e *Engine) Suggest(merchantName string, cardID *uint) ([]Suggestion, error) {
	patterns, err := e.patterns.GetAll(cardID, "")
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for _, p := range patterns {
		score := 0
		switch {
		case p.MerchantName == merchantName:
			score = 100
		case strings.Contains(merchantName, p.MerchantName):
			score = 80
		case strings.Contains(p.MerchantName, merchantName):
			score = 60
		default:
			for _, word := range strings.Fields(p.MerchantName) {
				if strings.Contains(merchantName, word) {
					score = 40
					break
				}
			}
		}
		if score == 0 {
			continue
		}
		cardSpecific := p.CardID != nil && cardID != nil && *p.CardID == *cardID
		suggestions = append(suggestions, Suggestion{
			PatternID:        p.ID,
			MerchantName:     p.MerchantName,
			UsageDescription: p.UsageDescription,
			Score:            score,
			IsCardSpecific:   cardSpecific,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].IsCardSpecific && !suggestions[j].IsCardSpecific
	})
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions, nil
}

// CreatePatternFromManual stores a correction as a durable exact pattern.
// Card-scoped patterns get a higher priority than global ones so they win
// future exact-match ties.
func (e *Engine) CreatePatternFromManual(merchantName, usageDescription string, cardID *uint, createdBy string) (*models.Pattern, error) {
	priority := 0
	if cardID != nil {
		priority = 10
	}
	p := &models.Pattern{
		MerchantName:     merchantName,
		UsageDescription: usageDescription,
		CardID:           cardID,
		MatchType:        models.MatchTypeExact,
		Priority:         priority,
		UseCount:         1,
		CreatedBy:        createdBy,
	}
	if err := e.patterns.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpsertManualPattern implements the manual-match upsert: an existing
// exact pattern for the merchant (card-scoped preferred, else global) gets
// its usage description updated in place; otherwise a new global exact
// pattern is created.
func (e *Engine) UpsertManualPattern(merchantName, usageDescription string, cardID *uint, createdBy string) (*models.Pattern, error) {
	existing, err := e.patterns.FindExactByMerchant(merchantName, cardID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return e.patterns.Update(existing.ID, map[string]interface{}{
			"usage_description": usageDescription,
		})
	}
	return e.CreatePatternFromManual(merchantName, usageDescription, nil, createdBy)
}
