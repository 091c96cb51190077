package ingestion

import (
	"fmt"

	"card-expense-backend/internal/models"
	"card-expense-backend/internal/repository"
	"card-expense-backend/internal/services/classifier"
	"card-expense-backend/internal/services/matching"
	"card-expense-backend/internal/services/statement"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service runs the statement-ingestion pipeline: parse, dedup, classify,
// persist, count. It also owns batch re-matching and manual corrections
// since both feed the same pattern store.
type Service struct {
	cards        *repository.CardRepository
	sessions     *repository.SessionRepository
	transactions *repository.TransactionRepository
	engine       *matching.Engine
	parser       *statement.Parser
	log          *logrus.Logger
}

func NewService(
	cards *repository.CardRepository,
	sessions *repository.SessionRepository,
	transactions *repository.TransactionRepository,
	engine *matching.Engine,
	parser *statement.Parser,
	log *logrus.Logger,
) *Service {
	return &Service{
		cards:        cards,
		sessions:     sessions,
		transactions: transactions,
		engine:       engine,
		parser:       parser,
		log:          log,
	}
}

type IngestResult struct {
	SessionID   uint           `json:"session_id"`
	ReferenceID uuid.UUID      `json:"reference_id"`
	Filename    string         `json:"filename"`
	Total       int            `json:"total"`
	Matched     int            `json:"matched"`
	Pending     int            `json:"pending"`
	Duplicates  int            `json:"duplicates"`
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons"`
}

// IngestStatement processes one uploaded statement. A parse failure aborts
// before any session exists; after that, each row stands alone and a bad
// row never takes down the batch. Re-uploading the same statement is safe:
// rows matching an existing (card, date, merchant, amount) are skipped.
func (s *Service) IngestStatement(data []byte, filename, createdBy string) (*IngestResult, error) {
	activeCards, err := s.cards.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	knownCards := make(map[string]bool, len(activeCards))
	cardsByNumber := make(map[string]*models.Card, len(activeCards))
	for i := range activeCards {
		c := &activeCards[i]
		knownCards[c.CardNumber] = true
		cardsByNumber[c.CardNumber] = c
	}

	parsed, err := s.parser.Parse(data, knownCards)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(filename, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload session: %w", err)
	}

	total := 0
	matched := 0
	duplicates := 0

	for _, row := range parsed.Transactions {
		card := cardsByNumber[row.CardNumber]

		exists, err := s.transactions.Exists(card.ID, row.TransactionDate, row.MerchantName, row.Amount)
		if err != nil {
			s.log.WithError(err).WithField("merchant", row.MerchantName).Error("dedup check failed, skipping row")
			continue
		}
		if exists {
			duplicates++
			continue
		}

		tx := models.Transaction{
			SessionID:       session.ID,
			CardID:          card.ID,
			TransactionDate: row.TransactionDate,
			MerchantName:    row.MerchantName,
			Amount:          row.Amount,
			Industry:        row.Industry,
			MatchStatus:     models.MatchStatusPending,
		}

		pattern, err := s.engine.Resolve(row.MerchantName, &card.ID)
		if err != nil {
			s.log.WithError(err).WithField("merchant", row.MerchantName).Error("match resolution failed, inserting as pending")
		} else if pattern != nil {
			tx.UsageDescription = pattern.UsageDescription
			tx.MatchedPatternID = &pattern.ID
			tx.MatchStatus = models.MatchStatusAuto
		}

		if err := s.transactions.Create(&tx); err != nil {
			s.log.WithError(err).WithField("merchant", row.MerchantName).Error("failed to persist transaction")
			continue
		}
		total++
		if tx.MatchStatus == models.MatchStatusAuto {
			matched++
		}
	}

	pending := total - matched
	if err := s.sessions.Complete(session.ID, total, matched, pending, parsed.Skipped, parsed.SkipReasons); err != nil {
		s.log.WithError(err).WithField("session_id", session.ID).Error("failed to finalize session")
	}

	return &IngestResult{
		SessionID:   session.ID,
		ReferenceID: session.ReferenceID,
		Filename:    filename,
		Total:       total,
		Matched:     matched,
		Pending:     pending,
		Duplicates:  duplicates,
		Skipped:     parsed.Skipped,
		SkipReasons: parsed.SkipReasons,
	}, nil
}

type RematchResult struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`
	Failed  int `json:"failed"`
}

// RematchCard re-runs the matching engine over the card's pending
// transactions. Already-matched rows are untouched, so calling this twice
// with no pattern changes in between reports identical counts.
func (s *Service) RematchCard(cardID uint) (*RematchResult, error) {
	if _, err := s.cards.GetByID(cardID); err != nil {
		return nil, err
	}

	pending, err := s.transactions.GetPendingByCard(cardID)
	if err != nil {
		return nil, err
	}

	result := &RematchResult{Total: len(pending)}
	for _, tx := range pending {
		pattern, err := s.engine.Resolve(tx.MerchantName, &tx.CardID)
		if err != nil || pattern == nil {
			result.Failed++
			continue
		}
		if err := s.transactions.UpdateMatch(tx.ID, pattern.UsageDescription, &pattern.ID, models.MatchStatusAuto); err != nil {
			s.log.WithError(err).WithField("transaction_id", tx.ID).Error("rematch persist failed")
			result.Failed++
			continue
		}
		result.Matched++
	}
	return result, nil
}

// ManualMatch applies a human correction: the transaction becomes manual
// with the given usage description, the tax category is classified when not
// supplied, and the correction is upserted into the pattern store so future
// uploads of the same merchant auto-match.
func (s *Service) ManualMatch(transactionID uint, usageDescription, notes, taxCategory string) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(transactionID)
	if err != nil {
		return nil, err
	}

	if taxCategory == "" {
		taxCategory = classifier.Classify(tx.MerchantName, usageDescription, tx.Amount)
	}

	tx.UsageDescription = usageDescription
	tx.MatchStatus = models.MatchStatusManual
	tx.MatchedPatternID = nil
	tx.TaxCategory = taxCategory
	if notes != "" {
		tx.Notes = notes
	}
	if err := s.transactions.Save(tx); err != nil {
		return nil, err
	}

	if _, err := s.engine.UpsertManualPattern(tx.MerchantName, usageDescription, &tx.CardID, "manual"); err != nil {
		// The correction itself stuck; losing the pattern only costs a
		// future auto-match.
		s.log.WithError(err).WithField("merchant", tx.MerchantName).Error("pattern upsert failed")
	}

	return tx, nil
}

type CardSummary struct {
	CardName    string `json:"card_name"`
	Total       int    `json:"total"`
	Matched     int    `json:"matched"`
	Pending     int    `json:"pending"`
	AmountTotal int64  `json:"amount_total"`
}

type SessionDetail struct {
	Session *models.UploadSession   `json:"session"`
	Stats   repository.SessionStats `json:"stats"`
	ByCard  map[string]*CardSummary `json:"by_card"`
}

// SessionSummary returns a session with its aggregate counts and a
// per-card breakdown.
func (s *Service) SessionSummary(sessionID uint) (*SessionDetail, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	stats, err := s.transactions.StatsBySession(sessionID)
	if err != nil {
		return nil, err
	}
	txs, err := s.transactions.GetBySession(sessionID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.List()
	if err != nil {
		return nil, err
	}
	cardsByID := make(map[uint]*models.Card, len(cards))
	for i := range cards {
		cardsByID[cards[i].ID] = &cards[i]
	}

	byCard := map[string]*CardSummary{}
	for _, tx := range txs {
		card := cardsByID[tx.CardID]
		if card == nil {
			continue
		}
		summary := byCard[card.CardNumber]
		if summary == nil {
			summary = &CardSummary{CardName: card.CardName}
			byCard[card.CardNumber] = summary
		}
		summary.Total++
		summary.AmountTotal += tx.Amount
		if tx.MatchStatus == models.MatchStatusPending {
			summary.Pending++
		} else {
			summary.Matched++
		}
	}

	return &SessionDetail{Session: session, Stats: stats, ByCard: byCard}, nil
}
