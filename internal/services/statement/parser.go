package statement

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Skip reason tags, reported per upload so the user sees why rows vanished
// instead of a silently smaller total.
const (
	SkipBadCardNumber = "bad_card_number"
	SkipUnknownCard   = "unknown_card"
	SkipBadDate       = "bad_date"
	SkipEmptyMerchant = "empty_merchant"
	SkipBadAmount     = "bad_amount"
)

// ColumnMap names the statement's column headers. The headers are the card
// issuer's contract, not ours, so they are injected rather than hardcoded.
type ColumnMap struct {
	CardNumber string
	Date       string
	Merchant   string
	Amount     string
	Industry   string
}

func DefaultColumns() ColumnMap {
	return ColumnMap{
		CardNumber: "카드번호",
		Date:       "승인일자",
		Merchant:   "가맹점명",
		Amount:     "거래금액(원화)",
		Industry:   "가맹점업종",
	}
}

// ParsedTransaction is one normalized statement row.
type ParsedTransaction struct {
	CardNumber      string // last 4 digits
	TransactionDate time.Time
	MerchantName    string
	Amount          int64
	Industry        string
}

type ParseResult struct {
	Transactions []ParsedTransaction
	Skipped      int
	SkipReasons  map[string]int
}

type Parser struct {
	columns ColumnMap
}

func NewParser(columns ColumnMap) *Parser {
	return &Parser{columns: columns}
}

// Parse decodes an uploaded spreadsheet into normalized rows. knownCards is
// the set of registered card suffixes; rows charging an unregistered card
// are dropped. An unreadable file fails the whole parse, a malformed row
// only bumps a skip counter.
func (p *Parser) Parse(data []byte, knownCards map[string]bool) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unreadable spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	idx, err := p.columnIndexes(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ParseResult{SkipReasons: map[string]int{}}
	for _, row := range rows[1:] {
		tx, reason := p.parseRow(row, idx, knownCards)
		if reason != "" {
			result.Skipped++
			result.SkipReasons[reason]++
			continue
		}
		result.Transactions = append(result.Transactions, *tx)
	}
	return result, nil
}

type columnIndexes struct {
	card, date, merchant, amount, industry int
}

func (p *Parser) columnIndexes(header []string) (columnIndexes, error) {
	idx := columnIndexes{card: -1, date: -1, merchant: -1, amount: -1, industry: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case p.columns.CardNumber:
			idx.card = i
		case p.columns.Date:
			idx.date = i
		case p.columns.Merchant:
			idx.merchant = i
		case p.columns.Amount:
			idx.amount = i
		case p.columns.Industry:
			idx.industry = i
		}
	}
	if idx.card < 0 || idx.date < 0 || idx.merchant < 0 || idx.amount < 0 {
		return idx, fmt.Errorf("statement is missing required columns (%s, %s, %s, %s)",
			p.columns.CardNumber, p.columns.Date, p.columns.Merchant, p.columns.Amount)
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (p *Parser) parseRow(row []string, idx columnIndexes, knownCards map[string]bool) (*ParsedTransaction, string) {
	last4, ok := cardSuffix(cell(row, idx.card))
	if !ok {
		return nil, SkipBadCardNumber
	}
	if !knownCards[last4] {
		return nil, SkipUnknownCard
	}

	date, ok := parseDate(cell(row, idx.date))
	if !ok {
		return nil, SkipBadDate
	}

	merchant := cell(row, idx.merchant)
	if merchant == "" || merchant == "nan" {
		return nil, SkipEmptyMerchant
	}

	amount, ok := parseAmount(cell(row, idx.amount))
	if !ok {
		return nil, SkipBadAmount
	}

	industry := cell(row, idx.industry)
	if industry == "nan" {
		industry = ""
	}

	return &ParsedTransaction{
		CardNumber:      last4,
		TransactionDate: date,
		MerchantName:    merchant,
		Amount:          amount,
		Industry:        industry,
	}, ""
}

// cardSuffix strips separators and keeps the last 4 digits.
func cardSuffix(raw string) (string, bool) {
	clean := strings.NewReplacer("-", "", " ", "", "\t", "").Replace(raw)
	if len(clean) < 4 {
		return "", false
	}
	last4 := clean[len(clean)-4:]
	for _, c := range last4 {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return last4, true
}

// parseDate accepts an ISO YYYY-MM-DD prefix, an 8-digit YYYYMMDD string,
// a YYYY/MM/DD string, or an Excel serial date number. The result is
// truncated to midnight UTC so dedup equality is well-defined.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	if len(raw) >= 10 && raw[4] == '-' {
		if t, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return t, true
		}
	}
	if len(raw) >= 10 && raw[4] == '/' {
		if t, err := time.Parse("2006/01/02", raw[:10]); err == nil {
			return t, true
		}
	}
	if len(raw) == 8 && isDigits(raw) {
		if t, err := time.Parse("20060102", raw); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseAmount strips thousands separators and a currency suffix, truncates
// any fraction, and rejects non-positive results.
func parseAmount(raw string) (int64, bool) {
	clean := strings.NewReplacer(",", "", " ", "", "원", "").Replace(raw)
	if clean == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	amount := int64(f)
	if amount <= 0 {
		return 0, false
	}
	return amount, true
}
