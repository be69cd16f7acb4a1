// Package compare puts 2 or 3 same-category records side by side, assigns a
// winner/loser/tie verdict per numeric dimension, and computes a 0-100
// suitability score per record. The score is a heuristic built from fixed
// threshold bonuses, not a fitted model; the thresholds live in ScoreRules
// so they can be tuned without touching the algorithm.
package compare

import (
	"strconv"

	"compare-engine/internal/common/errors"
	"compare-engine/internal/common/metrics"
	"compare-engine/internal/engine/record"
)

// Verdict labels one record on one dimension.
type Verdict string

const (
	VerdictWinner Verdict = "winner"
	VerdictLoser  Verdict = "loser"
	VerdictTie    Verdict = "tie"
)

// BetterWhen says which extremal value wins a dimension. DisplayOnly
// dimensions show their values but never get verdicts.
type BetterWhen int

const (
	LowerBetter BetterWhen = iota
	HigherBetter
	DisplayOnly
)

// ValueKind selects how a dimension extracts its numeric value.
type ValueKind int

const (
	// KindNumeric strips non-numeric characters and parses, so "$450" and
	// "20.74%" both compare.
	KindNumeric ValueKind = iota
	// KindLoungeRank is the compound lounge key: availability first, then
	// visit count.
	KindLoungeRank
)

// Dimension is one comparable attribute.
type Dimension struct {
	Key    string
	Label  string
	Better BetterWhen
	Kind   ValueKind
}

// CardDimensions returns the credit-card comparison table.
func CardDimensions() []Dimension {
	return []Dimension{
		{Key: "purchase_rate", Label: "Purchase Rate", Better: LowerBetter},
		{Key: "annual_fee", Label: "Annual Fee", Better: LowerBetter},
		{Key: "late_payment_fee", Label: "Late Payment Fee", Better: LowerBetter},
		{Key: "foreign_transaction_fee", Label: "Foreign Transaction Fee", Better: LowerBetter},
		{Key: "interest_free_days", Label: "Interest Free Days", Better: HigherBetter},
		{Key: "credit_limits", Label: "Credit Limit", Better: HigherBetter},
		{Key: "balance_transfer_limits", Label: "Balance Transfer Limit", Better: HigherBetter},
		{Key: "lounge_access", Label: "Airport Lounge Access", Better: HigherBetter, Kind: KindLoungeRank},
		{Key: "rewards_program", Label: "Rewards Program", Better: DisplayOnly},
	}
}

// ScoreRules holds the bonus thresholds for the aggregate score. All values
// are placeholder business rules pending product-owner review.
type ScoreRules struct {
	Base int

	LowRateCeiling  float64
	MidRateCeiling  float64
	LowRateBonus    int
	MidRateBonus    int
	HighRateBonus   int
	ModerateFee     float64
	ZeroFeeBonus    int
	LowFeeBonus     int
	HighFeeBonus    int
	RewardsBonus    int
	LoungeBonus     int
	BonusPointBonus int
	LongIFDDays     float64
	MidIFDDays      float64
	LongIFDBonus    int
	MidIFDBonus     int
	ShortIFDBonus   int
}

// DefaultScoreRules returns the standard card-scoring thresholds.
func DefaultScoreRules() ScoreRules {
	return ScoreRules{
		Base:            50,
		LowRateCeiling:  20,
		MidRateCeiling:  25,
		LowRateBonus:    15,
		MidRateBonus:    10,
		HighRateBonus:   5,
		ModerateFee:     150,
		ZeroFeeBonus:    15,
		LowFeeBonus:     10,
		HighFeeBonus:    5,
		RewardsBonus:    10,
		LoungeBonus:     10,
		BonusPointBonus: 5,
		LongIFDDays:     50,
		MidIFDDays:      45,
		LongIFDBonus:    10,
		MidIFDBonus:     7,
		ShortIFDBonus:   3,
	}
}

// Entry is one record's standing on one dimension.
type Entry struct {
	ProductIndex int     `json:"productIndex"`
	DisplayValue string  `json:"displayValue"`
	RawNumeric   float64 `json:"rawNumeric"`
	Verdict      Verdict `json:"verdict,omitempty"`
}

// DimensionResult is one dimension across all compared records.
type DimensionResult struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

// Report is a completed comparison. Transient, never persisted.
type Report struct {
	Dimensions []DimensionResult `json:"dimensions"`
	Scores     []int             `json:"scores"`
}

// Scorer runs comparisons against one dimension table and one rule set.
type Scorer struct {
	dimensions []Dimension
	rules      ScoreRules
}

// NewScorer creates a Scorer.
func NewScorer(dimensions []Dimension, rules ScoreRules) *Scorer {
	return &Scorer{dimensions: dimensions, rules: rules}
}

// NewCardScorer creates a Scorer with the credit-card defaults.
func NewCardScorer() *Scorer {
	return NewScorer(CardDimensions(), DefaultScoreRules())
}

// Compare produces a report for 2 or 3 records.
func (s *Scorer) Compare(records []record.Product) (*Report, error) {
	if len(records) < 2 || len(records) > 3 {
		return nil, errors.NewInvalidComparisonInputError(
			"comparison requires 2 or 3 records",
		)
	}

	report := &Report{
		Dimensions: make([]DimensionResult, 0, len(s.dimensions)),
		Scores:     make([]int, len(records)),
	}

	for _, dim := range s.dimensions {
		report.Dimensions = append(report.Dimensions, s.compareDimension(dim, records))
	}
	for i, rec := range records {
		report.Scores[i] = s.score(rec)
	}

	metrics.ComparisonsTotal.WithLabelValues(strconv.Itoa(len(records))).Inc()
	return report, nil
}

func (s *Scorer) compareDimension(dim Dimension, records []record.Product) DimensionResult {
	result := DimensionResult{
		Key:     dim.Key,
		Label:   dim.Label,
		Entries: make([]Entry, len(records)),
	}

	for i, rec := range records {
		result.Entries[i] = Entry{
			ProductIndex: i,
			DisplayValue: displayValue(rec, dim.Key),
			RawNumeric:   extractValue(rec, dim),
		}
	}

	if dim.Better == DisplayOnly {
		return result
	}

	assignVerdicts(result.Entries, dim.Better)
	return result
}

// assignVerdicts marks every entry holding the extremal value as winner and
// the rest as losers. All-equal values tie across the board.
func assignVerdicts(entries []Entry, better BetterWhen) {
	best := entries[0].RawNumeric
	allEqual := true
	for _, e := range entries[1:] {
		if e.RawNumeric != best {
			allEqual = false
		}
		if better == LowerBetter && e.RawNumeric < best {
			best = e.RawNumeric
		}
		if better == HigherBetter && e.RawNumeric > best {
			best = e.RawNumeric
		}
	}

	for i := range entries {
		switch {
		case allEqual:
			entries[i].Verdict = VerdictTie
		case entries[i].RawNumeric == best:
			entries[i].Verdict = VerdictWinner
		default:
			entries[i].Verdict = VerdictLoser
		}
	}
}

func extractValue(rec record.Product, dim Dimension) float64 {
	switch dim.Kind {
	case KindLoungeRank:
		if !rec.Flag(dim.Key) {
			return 0
		}
		visits := rec.Float("lounge_visits")
		if visits == 0 {
			visits = rec.Float("visits")
		}
		return 1000 + visits
	default:
		return rec.Float(dim.Key)
	}
}

func displayValue(rec record.Product, key string) string {
	if s := rec.String(key); s != "" {
		return s
	}
	if rec.Has(key) {
		if rec.Flag(key) {
			return "Yes"
		}
	}
	return "-"
}

// hasRewards accepts both flag-style values and program names.
func hasRewards(rec record.Product) bool {
	if rec.Flag("rewards_program") {
		return true
	}
	s := rec.String("rewards_program")
	return s != "" && s != "No" && s != "no" && s != "false" && s != "0"
}

// score applies the bonus ladder and clamps to [0,100].
func (s *Scorer) score(rec record.Product) int {
	r := s.rules
	total := r.Base

	switch rate := rec.Float("purchase_rate"); {
	case rate <= r.LowRateCeiling:
		total += r.LowRateBonus
	case rate <= r.MidRateCeiling:
		total += r.MidRateBonus
	default:
		total += r.HighRateBonus
	}

	switch fee := rec.Float("annual_fee"); {
	case fee == 0:
		total += r.ZeroFeeBonus
	case fee <= r.ModerateFee:
		total += r.LowFeeBonus
	default:
		total += r.HighFeeBonus
	}

	if hasRewards(rec) {
		total += r.RewardsBonus
	}
	if rec.Flag("lounge_access") {
		total += r.LoungeBonus
	}
	if rec.Has("bonus_points") {
		total += r.BonusPointBonus
	}

	switch days := rec.Float("interest_free_days"); {
	case days >= r.LongIFDDays:
		total += r.LongIFDBonus
	case days >= r.MidIFDDays:
		total += r.MidIFDBonus
	default:
		total += r.ShortIFDBonus
	}

	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}
