package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"landscout/models"
	"landscout/utils"
)

// DefaultTopN is the number of top picks surfaced in the sidebar.
const DefaultTopN = 3

// AreaMode selects how records without acreage enter the average price per acre.
type AreaMode int

const (
	// FoldZeroArea counts zero-acre records as a zero contribution that still
	// increases the divisor.
	FoldZeroArea AreaMode = iota
	// ExcludeZeroArea leaves zero-acre records out of both sum and divisor.
	ExcludeZeroArea
)

// ParseAreaMode maps "fold" / "exclude" to an AreaMode. Blank is
// FoldZeroArea; an unknown value also yields FoldZeroArea plus an error.
func ParseAreaMode(s string) (AreaMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fold":
		return FoldZeroArea, nil
	case "exclude":
		return ExcludeZeroArea, nil
	}
	return FoldZeroArea, fmt.Errorf("unknown average-per-acre mode %q (want fold or exclude)", s)
}

func (m AreaMode) String() string {
	if m == ExcludeZeroArea {
		return "exclude"
	}
	return "fold"
}

// Aggregator derives market statistics and rankings from a record collection.
type Aggregator struct {
	logger  *utils.Logger
	topN    int
	mode    AreaMode
	printer *message.Printer
}

// NewAggregator creates an Aggregator. A non-positive topN uses DefaultTopN.
func NewAggregator(logger *utils.Logger, topN int, mode AreaMode) *Aggregator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Aggregator{
		logger:  logger,
		topN:    topN,
		mode:    mode,
		printer: message.NewPrinter(language.English),
	}
}

// Summarize computes the DerivedSummary for records. The input slice is not
// modified and the result depends only on its contents.
func (a *Aggregator) Summarize(records []models.PropertyRecord) models.DerivedSummary {
	summary := models.DerivedSummary{
		Ranked: []models.PropertyRecord{},
		Top:    []models.PropertyRecord{},
	}

	if len(records) == 0 {
		a.logger.Debug("[aggregator] Empty collection, no statistics or narrative")
		return summary
	}

	summary.Count = len(records)
	summary.AveragePrice = averagePrice(records)
	summary.AveragePricePerAcre = averagePricePerAcre(records, a.mode)
	summary.Ranked = Rank(records)

	top := a.topN
	if top > len(summary.Ranked) {
		top = len(summary.Ranked)
	}
	summary.Top = summary.Ranked[:top:top]

	summary.Narrative = a.narrative(summary)
	summary.HasNarrative = true

	return summary
}

// Rank returns a copy of records sorted by score descending, ties broken by
// ascending ID.
func Rank(records []models.PropertyRecord) []models.PropertyRecord {
	ranked := make([]models.PropertyRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// PricePerAcre is the per-record display value: the rounded price per acre,
// or unavailable when the record has no acreage.
func PricePerAcre(rec models.PropertyRecord) models.UnitPrice {
	if rec.Acres <= 0 {
		return models.UnitPrice{}
	}
	return models.UnitPrice{Value: int64(math.Round(rec.Price / rec.Acres)), Available: true}
}

func averagePrice(records []models.PropertyRecord) float64 {
	prices := make(stats.Float64Data, len(records))
	for i, r := range records {
		prices[i] = r.Price
	}
	mean, err := stats.Mean(prices)
	if err != nil {
		return 0
	}
	return mean
}

func averagePricePerAcre(records []models.PropertyRecord, mode AreaMode) float64 {
	perAcre := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		switch {
		case r.Acres > 0:
			perAcre = append(perAcre, r.Price/r.Acres)
		case mode == FoldZeroArea:
			perAcre = append(perAcre, 0)
		}
	}
	mean, err := stats.Mean(perAcre)
	if err != nil {
		return 0
	}
	return mean
}

func (a *Aggregator) narrative(s models.DerivedSummary) string {
	best := s.Ranked[0]
	return a.printer.Sprintf("Top pick: %s scores %d/100, %d mi away. Average $%d/ac across %d listings.",
		best.Address, best.Score, best.DriveMiles, int64(math.Round(s.AveragePricePerAcre)), s.Count)
}

// Print writes a terminal report of the summary to stdout.
func (a *Aggregator) Print(s models.DerivedSummary) {
	a.Fprint(os.Stdout, s)
}

// Fprint writes the terminal report of the summary to w.
func (a *Aggregator) Fprint(w io.Writer, s models.DerivedSummary) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	p := a.printer

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🌾 LAND LISTING SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Market\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings         : \033[1m%d\033[0m\n", s.Count)
	if s.Count == 0 {
		fmt.Fprintf(w, "  No listings with a price and coordinates\n")
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}
	p.Fprintf(w, "  Average price    : \033[1;32m$%d\033[0m\n", int64(math.Round(s.AveragePrice)))
	p.Fprintf(w, "  Average $/acre   : \033[1;32m$%d\033[0m\n", int64(math.Round(s.AveragePricePerAcre)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top %d Picks\033[0m\n", len(s.Top))
	fmt.Fprintf(w, "  %s\n", thin)
	for i, r := range s.Top {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-38s \033[1;32m%3d\033[0m  %4d mi  %s\n",
			i+1, truncate(r.Address, 36), r.Score, r.DriveMiles, PricePerAcre(r))
	}
	fmt.Fprintln(w)

	if s.HasNarrative {
		fmt.Fprintf(w, "  %s\n", s.Narrative)
	}
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
