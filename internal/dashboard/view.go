package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/saeid-a/FitProBack/internal/models"
)

type Filter string

const (
	FilterAll          Filter = "ALL"
	FilterStalled      Filter = "STALLED"
	FilterBadNutrition Filter = "BAD_NUTRITION"
	FilterAsymmetry    Filter = "ASYMMETRY"
	FilterHighRisk     Filter = "HIGH_RISK"
)

type SortKey string

const (
	SortName        SortKey = "NAME"
	SortConsistency SortKey = "CONSISTENCY"
	SortRisk        SortKey = "RISK"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

const (
	badNutritionBelow = 70
	asymmetryAboveCM  = 0.8
)

// Options selects the dashboard view. Empty fields fall back to ALL, RISK and DESC.
type Options struct {
	Filter Filter
	Sort   SortKey
	Order  SortOrder
}

type Entry struct {
	models.TraineeSummary
	Risk      RiskLevel `json:"risk"`
	RiskLabel string    `json:"riskLabel"`
}

func ParseOptions(filter, sortKey, order string) (Options, error) {
	opts := Options{
		Filter: Filter(strings.ToUpper(strings.TrimSpace(filter))),
		Sort:   SortKey(strings.ToUpper(strings.TrimSpace(sortKey))),
		Order:  SortOrder(strings.ToUpper(strings.TrimSpace(order))),
	}
	opts = opts.withDefaults()

	switch opts.Filter {
	case FilterAll, FilterStalled, FilterBadNutrition, FilterAsymmetry, FilterHighRisk:
	default:
		return Options{}, fmt.Errorf("unknown filter %q", filter)
	}
	switch opts.Sort {
	case SortName, SortConsistency, SortRisk:
	default:
		return Options{}, fmt.Errorf("unknown sort key %q", sortKey)
	}
	switch opts.Order {
	case OrderAsc, OrderDesc:
	default:
		return Options{}, fmt.Errorf("unknown sort order %q", order)
	}
	return opts, nil
}

func (o Options) withDefaults() Options {
	if o.Filter == "" {
		o.Filter = FilterAll
	}
	if o.Sort == "" {
		o.Sort = SortRisk
	}
	if o.Order == "" {
		o.Order = OrderDesc
	}
	return o
}

// Matches reports whether t belongs in the filtered view.
func (f Filter) Matches(t models.TraineeSummary) bool {
	switch f {
	case FilterStalled:
		return t.VolumeTrend != nil && (*t.VolumeTrend == models.TrendFlat || *t.VolumeTrend == models.TrendDown)
	case FilterBadNutrition:
		return valueOr(t.NutritionAdherence, 0) < badNutritionBelow
	case FilterAsymmetry:
		return valueOr(t.AsymmetryMax, 0) > asymmetryAboveCM
	case FilterHighRisk:
		return ClassifyRisk(t) == RiskRed
	default:
		return true
	}
}

// FilterTrainees returns a new slice; the input order is preserved.
func FilterTrainees(trainees []models.TraineeSummary, f Filter) []models.TraineeSummary {
	out := make([]models.TraineeSummary, 0, len(trainees))
	for _, t := range trainees {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortTrainees sorts a copy of trainees. Ties keep their input order.
func SortTrainees(trainees []models.TraineeSummary, key SortKey, order SortOrder) []models.TraineeSummary {
	out := slices.Clone(trainees)
	cmp := comparator(key)
	slices.SortStableFunc(out, func(a, b models.TraineeSummary) int {
		if order == OrderAsc {
			return cmp(a, b)
		}
		return -cmp(a, b)
	})
	return out
}

// BuildView filters, sorts and annotates trainees with their risk level.
func BuildView(trainees []models.TraineeSummary, opts Options) []Entry {
	opts = opts.withDefaults()
	sorted := SortTrainees(FilterTrainees(trainees, opts.Filter), opts.Sort, opts.Order)

	entries := make([]Entry, 0, len(sorted))
	for _, t := range sorted {
		risk := ClassifyRisk(t)
		entries = append(entries, Entry{TraineeSummary: t, Risk: risk, RiskLabel: risk.Label()})
	}
	return entries
}

func comparator(key SortKey) func(a, b models.TraineeSummary) int {
	switch key {
	case SortName:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.Persian)
		return func(a, b models.TraineeSummary) int {
			return c.CompareString(a.Name, b.Name)
		}
	case SortConsistency:
		return func(a, b models.TraineeSummary) int {
			switch {
			case a.ConsistencyScore < b.ConsistencyScore:
				return -1
			case a.ConsistencyScore > b.ConsistencyScore:
				return 1
			}
			return 0
		}
	default:
		return func(a, b models.TraineeSummary) int {
			return ClassifyRisk(a).Weight() - ClassifyRisk(b).Weight()
		}
	}
}
