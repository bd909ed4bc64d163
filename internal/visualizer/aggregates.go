package visualizer

import (
	"slices"

	"github.com/nao1215/gdpdash/internal/model"
)

// DefaultAggregateLabels are the World Bank rows that describe groups of
// countries rather than a single country.
var DefaultAggregateLabels = []string{
	"World",
	"Arab World",
	"Africa Eastern and Southern",
	"Africa Western and Central",
	"Caribbean small states",
	"Central Europe and the Baltics",
	"Early-demographic dividend",
	"East Asia & Pacific",
	"East Asia & Pacific (excluding high income)",
	"East Asia & Pacific (IDA & IBRD countries)",
	"Euro area",
	"Europe & Central Asia",
	"Europe & Central Asia (excluding high income)",
	"Europe & Central Asia (IDA & IBRD countries)",
	"European Union",
	"Fragile and conflict affected situations",
	"Heavily indebted poor countries (HIPC)",
	"High income",
	"IBRD only",
	"IDA & IBRD total",
	"IDA blend",
	"IDA only",
	"IDA total",
	"Late-demographic dividend",
	"Latin America & Caribbean",
	"Latin America & Caribbean (excluding high income)",
	"Latin America & the Caribbean (IDA & IBRD countries)",
	"Least developed countries: UN classification",
	"Low & middle income",
	"Low income",
	"Lower middle income",
	"Middle East & North Africa",
	"Middle East & North Africa (excluding high income)",
	"Middle East & North Africa (IDA & IBRD countries)",
	"Middle income",
	"North America",
	"Not classified",
	"OECD members",
	"Other small states",
	"Pacific island small states",
	"Post-demographic dividend",
	"Pre-demographic dividend",
	"Small states",
	"South Asia",
	"South Asia (IDA & IBRD)",
	"Sub-Saharan Africa",
	"Sub-Saharan Africa (excluding high income)",
	"Sub-Saharan Africa (IDA & IBRD countries)",
	"Upper middle income",
}

// AggregateFilter removes aggregate rows from a view by country label.
type AggregateFilter struct {
	labels   map[string]struct{}
	resolver ColumnResolver
}

// NewAggregateFilter creates a filter blocking exactly labels.
func NewAggregateFilter(resolver ColumnResolver, labels ...string) *AggregateFilter {
	f := &AggregateFilter{
		labels:   make(map[string]struct{}, len(labels)),
		resolver: resolver,
	}
	f.Add(labels...)
	return f
}

// DefaultAggregateFilter blocks DefaultAggregateLabels.
func DefaultAggregateFilter() *AggregateFilter {
	return NewAggregateFilter(ColumnResolver{}, DefaultAggregateLabels...)
}

// Add extends the block-list.
func (f *AggregateFilter) Add(labels ...string) {
	for _, l := range labels {
		f.labels[l] = struct{}{}
	}
}

// withResolver returns a copy of f that resolves the country column with r.
func (f *AggregateFilter) withResolver(r ColumnResolver) *AggregateFilter {
	return NewAggregateFilter(r, f.Labels()...)
}

// IsAggregate reports whether label is blocked.
func (f *AggregateFilter) IsAggregate(label string) bool {
	_, ok := f.labels[label]
	return ok
}

// Labels returns the block-list, sorted.
func (f *AggregateFilter) Labels() []string {
	out := make([]string, 0, len(f.labels))
	for l := range f.labels {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Exclude returns the rows of view whose country label is not blocked.
func (f *AggregateFilter) Exclude(view model.View) (model.View, error) {
	col, err := f.resolver.CountryColumn(view.Header())
	if err != nil {
		return model.View{}, err
	}
	rows := make([]model.Row, 0, view.Len())
	for i := range view.Len() {
		row := view.Row(i)
		if !f.IsAggregate(row.Get(col)) {
			rows = append(rows, row)
		}
	}
	return model.NewView(view.Header(), rows), nil
}

// ExcludeAggregateRows drops the default aggregate rows from view.
func ExcludeAggregateRows(view model.View) (model.View, error) {
	return DefaultAggregateFilter().Exclude(view)
}
