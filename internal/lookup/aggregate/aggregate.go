// Package aggregate merges the records of a lookup response into one
// de-duplicated, field-grouped summary per submitted query.
package aggregate

import (
	"strings"

	"lookup-workers/internal/lookup/payload"
)

// FieldValues is one non-empty field of an aggregated record.
type FieldValues struct {
	Field  Field
	Values []string
}

// Record is the aggregate for one submitted query. It is never modified after
// Aggregate returns it; accessors hand out copies.
type Record struct {
	query     string
	noAnswers bool
	fields    []Field
	values    map[string][]string
	sources   []string
}

func (r Record) Query() string { return r.query }

// NoAnswers reports that the service returned no inner records for the query.
func (r Record) NoAnswers() bool { return r.noAnswers }

// Values returns the unique values collected for key in first-seen order.
func (r Record) Values(key string) []string {
	return append([]string(nil), r.values[strings.ToLower(key)]...)
}

// Sources returns the unique source labels in first-seen order.
func (r Record) Sources() []string {
	return append([]string(nil), r.sources...)
}

// Fields lists the populated fields of interest in table order.
func (r Record) Fields() []FieldValues {
	var out []FieldValues
	for _, f := range r.fields {
		if vals := r.values[f.Key]; len(vals) > 0 {
			out = append(out, FieldValues{Field: f, Values: append([]string(nil), vals...)})
		}
	}
	return out
}

// Result is the aggregate of one lookup response.
type Result struct {
	// Rejected holds the service's not-valid requests, verbatim.
	Rejected []string
	// NothingFound is set when the response carried no result blocks at all;
	// Records is then empty.
	NothingFound bool
	Records      []Record
}

// Aggregator aggregates lookup responses against a field table.
type Aggregator struct {
	fields []Field
}

// New returns an Aggregator for fields; nil selects DefaultFields.
func New(fields []Field) *Aggregator {
	if fields == nil {
		fields = DefaultFields
	}
	return &Aggregator{fields: fields}
}

// Aggregate runs the field aggregation pass over resp.
func (a *Aggregator) Aggregate(resp payload.Response) Result {
	res := Result{Rejected: append([]string(nil), resp.NotValidRequests...)}
	if len(resp.Blocks) == 0 {
		res.NothingFound = true
		return res
	}
	for _, block := range resp.Blocks {
		res.Records = append(res.Records, a.aggregateBlock(block))
	}
	return res
}

func (a *Aggregator) aggregateBlock(block payload.Block) Record {
	rec := Record{
		query:  block.Query,
		fields: a.fields,
		values: make(map[string][]string),
	}
	if len(block.Records) == 0 {
		rec.noAnswers = true
		return rec
	}

	seen := make(map[string]map[string]struct{})
	var sources []payload.Value

	for _, inner := range block.Records {
		for _, key := range inner.Keys() {
			items := inner.Get(key).Items()
			if key == SourcesKey {
				sources = append(sources, items...)
				continue
			}
			for _, item := range items {
				s, ok := item.Text()
				if !ok || s == "" {
					continue
				}
				if seen[key] == nil {
					seen[key] = make(map[string]struct{})
				}
				if _, dup := seen[key][s]; dup {
					continue
				}
				seen[key][s] = struct{}{}
				rec.values[key] = append(rec.values[key], s)
			}
		}
	}

	rec.sources = sourceLabels(sources)
	return rec
}

func sourceLabels(sources []payload.Value) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, src := range sources {
		label := sourceLabel(src)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

func sourceLabel(src payload.Value) string {
	if s, ok := src.Text(); ok && s != "" {
		return s
	}
	obj, ok := src.Object()
	if !ok {
		return SourcePlaceholder
	}
	for _, key := range []string{"name", "url"} {
		if s, ok := obj.Get(key).Text(); ok && s != "" {
			return s
		}
	}
	return SourcePlaceholder
}
