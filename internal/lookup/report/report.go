// Package report renders aggregated lookup results into a bounded text block.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lookup-workers/internal/lookup/aggregate"
)

const (
	DefaultFieldCap   = 12
	CompactFieldCap   = 5
	DefaultSourceCap  = 8
	DefaultCharBudget = 3900
)

const (
	rejectedHeader   = "❗ Запросы не прошли валидацию:"
	nothingFound     = "⚠️ Ничего не найдено по валидным запросам."
	queryHeaderLabel = "🔎 Запрос:"
	noAnswers        = "— Нет ответов."
	sourcesLabel     = "Источники"
	separator        = "— — —"
	truncatedMarker  = "\n\n(ответ обрезан)"
	fieldJoin        = "; "
	sourceJoin       = ", "
)

// Options controls caps, the character budget and the markup.
type Options struct {
	FieldCap  int
	SourceCap int
	Budget    int
	Renderer  Renderer
}

// DefaultOptions is the detailed layout.
func DefaultOptions() Options {
	return Options{
		FieldCap:  DefaultFieldCap,
		SourceCap: DefaultSourceCap,
		Budget:    DefaultCharBudget,
		Renderer:  MarkdownV2{},
	}
}

// CompactOptions shows fewer values per field.
func CompactOptions() Options {
	opts := DefaultOptions()
	opts.FieldCap = CompactFieldCap
	return opts
}

// Report is the formatted output.
type Report struct {
	Text      string
	Truncated bool
}

// Formatter renders aggregate results.
type Formatter struct {
	opts Options
}

func NewFormatter(opts Options) *Formatter {
	def := DefaultOptions()
	if opts.FieldCap <= 0 {
		opts.FieldCap = def.FieldCap
	}
	if opts.SourceCap <= 0 {
		opts.SourceCap = def.SourceCap
	}
	if opts.Budget <= 0 {
		opts.Budget = def.Budget
	}
	if opts.Renderer == nil {
		opts.Renderer = def.Renderer
	}
	return &Formatter{opts: opts}
}

func (f *Formatter) Renderer() Renderer { return f.opts.Renderer }

// Format renders res. Sections appear in a fixed order: rejected requests,
// then either the nothing-found marker or one block per query in submission
// order. The budget is enforced once, on the joined text.
func (f *Formatter) Format(res aggregate.Result) Report {
	var sections []string

	if len(res.Rejected) > 0 {
		sections = append(sections, f.rejectedSection(res.Rejected))
	}

	if res.NothingFound {
		sections = append(sections, f.opts.Renderer.Text(nothingFound))
	} else {
		for _, rec := range res.Records {
			sections = append(sections, f.recordSection(rec))
		}
	}

	return f.truncate(strings.Join(sections, "\n"))
}

func (f *Formatter) rejectedSection(rejected []string) string {
	r := f.opts.Renderer
	lines := make([]string, 0, len(rejected)+1)
	lines = append(lines, r.Text(rejectedHeader))
	for _, q := range rejected {
		lines = append(lines, r.Text("- "+q))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) recordSection(rec aggregate.Record) string {
	r := f.opts.Renderer
	header := r.Bold(queryHeaderLabel)
	if q := rec.Query(); q != "" {
		header += " " + r.Code(q)
	}
	lines := []string{header}

	if rec.NoAnswers() {
		lines = append(lines, r.Text(noAnswers))
	} else {
		for _, fv := range rec.Fields() {
			lines = append(lines, r.Bold(fv.Field.Label+":")+" "+f.cappedList(fv.Values, f.opts.FieldCap, fieldJoin))
		}
		if sources := rec.Sources(); len(sources) > 0 {
			lines = append(lines, r.Bold(sourcesLabel+":")+" "+f.cappedList(sources, f.opts.SourceCap, sourceJoin))
		}
	}

	lines = append(lines, r.Text(separator))
	return strings.Join(lines, "\n")
}

// cappedList joins at most limit values and reports the true remainder.
func (f *Formatter) cappedList(values []string, limit int, sep string) string {
	r := f.opts.Renderer
	shown := values
	if len(shown) > limit {
		shown = shown[:limit]
	}

	escaped := make([]string, len(shown))
	for i, v := range shown {
		escaped[i] = r.Text(v)
	}
	out := strings.Join(escaped, r.Text(sep))

	if more := len(values) - len(shown); more > 0 {
		out += r.Text(MoreSuffix(more))
	}
	return out
}

// MoreSuffix is the "and N more" tail appended to a capped list.
func MoreSuffix(n int) string {
	return fmt.Sprintf(" (и ещё %d)", n)
}

func (f *Formatter) truncate(text string) Report {
	if utf8.RuneCountInString(text) <= f.opts.Budget {
		return Report{Text: text}
	}

	cut := string([]rune(text)[:f.opts.Budget])
	marker := f.opts.Renderer.Text(truncatedMarker)
	if f.opts.Renderer.Markup() {
		// A partial line may hold half an entity, an open code span or a
		// dangling escape, so only whole lines are kept.
		i := strings.LastIndexByte(cut, '\n')
		if i < 0 {
			return Report{Text: strings.TrimLeft(marker, "\n"), Truncated: true}
		}
		cut = cut[:i]
	}
	return Report{Text: cut + marker, Truncated: true}
}

// TruncationMarker is the rendered marker appended to cut reports.
func (f *Formatter) TruncationMarker() string {
	return f.opts.Renderer.Text(truncatedMarker)
}
