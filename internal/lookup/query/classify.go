// Package query classifies free-text lookup input and canonicalizes it into
// the request string the lookup service expects.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"lookup-workers/internal/models"
)

var (
	rxNamePart = regexp.MustCompile(`^[А-ЯЁ][а-яё]+$`)
	rxDate     = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	rxYear     = regexp.MustCompile(`^\d{4}$`)
	rxNonDigit = regexp.MustCompile(`\D`)
)

// ClassificationError is returned when text matches none of the accepted
// query shapes. Mode is empty when classification was not mode-directed.
type ClassificationError struct {
	Mode  models.LookupMode
	Input string
}

func (e *ClassificationError) Error() string {
	if e.Mode == "" {
		return fmt.Sprintf("query %q matches neither person nor phone format", e.Input)
	}
	return fmt.Sprintf("query %q does not match %s format", e.Input, e.Mode)
}

// Classify inspects text and returns the query it describes. Person shape
// is tried first, then phone.
func Classify(text string) (Query, error) {
	text = strings.TrimSpace(text)
	if p, ok := parsePerson(text); ok {
		return Query{kind: models.QueryKindPerson, person: p}, nil
	}
	if isPhone(text) {
		return Query{kind: models.QueryKindPhone, digits: NormalizePhone(text)}, nil
	}
	return Query{kind: models.QueryKindInvalid}, &ClassificationError{Input: text}
}

// ClassifyAs accepts only the shape the chosen mode expects.
func ClassifyAs(mode models.LookupMode, text string) (Query, error) {
	text = strings.TrimSpace(text)
	switch mode {
	case models.LookupModePerson:
		if p, ok := parsePerson(text); ok {
			return Query{kind: models.QueryKindPerson, person: p}, nil
		}
	case models.LookupModePhone:
		if isPhone(text) {
			return Query{kind: models.QueryKindPhone, digits: NormalizePhone(text)}, nil
		}
	}
	return Query{kind: models.QueryKindInvalid}, &ClassificationError{Mode: mode, Input: text}
}

// KindOf is the side-effect free classification outcome for text.
func KindOf(text string) models.QueryKind {
	q, _ := Classify(text)
	return q.Kind()
}

func parsePerson(text string) (Person, bool) {
	parts := strings.Fields(text)
	if len(parts) != 4 {
		return Person{}, false
	}
	for _, name := range parts[:3] {
		if !rxNamePart.MatchString(name) {
			return Person{}, false
		}
	}
	tail := parts[3]
	if !rxDate.MatchString(tail) && !rxYear.MatchString(tail) {
		return Person{}, false
	}
	return Person{
		Surname:    parts[0],
		Given:      parts[1],
		Patronymic: parts[2],
		BirthTail:  tail,
	}, true
}

func isPhone(text string) bool {
	d := NormalizePhone(text)
	return len(d) == 11 && d[0] == '7'
}

func digitsOnly(text string) string {
	return rxNonDigit.ReplaceAllString(text, "")
}
