package query

import (
	"strings"

	"lookup-workers/internal/models"
)

// Person is a full name plus a birth date (DD.MM.YYYY) or a bare year.
type Person struct {
	Surname    string
	Given      string
	Patronymic string
	BirthTail  string
}

// HasFullDate reports whether the tail is a full date rather than a year.
func (p Person) HasFullDate() bool {
	return rxDate.MatchString(p.BirthTail)
}

func (p Person) String() string {
	return strings.Join([]string{p.Surname, p.Given, p.Patronymic, p.BirthTail}, " ")
}

// Query is a classified lookup request. The zero value is an invalid query.
type Query struct {
	kind   models.QueryKind
	person Person
	digits string
}

func (q Query) Kind() models.QueryKind {
	if q.kind == "" {
		return models.QueryKindInvalid
	}
	return q.kind
}

// Person returns the person components when the query is a person query.
func (q Query) Person() (Person, bool) {
	return q.person, q.kind == models.QueryKindPerson
}

// Phone returns the 11-digit number when the query is a phone query.
func (q Query) Phone() (string, bool) {
	return q.digits, q.kind == models.QueryKindPhone
}

// Normalized is the exact request string sent to the lookup service.
func (q Query) Normalized() string {
	switch q.kind {
	case models.QueryKindPerson:
		return q.person.String()
	case models.QueryKindPhone:
		return q.digits
	default:
		return ""
	}
}

// NeedCountry reports whether the lookup request must carry a country type.
// Only person queries are country-scoped.
func (q Query) NeedCountry() bool {
	return q.kind == models.QueryKindPerson
}

// NormalizePhone strips everything but digits, rewrites a leading 8 to 7 and
// otherwise forces a 7 prefix in front of the last ten digits. Applying it
// to its own output is a no-op.
func NormalizePhone(text string) string {
	d := digitsOnly(text)
	if strings.HasPrefix(d, "8") {
		d = "7" + d[1:]
	}
	if !strings.HasPrefix(d, "7") {
		if len(d) > 10 {
			d = d[len(d)-10:]
		}
		d = "7" + d
	}
	return d
}
