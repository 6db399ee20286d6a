// internal/models/query_types.go
package models

// LookupMode is the search type the user picked before typing the query.
type LookupMode string

const (
	LookupModePerson LookupMode = "fio"
	LookupModePhone  LookupMode = "phone"
)

// Valid reports whether m is one of the known modes.
func (m LookupMode) Valid() bool {
	return m == LookupModePerson || m == LookupModePhone
}

// QueryKind is the outcome of classifying raw query text.
type QueryKind string

const (
	QueryKindPerson  QueryKind = "person"
	QueryKindPhone   QueryKind = "phone"
	QueryKindInvalid QueryKind = "invalid"
)

// Kind returns the query kind a mode expects.
func (m LookupMode) Kind() QueryKind {
	switch m {
	case LookupModePerson:
		return QueryKindPerson
	case LookupModePhone:
		return QueryKindPhone
	default:
		return QueryKindInvalid
	}
}
