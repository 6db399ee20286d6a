package query

import (
	"errors"
	"testing"

	"lookup-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Person(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.QueryKind
	}{
		{name: "full date", input: "Иванов Петр Петрович 06.04.1994", want: models.QueryKindPerson},
		{name: "bare year", input: "Иванов Петр Петрович 1994", want: models.QueryKindPerson},
		{name: "yo letter", input: "Ёлкин Фёдор Семёнович 1970", want: models.QueryKindPerson},
		{name: "extra whitespace", input: "  Иванов   Петр\tПетрович  1994 ", want: models.QueryKindPerson},
		{name: "three tokens", input: "Иванов Петр 1994", want: models.QueryKindInvalid},
		{name: "five tokens", input: "Иванов Петр Петрович Сидоров 1994", want: models.QueryKindInvalid},
		{name: "lowercase surname", input: "иванов Петр Петрович 1994", want: models.QueryKindInvalid},
		{name: "latin name", input: "Ivanov Petr Petrovich 1994", want: models.QueryKindInvalid},
		{name: "single letter name", input: "Иванов П Петрович 1994", want: models.QueryKindInvalid},
		{name: "short year", input: "Иванов Петр Петрович 94", want: models.QueryKindInvalid},
		{name: "malformed date", input: "Иванов Петр Петрович 6.4.1994", want: models.QueryKindInvalid},
		{name: "date with dashes", input: "Иванов Петр Петрович 06-04-1994", want: models.QueryKindInvalid},
		{name: "empty", input: "", want: models.QueryKindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.input))
		})
	}
}

func TestClassify_Phone(t *testing.T) {
	tests := []struct {
		input string
		want  models.QueryKind
	}{
		{"79250000000", models.QueryKindPhone},
		{"+7 (925) 000-00-00", models.QueryKindPhone},
		{"89251234567", models.QueryKindPhone},
		{"9250000000", models.QueryKindPhone},
		{"7925", models.QueryKindInvalid},
		{"792500000001", models.QueryKindInvalid},
		{"12345", models.QueryKindInvalid},
		{"no digits here", models.QueryKindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.input))
		})
	}
}

func TestClassify_InvalidReturnsClassificationError(t *testing.T) {
	q, err := Classify("hello world")

	require.Error(t, err)
	var cerr *ClassificationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "hello world", cerr.Input)
	assert.Empty(t, cerr.Mode)
	assert.Equal(t, models.QueryKindInvalid, q.Kind())
	assert.Empty(t, q.Normalized())
}

func TestClassifyAs_RespectsMode(t *testing.T) {
	_, err := ClassifyAs(models.LookupModePerson, "89251234567")
	var cerr *ClassificationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, models.LookupModePerson, cerr.Mode)

	_, err = ClassifyAs(models.LookupModePhone, "Иванов Петр Петрович 1994")
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, models.LookupModePhone, cerr.Mode)

	q, err := ClassifyAs(models.LookupModePhone, "8 925 123 45 67")
	require.NoError(t, err)
	assert.Equal(t, "79251234567", q.Normalized())

	_, err = ClassifyAs(models.LookupMode("email"), "a@b.c")
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "79250000000", NormalizePhone("+79250000000"))
	assert.Equal(t, "79250000000", NormalizePhone("89250000000"))
	assert.Equal(t, "79250000000", NormalizePhone("9250000000"))
	assert.Equal(t, "79251234567", NormalizePhone("89251234567"))
	assert.Equal(t, "79876543210", NormalizePhone("+1 (987) 654-32-10"))
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{
		"+79250000000", "89250000000", "9250000000", "8 (925) 000 00 00",
		"12345", "7", "", "0000000000000", "+380 44 123 45 67",
	}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "input %q", in)
	}
}

func TestQuery_PersonNormalization(t *testing.T) {
	q, err := Classify("Иванов   Петр Петрович   06.04.1994")
	require.NoError(t, err)

	assert.Equal(t, models.QueryKindPerson, q.Kind())
	assert.True(t, q.NeedCountry())
	assert.Equal(t, "Иванов Петр Петрович 06.04.1994", q.Normalized())

	p, ok := q.Person()
	require.True(t, ok)
	assert.Equal(t, "Иванов", p.Surname)
	assert.Equal(t, "Петр", p.Given)
	assert.Equal(t, "Петрович", p.Patronymic)
	assert.True(t, p.HasFullDate())

	_, ok = q.Phone()
	assert.False(t, ok)
}

func TestQuery_EndToEndExamples(t *testing.T) {
	person, err := Classify("Иванов Петр Петрович 1994")
	require.NoError(t, err)
	assert.Equal(t, models.QueryKindPerson, person.Kind())
	assert.True(t, person.NeedCountry())
	assert.Equal(t, "Иванов Петр Петрович 1994", person.Normalized())

	phone, err := Classify("89251234567")
	require.NoError(t, err)
	assert.Equal(t, models.QueryKindPhone, phone.Kind())
	assert.False(t, phone.NeedCountry())
	assert.Equal(t, "79251234567", phone.Normalized())
}

func TestQuery_ZeroValueIsInvalid(t *testing.T) {
	var q Query
	assert.Equal(t, models.QueryKindInvalid, q.Kind())
	assert.False(t, q.NeedCountry())
}
