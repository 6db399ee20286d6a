package aggregate

import (
	"testing"

	"lookup-workers/internal/lookup/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, body string) payload.Response {
	t.Helper()
	resp, _, err := payload.Decode([]byte(body))
	require.NoError(t, err)
	return resp
}

func TestAggregate_DedupPreservesFirstSeenOrder(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[
		{"phone":["79250000000","79251111111"]},
		{"phone":["79252222222","79250000000"]}
	]}]}`)

	res := New(nil).Aggregate(resp)

	require.Len(t, res.Records, 1)
	assert.Equal(t,
		[]string{"79250000000", "79251111111", "79252222222"},
		res.Records[0].Values("phone"))
}

func TestAggregate_CaseInsensitiveKeysMerge(t *testing.T) {
	resp := parse(t, `{"responses":[{"query":"Иванов Петр Петрович 1994","responses":[
		{"Phone":["79250000000"]},
		{"phone":["79250000000"]}
	]}]}`)

	res := New(nil).Aggregate(resp)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "Иванов Петр Петрович 1994", rec.Query())
	assert.Equal(t, []string{"79250000000"}, rec.Values("phone"))
	assert.Equal(t, []string{"79250000000"}, rec.Values("PHONE"))
}

func TestAggregate_DropsNullAndEmptyScalars(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[
		{"email":[null,"","a@b.c",{"nested":"x"}]}
	]}]}`)

	rec := New(nil).Aggregate(resp).Records[0]
	assert.Equal(t, []string{"a@b.c"}, rec.Values("email"))
}

func TestAggregate_ScalarFieldIsSingleton(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[{"Address":"Москва"}]}]}`)

	rec := New(nil).Aggregate(resp).Records[0]
	assert.Equal(t, []string{"Москва"}, rec.Values("address"))
}

func TestAggregate_NothingFound(t *testing.T) {
	resp := parse(t, `{"NotValidRequests":["bad"],"Responses":[]}`)

	res := New(nil).Aggregate(resp)

	assert.True(t, res.NothingFound)
	assert.Empty(t, res.Records)
	assert.Equal(t, []string{"bad"}, res.Rejected)
}

func TestAggregate_UnexpectedPayloadDegradesToNothingFound(t *testing.T) {
	resp := parse(t, `{"error":"whatever"}`)

	res := New(nil).Aggregate(resp)
	assert.True(t, res.NothingFound)
}

func TestAggregate_NoAnswersKeepsPosition(t *testing.T) {
	resp := parse(t, `{"Responses":[
		{"Query":"first","Responses":[]},
		{"Query":"second","Responses":[{"email":["x@y.z"]}]}
	]}`)

	res := New(nil).Aggregate(resp)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "first", res.Records[0].Query())
	assert.True(t, res.Records[0].NoAnswers())
	assert.Equal(t, "second", res.Records[1].Query())
	assert.False(t, res.Records[1].NoAnswers())
}

func TestAggregate_SourceLabels(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[
		{"Sources":[{"Name":"Leak A","Url":"https://a"},{"url":"https://b"},{}]},
		{"sources":[{"name":"Leak A"},{"other":1}]}
	]}]}`)

	rec := New(nil).Aggregate(resp).Records[0]

	assert.Equal(t, []string{"Leak A", "https://b", SourcePlaceholder}, rec.Sources())
	assert.Empty(t, rec.Values("sources"))
}

func TestRecord_FieldsFollowTableOrder(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[
		{"relatives":["r"],"unknown":["u"],"email":["e"],"phone":["p"]}
	]}]}`)

	rec := New(nil).Aggregate(resp).Records[0]
	fields := rec.Fields()

	require.Len(t, fields, 3)
	assert.Equal(t, "phone", fields[0].Field.Key)
	assert.Equal(t, "email", fields[1].Field.Key)
	assert.Equal(t, "relatives", fields[2].Field.Key)
	assert.Equal(t, []string{"u"}, rec.Values("unknown"))
}

func TestRecord_AccessorsReturnCopies(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[{"phone":["1"],"sources":[{"name":"s"}]}]}]}`)
	rec := New(nil).Aggregate(resp).Records[0]

	vals := rec.Values("phone")
	vals[0] = "mutated"
	srcs := rec.Sources()
	srcs[0] = "mutated"

	assert.Equal(t, []string{"1"}, rec.Values("phone"))
	assert.Equal(t, []string{"s"}, rec.Sources())
}

func TestNew_CustomFieldTable(t *testing.T) {
	resp := parse(t, `{"Responses":[{"Query":"q","Responses":[{"phone":["1"],"email":["e"]}]}]}`)

	rec := New([]Field{{Key: "email", Label: "Mail"}}).Aggregate(resp).Records[0]
	fields := rec.Fields()

	require.Len(t, fields, 1)
	assert.Equal(t, "Mail", fields[0].Field.Label)
}
