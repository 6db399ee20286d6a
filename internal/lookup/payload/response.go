package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a body is not a JSON object.
var ErrMalformed = errors.New("malformed lookup payload")

const (
	keyNotValid  = "notvalidrequests"
	keyResponses = "responses"
	keyQuery     = "query"
)

// Block is the service's answer for one submitted request string.
type Block struct {
	Query   string
	Records []Record
}

// Response is the whole lookup-service payload after ingestion.
type Response struct {
	NotValidRequests []string
	Blocks           []Block
	// Recognized is false when neither casing of the top-level results key
	// was present.
	Recognized bool
}

// Parse ingests an already-decoded payload.
func Parse(raw map[string]interface{}) Response {
	top := NewRecord(raw)

	var resp Response
	for _, v := range top.Get(keyNotValid).Items() {
		if s, ok := v.Text(); ok && s != "" {
			resp.NotValidRequests = append(resp.NotValidRequests, s)
		}
	}

	outer := top.Get(keyResponses)
	resp.Recognized = outer.Kind() != Missing
	for _, item := range outer.Items() {
		blockRec, ok := item.Object()
		if !ok {
			continue
		}
		block := Block{}
		if q, ok := blockRec.Get(keyQuery).Text(); ok {
			block.Query = q
		}
		for _, inner := range blockRec.Get(keyResponses).Items() {
			if rec, ok := inner.Object(); ok {
				block.Records = append(block.Records, rec)
			}
		}
		resp.Blocks = append(resp.Blocks, block)
	}
	return resp
}

// Decode parses a JSON body. Numbers keep their literal text so long digit
// strings such as phone numbers survive unchanged.
func Decode(body []byte) (Response, map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return Response{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Parse(raw), raw, nil
}
