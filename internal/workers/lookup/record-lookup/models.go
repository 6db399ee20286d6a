// internal/workers/lookup/record-lookup/models.go
package recordlookup

type Input struct {
	Mode      string `json:"mode"`
	Text      string `json:"text"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	Report    string `json:"report"`
	Status    string `json:"status"`
	QueryKind string `json:"queryKind"`
	Truncated bool   `json:"truncated"`
	RequestID string `json:"requestId"`
	ErrorCode string `json:"errorCode,omitempty"`
}
