// internal/workers/lookup/classify-query/models.go
package classifyquery

type Input struct {
	Mode string `json:"mode,omitempty"`
	Text string `json:"text"`
}

type Output struct {
	QueryKind       string `json:"queryKind"`
	NormalizedQuery string `json:"normalizedQuery"`
	NeedCountry     bool   `json:"needCountry"`
	Valid           bool   `json:"valid"`
	Message         string `json:"message,omitempty"`
}
