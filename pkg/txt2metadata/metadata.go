package txt2metadata

import "fmt"

// Metadata is one ranked suggestion returned by the txt2metadata service.
type Metadata struct {
	// Value is the suggested metadata token, e.g. a DK5 code or a subject
	Value string `json:"value"`
	// Score orders the suggestions; its scale is defined by the service
	Score int `json:"score"`
	// Type is the category of the suggestion, e.g. "dk5" or "emne"
	Type string `json:"type"`
}

func (m Metadata) String() string {
	return fmt.Sprintf("Metadata{value=%q, score=%d, type=%q}", m.Value, m.Score, m.Type)
}
