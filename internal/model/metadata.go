package model

// Metadata holds lightweight hints derived from a filename. The hints are
// shown during manual review and passed to the catalog sink; they do not
// currently influence the confidence score.
type Metadata struct {
	Name           string   `json:"name,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	EstimatedPrice int      `json:"estimatedPrice,omitempty"`
	Size           string   `json:"size,omitempty"`
	Tier           string   `json:"tier,omitempty"`
}
