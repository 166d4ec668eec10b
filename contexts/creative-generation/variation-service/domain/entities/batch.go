package entities

import "fmt"

type UnitResult struct {
	Strategy    Strategy `json:"strategy"`
	Success     bool     `json:"success"`
	VariationID string   `json:"variation_id,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// BatchResult reports every strategy of a batch in request order.
type BatchResult struct {
	BatchID        string       `json:"batch_id"`
	Results        []UnitResult `json:"results"`
	UnitCost       int          `json:"unit_cost"`
	CreditsCharged int          `json:"credits_charged"`

	// CreditsUnreconciled counts failed units whose refund was not recorded.
	CreditsUnreconciled int `json:"credits_unreconciled,omitempty"`
}

func (b BatchResult) Requested() int {
	return len(b.Results)
}

func (b BatchResult) Succeeded() int {
	count := 0
	for _, item := range b.Results {
		if item.Success {
			count++
		}
	}
	return count
}

func (b BatchResult) Summary() string {
	return fmt.Sprintf("%d of %d succeeded", b.Succeeded(), b.Requested())
}
