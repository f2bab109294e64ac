package prospect

import "context"

// Usage is a used/available quota counter pair.
type Usage struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

// Account summarizes the lookup API account behind a credential.
// Valid is false when the credential is malformed or rejected; Reason then
// explains why. An invalid account is a reported outcome, not an error.
type Account struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	PlanName  string `json:"planName,omitempty"`
	PlanLevel int    `json:"planLevel"`
	ResetDate string `json:"resetDate,omitempty"`
	TeamID    int    `json:"teamId,omitempty"`

	Searches      Usage `json:"searches"`
	Verifications Usage `json:"verifications"`
	Credits       Usage `json:"credits"`
}

// AccountChecker reports plan tier and quota usage for a credential.
type AccountChecker interface {
	CheckAccount(ctx context.Context, apiKey string) (*Account, error)
}
