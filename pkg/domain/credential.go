package domain

import "time"

// CredentialState represents health of a search API credential
type CredentialState string

// credential states
const (
	CredentialHealthy   CredentialState = "healthy"
	CredentialDegraded  CredentialState = "degraded"
	CredentialExhausted CredentialState = "exhausted"
)

// CredentialStatus is a read-only snapshot of a credential, key is masked
type CredentialStatus struct {
	Key         string          `json:"key"`
	Failures    int             `json:"failures"`
	LastSuccess time.Time       `json:"last_success"`
	State       CredentialState `json:"state"`
	Active      bool            `json:"active"`
}
