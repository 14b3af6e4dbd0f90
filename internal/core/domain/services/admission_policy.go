package services

import (
	"errors"
	"fmt"

	"printflow/internal/core/domain/model/user"
	"printflow/internal/pkg/errs"
)

// ErrAgentLimitExceeded is the sentinel wrapped by AgentLimitExceededError.
var ErrAgentLimitExceeded = errors.New("agent workload limit exceeded")

// AgentLimitExceededError is returned when assigning one more order would
// push an agent past the configured cap on simultaneously active orders.
type AgentLimitExceededError struct {
	Current int
	Max     int
}

func (e *AgentLimitExceededError) Error() string {
	return fmt.Sprintf("agent already has %d active orders, limit is %d", e.Current, e.Max)
}

func (e *AgentLimitExceededError) Unwrap() error {
	return ErrAgentLimitExceeded
}

// AdmissionPolicy is a domain service holding the admission rules that cut
// across aggregates: which role a participant must carry, and whether an
// agent has room for one more active order.
//
// The policy is pure decision logic. Callers load the participants and the
// agent's current active-order count, and the policy judges them; it never
// touches storage itself.
type AdmissionPolicy struct {
	maxActiveOrders int
}

// NewAdmissionPolicy creates a policy with the given cap on simultaneously
// active orders per agent.
func NewAdmissionPolicy(maxActiveOrders int) (AdmissionPolicy, error) {
	if maxActiveOrders <= 0 {
		return AdmissionPolicy{}, errs.NewValueIsInvalidError("maxActiveOrders")
	}
	return AdmissionPolicy{maxActiveOrders: maxActiveOrders}, nil
}

// MaxActiveOrders returns the per-agent cap.
func (p AdmissionPolicy) MaxActiveOrders() int {
	return p.maxActiveOrders
}

// EnsureClient checks that the account may submit orders and consume quota.
func (p AdmissionPolicy) EnsureClient(account *user.User) error {
	return account.EnsureRole(user.RoleClient)
}

// EnsureAgent checks that the account may process orders.
func (p AdmissionPolicy) EnsureAgent(account *user.User) error {
	return account.EnsureRole(user.RoleAgent)
}

// EnsureAdministrator checks that the account may manage quotas, assignments
// and imports.
func (p AdmissionPolicy) EnsureAdministrator(account *user.User) error {
	return account.EnsureRole(user.RoleAdministrator)
}

// CheckWorkload judges whether an agent with the given number of active
// orders can take one more. On refusal it returns an AgentLimitExceededError
// carrying the counts.
func (p AdmissionPolicy) CheckWorkload(activeOrders int) error {
	if activeOrders < 0 {
		return errs.NewValueIsInvalidError("activeOrders")
	}
	if activeOrders >= p.maxActiveOrders {
		return &AgentLimitExceededError{Current: activeOrders, Max: p.maxActiveOrders}
	}
	return nil
}
