package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/user"
	"printflow/internal/core/domain/services"
)

func mustUser(t *testing.T, role user.Role) *user.User {
	t.Helper()
	account, err := user.NewUser(kernel.NewUUID(), "Test User", "test@example.com", role)
	require.NoError(t, err)
	return account
}

func Test_NewAdmissionPolicy(t *testing.T) {
	// When
	policy, err := services.NewAdmissionPolicy(10)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 10, policy.MaxActiveOrders())
}

func Test_NewAdmissionPolicy_RejectsNonPositiveCap(t *testing.T) {
	for _, cap := range []int{0, -1} {
		_, err := services.NewAdmissionPolicy(cap)
		assert.Error(t, err)
	}
}

func Test_AdmissionPolicy_RoleGates(t *testing.T) {
	policy, err := services.NewAdmissionPolicy(10)
	require.NoError(t, err)

	client := mustUser(t, user.RoleClient)
	agent := mustUser(t, user.RoleAgent)
	admin := mustUser(t, user.RoleAdministrator)

	// Then each gate accepts only its own role
	assert.NoError(t, policy.EnsureClient(client))
	assert.ErrorIs(t, policy.EnsureClient(agent), user.ErrRoleMismatch)

	assert.NoError(t, policy.EnsureAgent(agent))
	assert.ErrorIs(t, policy.EnsureAgent(admin), user.ErrRoleMismatch)

	assert.NoError(t, policy.EnsureAdministrator(admin))
	assert.ErrorIs(t, policy.EnsureAdministrator(client), user.ErrRoleMismatch)
}

func Test_AdmissionPolicy_CheckWorkload(t *testing.T) {
	policy, err := services.NewAdmissionPolicy(10)
	require.NoError(t, err)

	tests := map[string]struct {
		activeOrders int
		ok           bool
	}{
		"no active orders": {0, true},
		"one below cap":    {9, true},
		"at cap":           {10, false},
		"over cap":         {11, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := policy.CheckWorkload(test.activeOrders)
			if test.ok {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, services.ErrAgentLimitExceeded)

			var limit *services.AgentLimitExceededError
			require.True(t, errors.As(err, &limit))
			assert.Equal(t, test.activeOrders, limit.Current)
			assert.Equal(t, 10, limit.Max)
		})
	}
}

func Test_AdmissionPolicy_CheckWorkload_RejectsNegativeCount(t *testing.T) {
	policy, err := services.NewAdmissionPolicy(10)
	require.NoError(t, err)

	assert.Error(t, policy.CheckWorkload(-1))
}
