package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/domain/model/kernel"
)

func TestNewCreateOrderCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID, clientID, actorID, &agentID,
		500, 100, "EXT-42", commands.OrderDetails{PaperType: "glossy"}, nil)

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, clientID, cmd.ClientID())
	assert.Equal(t, actorID, cmd.ActorID())
	assert.Equal(t, &agentID, cmd.AgentID())
	assert.Equal(t, 500, cmd.BWQuantity())
	assert.Equal(t, 100, cmd.ColorQuantity())
	assert.Equal(t, "EXT-42", cmd.ExternalOrderID())
	assert.Equal(t, "glossy", cmd.Details().PaperType)
	assert.Nil(t, cmd.ImportID())
}

func TestNewCreateOrderCommand_Validation(t *testing.T) {
	valid := kernel.NewUUID()
	empty := kernel.UUID{}

	tests := map[string]struct {
		orderID, clientID, actorID kernel.UUID
		agentID                    *kernel.UUID
		bw, color                  int
		want                       error
	}{
		"empty order id":  {empty, valid, valid, nil, 1, 0, nil},
		"empty client id": {valid, empty, valid, nil, 1, 0, nil},
		"empty actor id":  {valid, valid, empty, nil, 1, 0, nil},
		"empty agent id":  {valid, valid, valid, &empty, 1, 0, nil},
		"zero quantities": {valid, valid, valid, nil, 0, 0, commands.ErrOrderQuantitiesAreEmpty},
		"negative bw":     {valid, valid, valid, nil, -1, 10, commands.ErrOrderQuantityIsNegative},
		"negative color":  {valid, valid, valid, nil, 10, -1, commands.ErrOrderQuantityIsNegative},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand(test.orderID, test.clientID, test.actorID,
				test.agentID, test.bw, test.color, "", commands.OrderDetails{}, nil)
			require.Error(t, err)
			if test.want != nil {
				assert.ErrorIs(t, err, test.want)
			}
		})
	}
}

func TestIdempotencyModeFromString(t *testing.T) {
	tests := map[string]struct {
		input string
		want  commands.IdempotencyMode
		ok    bool
	}{
		"reject": {"reject", commands.IdempotencyReject, true},
		"skip":   {"skip", commands.IdempotencySkip, true},
		// upsert silently replaced live orders and is treated as reject
		"upsert": {"upsert", commands.IdempotencyReject, true},
		"other":  {"merge", commands.IdempotencyReject, false},
		"empty":  {"", commands.IdempotencyReject, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			mode, err := commands.IdempotencyModeFromString(test.input)
			assert.Equal(t, test.want, mode)
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
