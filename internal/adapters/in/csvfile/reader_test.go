package csvfile_test

import (
	"strings"
	"testing"

	"printflow/internal/adapters/in/csvfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrderRows_HeaderKeyed(t *testing.T) {
	file := strings.Join([]string{
		"client_id,bw_quantity,color_quantity,paper_type,external_order_id",
		"11111111-1111-1111-1111-111111111111,400,100,glossy,EXT-1",
		"22222222-2222-2222-2222-222222222222,0,250,,EXT-2",
	}, "\n")

	rows, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", rows[0].ClientRef)
	assert.Equal(t, "400", rows[0].BWQuantity)
	assert.Equal(t, "100", rows[0].ColorQuantity)
	assert.Equal(t, "glossy", rows[0].PaperType)
	assert.Equal(t, "EXT-1", rows[0].ExternalOrderID)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, "250", rows[1].ColorQuantity)
}

func TestReadOrderRows_ColumnOrderIrrelevant(t *testing.T) {
	file := strings.Join([]string{
		"bw_quantity,client_email,notes",
		"500,client@example.com,rush job",
	}, "\n")

	rows, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "client@example.com", rows[0].ClientRef)
	assert.Equal(t, "500", rows[0].BWQuantity)
	assert.Equal(t, "rush job", rows[0].Notes)
}

func TestReadOrderRows_IdentifierWinsOverEmail(t *testing.T) {
	file := strings.Join([]string{
		"client_id,client_email,agent_id,agent_email,bw_quantity",
		"11111111-1111-1111-1111-111111111111,client@example.com,,agent@example.com,100",
	}, "\n")

	rows, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", rows[0].ClientRef)
	assert.Equal(t, "agent@example.com", rows[0].AgentRef, "Empty agent_id falls back to agent_email")
}

func TestReadOrderRows_TrimsHeadersAndValues(t *testing.T) {
	file := strings.Join([]string{
		" Client_ID , BW_Quantity ",
		" 11111111-1111-1111-1111-111111111111 , 400 ",
	}, "\n")

	rows, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", rows[0].ClientRef)
	assert.Equal(t, "400", rows[0].BWQuantity)
}

func TestReadOrderRows_ShortRecord_MissingCellsAreEmpty(t *testing.T) {
	file := strings.Join([]string{
		"client_id,bw_quantity,color_quantity,notes",
		"11111111-1111-1111-1111-111111111111,400",
	}, "\n")

	rows, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].ColorQuantity)
	assert.Empty(t, rows[0].Notes)
}

func TestReadOrderRows_NoClientColumn_ReturnsError(t *testing.T) {
	file := strings.Join([]string{
		"bw_quantity,color_quantity",
		"400,100",
	}, "\n")

	_, err := csvfile.ReadOrderRows(strings.NewReader(file))

	require.ErrorIs(t, err, csvfile.ErrMissingClientColumn)
}

func TestReadOrderRows_EmptyFile_ReturnsError(t *testing.T) {
	_, err := csvfile.ReadOrderRows(strings.NewReader(""))
	require.Error(t, err)
}

func TestReadOrderRows_HeaderOnly_ReturnsNoRows(t *testing.T) {
	rows, err := csvfile.ReadOrderRows(strings.NewReader("client_id,bw_quantity\n"))

	require.NoError(t, err)
	assert.Empty(t, rows)
}
