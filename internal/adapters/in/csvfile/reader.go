// Package csvfile parses uploaded order files into admission rows.
// Parsing only shapes the data: all business validation of the values
// happens in the import command handler, which collects per-row errors.
package csvfile

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"printflow/internal/core/application/usecases/commands"
)

// ErrMissingClientColumn indicates the file header carries neither a
// client_id nor a client_email column, so no row could ever resolve its
// owner.
var ErrMissingClientColumn = errors.New("csv header must contain a client_id or client_email column")

// ReadOrderRows parses an uploaded CSV file into order rows. The first
// record is the header; data rows are numbered from 2 to match what the
// uploader sees in a spreadsheet. Header names and cell values are
// whitespace-trimmed, headers case-insensitively matched. A row may
// reference its client and agent by identifier or by email; the identifier
// wins when both are present.
func ReadOrderRows(r io.Reader) ([]commands.OrderRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv file is empty")
		}
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	if _, hasID := columns["client_id"]; !hasID {
		if _, hasEmail := columns["client_email"]; !hasEmail {
			return nil, ErrMissingClientColumn
		}
	}

	rows := make([]commands.OrderRow, 0)
	line := 1

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
		line++

		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		clientRef := cell("client_id")
		if clientRef == "" {
			clientRef = cell("client_email")
		}
		agentRef := cell("agent_id")
		if agentRef == "" {
			agentRef = cell("agent_email")
		}

		rows = append(rows, commands.OrderRow{
			Line:            line,
			ClientRef:       clientRef,
			AgentRef:        agentRef,
			BWQuantity:      cell("bw_quantity"),
			ColorQuantity:   cell("color_quantity"),
			PaperDimensions: cell("paper_dimensions"),
			PaperType:       cell("paper_type"),
			Finishing:       cell("finishing"),
			Notes:           cell("notes"),
			ExternalOrderID: cell("external_order_id"),
		})
	}

	return rows, nil
}
