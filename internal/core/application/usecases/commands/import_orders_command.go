package commands

import (
	"errors"
	"strings"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

var ErrImportOrdersCommandIsNotConstructed = errors.New(
	"ImportOrdersCommand must be created via NewImportOrdersCommand constructor",
)

// OrderRow is one data row of an uploaded import file, as raw trimmed
// strings. The handler owns parsing and resolution, so malformed values
// surface as per-row errors instead of failing the whole upload.
// Line numbering includes the header, so the first data row is line 2.
type OrderRow struct {
	Line            int
	ClientRef       string
	AgentRef        string
	BWQuantity      string
	ColorQuantity   string
	PaperDimensions string
	PaperType       string
	Finishing       string
	Notes           string
	ExternalOrderID string
}

// ImportOrdersCommand represents an administrator's bulk order upload.
// Corrections overlay individual rows by line number, replacing the uploaded
// values before validation; they let an operator fix a rejected row without
// re-uploading the file.
type ImportOrdersCommand struct { //nolint:recvcheck //using for validation
	batchID     kernel.UUID
	adminID     kernel.UUID
	filename    string
	rows        []OrderRow
	corrections map[int]OrderRow

	guard guard.ConstructorGuard
}

// NewImportOrdersCommand creates a command to admit a bulk order upload.
func NewImportOrdersCommand(
	batchID kernel.UUID,
	adminID kernel.UUID,
	filename string,
	rows []OrderRow,
	corrections map[int]OrderRow,
) (ImportOrdersCommand, error) {
	importCommand := ImportOrdersCommand{
		rows:        rows,
		corrections: corrections,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		importCommand.setBatchID(batchID),
		importCommand.setAdminID(adminID),
		importCommand.setFilename(filename),
	); err != nil {
		return ImportOrdersCommand{}, err
	}

	return importCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ImportOrdersCommand) Validate() error {
	return c.guard.Validate(ErrImportOrdersCommandIsNotConstructed)
}

// BatchID returns the unique identifier for the new import batch.
func (c ImportOrdersCommand) BatchID() kernel.UUID {
	return c.batchID
}

// AdminID returns the uploading administrator's identifier.
func (c ImportOrdersCommand) AdminID() kernel.UUID {
	return c.adminID
}

// Filename returns the uploaded file's name.
func (c ImportOrdersCommand) Filename() string {
	return c.filename
}

// Rows returns the file's data rows with corrections applied.
func (c ImportOrdersCommand) Rows() []OrderRow {
	if len(c.corrections) == 0 {
		return c.rows
	}

	rows := make([]OrderRow, len(c.rows))
	copy(rows, c.rows)
	for i, row := range rows {
		if corrected, ok := c.corrections[row.Line]; ok {
			corrected.Line = row.Line
			rows[i] = corrected
		}
	}
	return rows
}

func (c *ImportOrdersCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}

func (c *ImportOrdersCommand) setAdminID(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return err
	}

	c.adminID = adminID
	return nil
}

func (c *ImportOrdersCommand) setFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return errs.NewValueIsRequiredError("filename")
	}

	c.filename = filename
	return nil
}
