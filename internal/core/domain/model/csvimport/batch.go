package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

var (
	// ErrBatchIsNotConstructed indicates that the Batch aggregate was
	// created without a constructor.
	ErrBatchIsNotConstructed = errors.New(
		"Batch is not constructed. Use NewBatch or RestoreBatch",
	)

	// ErrNoValidRows is returned when every data row of an uploaded file
	// failed validation, so there is nothing to admit.
	ErrNoValidRows = errors.New("no valid rows in import file")

	// ErrBatchAlreadySettled is returned when a batch that already reached
	// a terminal outcome is settled again.
	ErrBatchAlreadySettled = errors.New("import batch already settled")
)

// Status is the lifecycle state of an import batch.
type Status int

const (
	// StatusUnknown is the zero value, not a valid status.
	StatusUnknown Status = iota
	// StatusUploaded means the file is received but not yet judged.
	StatusUploaded
	// StatusValidated means the batch was admitted and its orders created.
	StatusValidated
	// StatusRejected means the batch was discarded as a whole.
	StatusRejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusUploaded:  "uploaded",
		StatusValidated: "validated",
		StatusRejected:  "rejected",
	}
}

// StatusFromString parses the storage representation of a batch status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == value && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// Validate checks that the status holds one of the defined values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the storage representation of the status.
func (s Status) String() string {
	value, ok := getStatusStrings()[s]
	if !ok {
		return getStatusStrings()[StatusUnknown]
	}
	return value
}

// RowError describes why one data row of an import file was rejected.
// Line numbering includes the header, so the first data row is line 2.
type RowError struct {
	Line    int
	Field   string
	Message string
}

func (e RowError) String() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
}

// Batch is the aggregate for one bulk order upload. It records the file,
// the uploading administrator, per-row outcomes and the batch's settlement.
// The batch settles exactly once: either MarkValidated when its valid rows
// were admitted, or MarkRejected when the whole file was discarded.
type Batch struct {
	id         kernel.UUID
	adminID    kernel.UUID
	filename   string
	status     Status
	totalRows  int
	validRows  int
	rowErrors  []RowError
	uploadedAt time.Time

	guard guard.ConstructorGuard
}

// NewBatch records a freshly uploaded import file.
func NewBatch(
	id kernel.UUID,
	adminID kernel.UUID,
	filename string,
	uploadedAt time.Time,
) (*Batch, error) {
	b := &Batch{
		status: StatusUploaded,
		guard:  guard.NewConstructorGuard(),
	}

	if err := b.setID(id); err != nil {
		return nil, err
	}
	if err := b.setAdminID(adminID); err != nil {
		return nil, err
	}
	if err := b.setFilename(filename); err != nil {
		return nil, err
	}
	b.uploadedAt = uploadedAt.UTC()

	return b, nil
}

// RestoreBatch reconstitutes an import batch from storage.
func RestoreBatch(
	id kernel.UUID,
	adminID kernel.UUID,
	filename string,
	status Status,
	totalRows int,
	validRows int,
	rowErrors []RowError,
	uploadedAt time.Time,
) (*Batch, error) {
	b, err := NewBatch(id, adminID, filename, uploadedAt)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if totalRows < 0 || validRows < 0 || validRows > totalRows {
		return nil, errs.NewValueIsInvalidError("rows")
	}

	b.status = status
	b.totalRows = totalRows
	b.validRows = validRows
	b.rowErrors = rowErrors

	return b, nil
}

// ID returns the batch's identifier.
func (b *Batch) ID() kernel.UUID {
	return b.id
}

// AdminID returns the uploading administrator's identifier.
func (b *Batch) AdminID() kernel.UUID {
	return b.adminID
}

// Filename returns the uploaded file's name.
func (b *Batch) Filename() string {
	return b.filename
}

// Status returns the batch's lifecycle state.
func (b *Batch) Status() Status {
	return b.status
}

// TotalRows returns the number of data rows in the file.
func (b *Batch) TotalRows() int {
	return b.totalRows
}

// ValidRows returns the number of rows that passed validation.
func (b *Batch) ValidRows() int {
	return b.validRows
}

// RowErrors returns the per-row validation failures.
func (b *Batch) RowErrors() []RowError {
	return b.rowErrors
}

// UploadedAt returns when the file was received, in UTC.
func (b *Batch) UploadedAt() time.Time {
	return b.uploadedAt
}

// RecordOutcome stores the validation results for the file's data rows.
// It fails with ErrNoValidRows when not a single row survived, leaving the
// batch uploaded so the caller can settle it as rejected.
func (b *Batch) RecordOutcome(totalRows int, validRows int, rowErrors []RowError) error {
	if err := b.guard.Validate(ErrBatchIsNotConstructed); err != nil {
		return err
	}
	if totalRows < 0 || validRows < 0 || validRows > totalRows {
		return errs.NewValueIsInvalidError("rows")
	}

	b.totalRows = totalRows
	b.validRows = validRows
	b.rowErrors = rowErrors

	if validRows == 0 {
		return ErrNoValidRows
	}
	return nil
}

// MarkValidated settles the batch as admitted.
func (b *Batch) MarkValidated() error {
	return b.settle(StatusValidated)
}

// MarkRejected settles the batch as discarded.
func (b *Batch) MarkRejected() error {
	return b.settle(StatusRejected)
}

// Validate checks that the aggregate was created through a constructor.
func (b *Batch) Validate() error {
	return b.guard.Validate(ErrBatchIsNotConstructed)
}

func (b *Batch) settle(target Status) error {
	if err := b.guard.Validate(ErrBatchIsNotConstructed); err != nil {
		return err
	}
	if b.status != StatusUploaded {
		return fmt.Errorf("%w: batch is %s", ErrBatchAlreadySettled, b.status)
	}
	b.status = target
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	b.id = id
	return nil
}

func (b *Batch) setAdminID(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("adminID", err)
	}
	b.adminID = adminID
	return nil
}

func (b *Batch) setFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return errs.NewValueIsRequiredError("filename")
	}
	b.filename = filename
	return nil
}
