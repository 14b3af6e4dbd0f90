package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// ImportResult reports the outcome of a bulk order upload.
type ImportResult struct {
	BatchID         kernel.UUID
	TotalRows       int
	SuccessCount    int
	ErrorCount      int
	CreatedOrderIDs []kernel.UUID
	RowErrors       []csvimport.RowError
}

// resolvedRow is an OrderRow after parsing and participant resolution.
type resolvedRow struct {
	line            int
	clientID        kernel.UUID
	agentID         *kernel.UUID
	bwQuantity      int
	colorQuantity   int
	details         OrderDetails
	externalOrderID string
}

// ImportOrdersCommandHandler admits a whole file of orders row by row.
//
// Each valid row goes through the same admission as a single order, so all
// quota, role and workload rules apply unchanged. One bad row never sinks
// the file: its error is recorded against the row and the rest proceeds.
// Only a file with no admittable rows at all fails hard; the batch is then
// settled as rejected.
type ImportOrdersCommandHandler struct {
	uowFactory  ImportUoWFactory
	createOrder *CreateOrderCommandHandler
	admission   services.AdmissionPolicy
	clock       ports.Clock
}

// NewImportOrdersCommandHandler creates a handler for bulk order uploads.
func NewImportOrdersCommandHandler(
	uowFactory ImportUoWFactory,
	createOrder *CreateOrderCommandHandler,
	admission services.AdmissionPolicy,
	clock ports.Clock,
) (ImportOrdersCommandHandler, error) {
	if uowFactory == nil {
		return ImportOrdersCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if createOrder == nil {
		return ImportOrdersCommandHandler{}, errs.NewValueIsRequiredError("createOrder")
	}
	if clock == nil {
		return ImportOrdersCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}

	return ImportOrdersCommandHandler{
		uowFactory:  uowFactory,
		createOrder: createOrder,
		admission:   admission,
		clock:       clock,
	}, nil
}

// Handle processes the upload command.
func (h *ImportOrdersCommandHandler) Handle(ctx context.Context, cmd ImportOrdersCommand) (ImportResult, error) {
	if err := cmd.Validate(); err != nil {
		return ImportResult{}, err
	}

	batch, err := h.openBatch(ctx, cmd)
	if err != nil {
		return ImportResult{}, err
	}

	rows := cmd.Rows()
	resolved, rowErrors, err := h.resolveRows(ctx, rows)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{
		BatchID:   cmd.BatchID(),
		TotalRows: len(rows),
	}

	for _, row := range resolved {
		orderID, admitErr := h.admitRow(ctx, cmd, row)
		if admitErr != nil {
			rowErrors = append(rowErrors, csvimport.RowError{Line: row.line, Message: admitErr.Error()})
			continue
		}
		result.SuccessCount++
		result.CreatedOrderIDs = append(result.CreatedOrderIDs, orderID)
	}

	result.ErrorCount = len(rowErrors)
	result.RowErrors = rowErrors

	return result, h.settleBatch(ctx, cmd, batch, result)
}

// openBatch validates the uploader and records the received file.
func (h *ImportOrdersCommandHandler) openBatch(ctx context.Context, cmd ImportOrdersCommand) (*csvimport.Batch, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	admin, err := uow.UserRepository().Get(ctx, cmd.AdminID())
	if err != nil {
		return nil, err
	}
	if err = h.admission.EnsureAdministrator(admin); err != nil {
		return nil, err
	}

	batch, err := csvimport.NewBatch(cmd.BatchID(), cmd.AdminID(), cmd.Filename(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.ImportRepository().Add(ctx, batch); err != nil {
		return nil, err
	}

	return batch, uow.Commit(ctx)
}

// resolveRows parses every row and resolves its participants, accumulating
// one RowError per failed row. In-batch duplicate external identifiers are
// rejected after the first occurrence.
func (h *ImportOrdersCommandHandler) resolveRows(ctx context.Context, rows []OrderRow) ([]resolvedRow, []csvimport.RowError, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	seenExternalIDs := make(map[string]struct{})

	var (
		resolved  []resolvedRow
		rowErrors []csvimport.RowError
	)

	for _, row := range rows {
		parsed, rowErr := h.resolveRow(ctx, userRepo, row)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}

		if parsed.externalOrderID != "" {
			if _, seen := seenExternalIDs[parsed.externalOrderID]; seen {
				rowErrors = append(rowErrors, csvimport.RowError{
					Line:    row.Line,
					Field:   "external_order_id",
					Message: "duplicate within file, first occurrence wins",
				})
				continue
			}
			seenExternalIDs[parsed.externalOrderID] = struct{}{}
		}

		resolved = append(resolved, parsed)
	}

	return resolved, rowErrors, uow.Commit(ctx)
}

func (h *ImportOrdersCommandHandler) resolveRow(ctx context.Context, userRepo ports.UserRepository, row OrderRow) (resolvedRow, *csvimport.RowError) {
	clientID, err := h.resolveUserRef(ctx, userRepo, row.ClientRef)
	if err != nil {
		return resolvedRow{}, &csvimport.RowError{Line: row.Line, Field: "client", Message: err.Error()}
	}

	var agentID *kernel.UUID
	if row.AgentRef != "" {
		id, agentErr := h.resolveUserRef(ctx, userRepo, row.AgentRef)
		if agentErr != nil {
			return resolvedRow{}, &csvimport.RowError{Line: row.Line, Field: "agent", Message: agentErr.Error()}
		}
		agentID = &id
	}

	bwQuantity, err := parseQuantity(row.BWQuantity)
	if err != nil {
		return resolvedRow{}, &csvimport.RowError{Line: row.Line, Field: "bw_quantity", Message: err.Error()}
	}
	colorQuantity, err := parseQuantity(row.ColorQuantity)
	if err != nil {
		return resolvedRow{}, &csvimport.RowError{Line: row.Line, Field: "color_quantity", Message: err.Error()}
	}
	if bwQuantity == 0 && colorQuantity == 0 {
		return resolvedRow{}, &csvimport.RowError{Line: row.Line, Message: ErrOrderQuantitiesAreEmpty.Error()}
	}

	return resolvedRow{
		line:          row.Line,
		clientID:      clientID,
		agentID:       agentID,
		bwQuantity:    bwQuantity,
		colorQuantity: colorQuantity,
		details: OrderDetails{
			PaperDimensions: row.PaperDimensions,
			PaperType:       row.PaperType,
			Finishing:       row.Finishing,
			Notes:           row.Notes,
		},
		externalOrderID: row.ExternalOrderID,
	}, nil
}

// resolveUserRef accepts either a user identifier or an email address.
func (h *ImportOrdersCommandHandler) resolveUserRef(ctx context.Context, userRepo ports.UserRepository, ref string) (kernel.UUID, error) {
	if strings.Contains(ref, "@") {
		account, err := userRepo.GetByEmail(ctx, ref)
		if err != nil {
			return kernel.UUID{}, err
		}
		return account.ID(), nil
	}
	return kernel.UUIDFromString(ref)
}

// admitRow delegates one resolved row to the regular order admission.
func (h *ImportOrdersCommandHandler) admitRow(ctx context.Context, cmd ImportOrdersCommand, row resolvedRow) (kernel.UUID, error) {
	batchID := cmd.BatchID()
	orderCommand, err := NewCreateOrderCommand(
		kernel.NewUUID(),
		row.clientID,
		cmd.AdminID(),
		row.agentID,
		row.bwQuantity,
		row.colorQuantity,
		row.externalOrderID,
		row.details,
		&batchID,
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	result, err := h.createOrder.Handle(ctx, orderCommand)
	if err != nil {
		return kernel.UUID{}, err
	}
	return result.OrderID, nil
}

// settleBatch records the outcome and settles the batch terminally.
func (h *ImportOrdersCommandHandler) settleBatch(ctx context.Context, cmd ImportOrdersCommand, batch *csvimport.Batch, result ImportResult) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outcomeErr := batch.RecordOutcome(result.TotalRows, result.SuccessCount, result.RowErrors)

	now := h.clock.Now()
	actorID := cmd.AdminID()
	auditDetails := map[string]any{
		"filename":      cmd.Filename(),
		"total_rows":    result.TotalRows,
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	}

	if outcomeErr != nil {
		if settleErr := batch.MarkRejected(); settleErr != nil {
			return settleErr
		}
		if err := appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionCSVRejected,
			"import", batch.ID(), auditDetails, now); err != nil {
			return err
		}
		if err := uow.ImportRepository().Update(ctx, batch); err != nil {
			return err
		}
		if err := uow.Commit(ctx); err != nil {
			return err
		}
		return outcomeErr
	}

	if err := batch.MarkValidated(); err != nil {
		return err
	}
	if err := appendAudit(ctx, uow.AuditRepository(), &actorID, auditlog.ActionCSVValidated,
		"import", batch.ID(), auditDetails, now); err != nil {
		return err
	}
	if err := uow.ImportRepository().Update(ctx, batch); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func parseQuantity(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("must be a whole number: %q", value)
	}
	if quantity < 0 {
		return 0, fmt.Errorf("must not be negative: %d", quantity)
	}
	return quantity, nil
}
