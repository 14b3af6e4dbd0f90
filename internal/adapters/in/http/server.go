package http

import (
	"net/http"
	"strings"
	"time"

	"printflow/internal/adapters/in/csvfile"
	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/application/usecases/queries"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	changeOrderStatusHandler    commands.ChangeOrderStatusCommandHandler
	assignOrderHandler          commands.AssignOrderCommandHandler
	createTopupHandler          commands.CreateTopupCommandHandler
	importOrdersHandler         commands.ImportOrdersCommandHandler
	rejectImportHandler         commands.RejectImportCommandHandler
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler

	// Query handlers
	getOrdersHandler              queries.GetOrdersQueryHandler
	getQuotaSummaryHandler        queries.GetQuotaSummaryQueryHandler
	getUnreadNotificationsHandler queries.GetUnreadNotificationsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	createTopupHandler commands.CreateTopupCommandHandler,
	importOrdersHandler commands.ImportOrdersCommandHandler,
	rejectImportHandler commands.RejectImportCommandHandler,
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getQuotaSummaryHandler queries.GetQuotaSummaryQueryHandler,
	getUnreadNotificationsHandler queries.GetUnreadNotificationsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:            createOrderHandler,
		changeOrderStatusHandler:      changeOrderStatusHandler,
		assignOrderHandler:            assignOrderHandler,
		createTopupHandler:            createTopupHandler,
		importOrdersHandler:           importOrdersHandler,
		rejectImportHandler:           rejectImportHandler,
		markNotificationReadHandler:   markNotificationReadHandler,
		getOrdersHandler:              getOrdersHandler,
		getQuotaSummaryHandler:        getQuotaSummaryHandler,
		getUnreadNotificationsHandler: getUnreadNotificationsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/orders", s.GetOrders)
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/status", s.ChangeOrderStatus)
	api.PATCH("/orders/:orderId/assign", s.AssignOrder)

	api.GET("/quotas", s.GetQuotaSummary)
	api.POST("/quotas/topup", s.CreateTopup)

	api.POST("/imports", s.ImportOrders)
	api.POST("/imports/:batchId/reject", s.RejectImport)

	api.GET("/notifications", s.GetUnreadNotifications)
	api.POST("/notifications/:notificationId/read", s.MarkNotificationRead)
}

// GetOrders handles GET /api/v1/orders - lists orders, optionally filtered
// by client, agent, and status.
func (s *Server) GetOrders(ctx echo.Context) error {
	var clientID, agentID *kernel.UUID
	var status *order.Status

	if raw := ctx.QueryParam("client_id"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequestJSON(ctx, "Invalid client_id")
		}
		clientID = &id
	}
	if raw := ctx.QueryParam("agent_id"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequestJSON(ctx, "Invalid agent_id")
		}
		agentID = &id
	}
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.StatusFromString(raw)
		if err != nil {
			return badRequestJSON(ctx, "Invalid status")
		}
		status = &parsed
	}

	query, err := queries.NewGetOrdersQuery(clientID, agentID, status)
	if err != nil {
		return problemJSON(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return problemJSON(ctx, err)
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		var agent *string
		if o.AgentID != nil {
			id := o.AgentID.String()
			agent = &id
		}

		response[i] = OrderResponse{
			ID:              o.ID.String(),
			ClientID:        o.ClientID.String(),
			AgentID:         agent,
			Status:          o.Status,
			BWQuantity:      o.BWQuantity,
			ColorQuantity:   o.ColorQuantity,
			PaperDimensions: o.PaperDimensions,
			PaperType:       o.PaperType,
			Finishing:       o.Finishing,
			ExternalOrderID: o.ExternalOrderID,
			CreatedAt:       o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders - admits a new print order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid client_id")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid actor_id")
	}
	var agentID *kernel.UUID
	if req.AgentID != "" {
		id, err := kernel.UUIDFromString(req.AgentID)
		if err != nil {
			return badRequestJSON(ctx, "Invalid agent_id")
		}
		agentID = &id
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		clientID,
		actorID,
		agentID,
		req.BWQuantity,
		req.ColorQuantity,
		req.ExternalOrderID,
		commands.OrderDetails{
			PaperDimensions: req.PaperDimensions,
			PaperType:       req.PaperType,
			Finishing:       req.Finishing,
			Notes:           req.Notes,
		},
		nil,
	)
	if err != nil {
		return problemJSON(ctx, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return problemJSON(ctx, err)
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	return ctx.JSON(status, OrderCreatedResponse{
		OrderID: result.OrderID.String(),
		Skipped: result.Skipped,
	})
}

// ChangeOrderStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid order id")
	}

	var req ChangeStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid actor_id")
	}
	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequestJSON(ctx, "Invalid status")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, target)
	if err != nil {
		return problemJSON(ctx, err)
	}

	if err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return problemJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignOrder handles PATCH /api/v1/orders/:orderId/assign - assigns the
// order to an agent, or unassigns it when agent_id is omitted.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid order id")
	}

	var req AssignOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid actor_id")
	}
	var agentID *kernel.UUID
	if req.AgentID != "" {
		id, err := kernel.UUIDFromString(req.AgentID)
		if err != nil {
			return badRequestJSON(ctx, "Invalid agent_id")
		}
		agentID = &id
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, actorID, agentID)
	if err != nil {
		return problemJSON(ctx, err)
	}

	if err := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return problemJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetQuotaSummary handles GET /api/v1/quotas - returns a client's allowance
// for the requested period, or the current period when none is given.
func (s *Server) GetQuotaSummary(ctx echo.Context) error {
	clientID, err := kernel.UUIDFromString(ctx.QueryParam("client_id"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid client_id")
	}

	var period kernel.Period
	if raw := ctx.QueryParam("period"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return badRequestJSON(ctx, "Invalid period, expected YYYY-MM")
		}
		period = kernel.NewPeriod(parsed)
	}

	query, err := queries.NewGetQuotaSummaryQuery(clientID, period)
	if err != nil {
		return problemJSON(ctx, err)
	}

	summary, err := s.getQuotaSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return problemJSON(ctx, err)
	}

	topups := make([]TopupSummary, len(summary.Topups))
	for i, t := range summary.Topups {
		topups[i] = TopupSummary{
			ID:         t.ID.String(),
			AdminID:    t.AdminID.String(),
			BWAdded:    t.BWAdded,
			ColorAdded: t.ColorAdded,
			Notes:      t.Notes,
			GrantedAt:  t.GrantedAt,
		}
	}

	return ctx.JSON(http.StatusOK, QuotaSummaryResponse{
		ClientID: summary.ClientID.String(),
		Period:   summary.Period,
		BW:       channelSummary(summary.BW),
		Color:    channelSummary(summary.Color),
		Topups:   topups,
	})
}

func channelSummary(ch queries.ChannelSummaryResponse) ChannelSummary {
	return ChannelSummary{
		BaseLimit:      ch.BaseLimit,
		TopupAdded:     ch.TopupAdded,
		EffectiveLimit: ch.EffectiveLimit,
		Used:           ch.Used,
		Available:      ch.Available,
		UsagePercent:   ch.UsagePercent,
		AlertSent:      ch.AlertSent,
	}
}

// CreateTopup handles POST /api/v1/quotas/topup - grants additional prints
// to a client for the current period.
func (s *Server) CreateTopup(ctx echo.Context) error {
	var req NewTopupRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid client_id")
	}
	adminID, err := kernel.UUIDFromString(req.AdminID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid admin_id")
	}

	topupID := kernel.NewUUID()
	cmd, err := commands.NewCreateTopupCommand(topupID, clientID, adminID, req.BWAmount, req.ColorAmount, req.Notes)
	if err != nil {
		return problemJSON(ctx, err)
	}

	if err := s.createTopupHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return problemJSON(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, TopupCreatedResponse{TopupID: topupID.String()})
}

// ImportOrders handles POST /api/v1/imports - parses the uploaded CSV
// content and admits the valid rows as orders.
func (s *Server) ImportOrders(ctx echo.Context) error {
	var req ImportOrdersRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	adminID, err := kernel.UUIDFromString(req.AdminID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid admin_id")
	}

	rows, err := csvfile.ReadOrderRows(strings.NewReader(req.CSVContent))
	if err != nil {
		return badRequestJSON(ctx, err.Error())
	}

	var corrections map[int]commands.OrderRow
	if len(req.Corrections) > 0 {
		corrections = make(map[int]commands.OrderRow, len(req.Corrections))
		for line, c := range req.Corrections {
			corrections[line] = commands.OrderRow{
				Line:            line,
				ClientRef:       c.ClientRef,
				AgentRef:        c.AgentRef,
				BWQuantity:      c.BWQuantity,
				ColorQuantity:   c.ColorQuantity,
				PaperDimensions: c.PaperDimensions,
				PaperType:       c.PaperType,
				Finishing:       c.Finishing,
				Notes:           c.Notes,
				ExternalOrderID: c.ExternalOrderID,
			}
		}
	}

	cmd, err := commands.NewImportOrdersCommand(kernel.NewUUID(), adminID, req.Filename, rows, corrections)
	if err != nil {
		return problemJSON(ctx, err)
	}

	result, err := s.importOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return problemJSON(ctx, err)
	}

	createdIDs := make([]string, len(result.CreatedOrderIDs))
	for i, id := range result.CreatedOrderIDs {
		createdIDs[i] = id.String()
	}
	rowErrors := make([]RowErrorResponse, len(result.RowErrors))
	for i, re := range result.RowErrors {
		rowErrors[i] = RowErrorResponse{
			Line:    re.Line,
			Field:   re.Field,
			Message: re.Message,
		}
	}

	return ctx.JSON(http.StatusCreated, ImportResultResponse{
		BatchID:         result.BatchID.String(),
		TotalRows:       result.TotalRows,
		SuccessCount:    result.SuccessCount,
		ErrorCount:      result.ErrorCount,
		CreatedOrderIDs: createdIDs,
		RowErrors:       rowErrors,
	})
}

// RejectImport handles POST /api/v1/imports/:batchId/reject.
func (s *Server) RejectImport(ctx echo.Context) error {
	batchID, err := kernel.UUIDFromString(ctx.Param("batchId"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid batch id")
	}

	var req RejectImportRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	adminID, err := kernel.UUIDFromString(req.AdminID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid admin_id")
	}

	cmd, err := commands.NewRejectImportCommand(batchID, adminID, req.Reason)
	if err != nil {
		return problemJSON(ctx, err)
	}

	if err := s.rejectImportHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return problemJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetUnreadNotifications handles GET /api/v1/notifications - lists a
// recipient's unread notifications, oldest first.
func (s *Server) GetUnreadNotifications(ctx echo.Context) error {
	recipientID, err := kernel.UUIDFromString(ctx.QueryParam("recipient_id"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid recipient_id")
	}

	query, err := queries.NewGetUnreadNotificationsQuery(recipientID)
	if err != nil {
		return problemJSON(ctx, err)
	}

	notifications, err := s.getUnreadNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return problemJSON(ctx, err)
	}

	response := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = NotificationResponse{
			ID:        n.ID.String(),
			Kind:      n.Kind,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:notificationId/read.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := kernel.UUIDFromString(ctx.Param("notificationId"))
	if err != nil {
		return badRequestJSON(ctx, "Invalid notification id")
	}

	var req MarkNotificationReadRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestJSON(ctx, "Invalid request body")
	}

	recipientID, err := kernel.UUIDFromString(req.RecipientID)
	if err != nil {
		return badRequestJSON(ctx, "Invalid recipient_id")
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, recipientID)
	if err != nil {
		return problemJSON(ctx, err)
	}

	if err := s.markNotificationReadHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return problemJSON(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
