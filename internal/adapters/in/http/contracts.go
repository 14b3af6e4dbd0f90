package http

import (
	"time"
)

// Error is the JSON body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderRequest admits a single print order.
type NewOrderRequest struct {
	ClientID        string `json:"client_id"`
	ActorID         string `json:"actor_id"`
	AgentID         string `json:"agent_id,omitempty"`
	BWQuantity      int    `json:"bw_quantity"`
	ColorQuantity   int    `json:"color_quantity"`
	ExternalOrderID string `json:"external_order_id,omitempty"`
	PaperDimensions string `json:"paper_dimensions,omitempty"`
	PaperType       string `json:"paper_type,omitempty"`
	Finishing       string `json:"finishing,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// OrderCreatedResponse reports the admitted order. Skipped is true when an
// idempotent resubmission matched an existing order instead of creating one.
type OrderCreatedResponse struct {
	OrderID string `json:"order_id"`
	Skipped bool   `json:"skipped"`
}

// ChangeStatusRequest moves an order to a new lifecycle status.
type ChangeStatusRequest struct {
	ActorID string `json:"actor_id"`
	Status  string `json:"status"`
}

// AssignOrderRequest assigns an order to an agent, or unassigns it when
// agent_id is empty.
type AssignOrderRequest struct {
	ActorID string `json:"actor_id"`
	AgentID string `json:"agent_id,omitempty"`
}

// OrderResponse is one order in a listing.
type OrderResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	AgentID         *string   `json:"agent_id,omitempty"`
	Status          string    `json:"status"`
	BWQuantity      int       `json:"bw_quantity"`
	ColorQuantity   int       `json:"color_quantity"`
	PaperDimensions string    `json:"paper_dimensions,omitempty"`
	PaperType       string    `json:"paper_type,omitempty"`
	Finishing       string    `json:"finishing,omitempty"`
	ExternalOrderID string    `json:"external_order_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTopupRequest grants additional prints to a client.
type NewTopupRequest struct {
	ClientID    string `json:"client_id"`
	AdminID     string `json:"admin_id"`
	BWAmount    int    `json:"bw_amount"`
	ColorAmount int    `json:"color_amount"`
	Notes       string `json:"notes,omitempty"`
}

// TopupCreatedResponse reports the granted top-up.
type TopupCreatedResponse struct {
	TopupID string `json:"topup_id"`
}

// ChannelSummary is the allowance state of one print channel.
type ChannelSummary struct {
	BaseLimit      int     `json:"base_limit"`
	TopupAdded     int     `json:"topup_added"`
	EffectiveLimit int     `json:"effective_limit"`
	Used           int     `json:"used"`
	Available      int     `json:"available"`
	UsagePercent   float64 `json:"usage_percent"`
	AlertSent      bool    `json:"alert_sent"`
}

// TopupSummary is one granted top-up in a quota summary.
type TopupSummary struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin_id"`
	BWAdded    int       `json:"bw_added"`
	ColorAdded int       `json:"color_added"`
	Notes      string    `json:"notes,omitempty"`
	GrantedAt  time.Time `json:"granted_at"`
}

// QuotaSummaryResponse is a client's allowance for one period.
type QuotaSummaryResponse struct {
	ClientID string         `json:"client_id"`
	Period   string         `json:"period"`
	BW       ChannelSummary `json:"bw"`
	Color    ChannelSummary `json:"color"`
	Topups   []TopupSummary `json:"topups"`
}

// ImportOrdersRequest uploads a CSV order file. Corrections overlay uploaded
// rows by line number before validation.
type ImportOrdersRequest struct {
	AdminID     string                       `json:"admin_id"`
	Filename    string                       `json:"filename"`
	CSVContent  string                       `json:"csv_content"`
	Corrections map[int]ImportRowCorrections `json:"corrections,omitempty"`
}

// ImportRowCorrections replaces one uploaded row's values.
type ImportRowCorrections struct {
	ClientRef       string `json:"client_ref,omitempty"`
	AgentRef        string `json:"agent_ref,omitempty"`
	BWQuantity      string `json:"bw_quantity,omitempty"`
	ColorQuantity   string `json:"color_quantity,omitempty"`
	PaperDimensions string `json:"paper_dimensions,omitempty"`
	PaperType       string `json:"paper_type,omitempty"`
	Finishing       string `json:"finishing,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ExternalOrderID string `json:"external_order_id,omitempty"`
}

// RowErrorResponse is one rejected row of an import batch.
type RowErrorResponse struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResultResponse reports the outcome of a bulk upload.
type ImportResultResponse struct {
	BatchID         string             `json:"batch_id"`
	TotalRows       int                `json:"total_rows"`
	SuccessCount    int                `json:"success_count"`
	ErrorCount      int                `json:"error_count"`
	CreatedOrderIDs []string           `json:"created_order_ids"`
	RowErrors       []RowErrorResponse `json:"row_errors"`
}

// RejectImportRequest discards an uploaded batch.
type RejectImportRequest struct {
	AdminID string `json:"admin_id"`
	Reason  string `json:"reason"`
}

// NotificationResponse is one unread notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkNotificationReadRequest acknowledges a notification.
type MarkNotificationReadRequest struct {
	RecipientID string `json:"recipient_id"`
}
