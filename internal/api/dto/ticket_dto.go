package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.PriorityCode `json:"priority"`
	ProductID   *string             `json:"product_id,omitempty"`
	ImagePath   *string             `json:"image_path,omitempty"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.StatusCode `json:"status"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	Priority domain.PriorityCode `json:"priority"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Solution string `json:"solution"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string              `json:"id"`
	Code         string              `json:"code"`
	TenantID     string              `json:"tenant_id"`
	AssigneeID   *string             `json:"assignee_id,omitempty"`
	AssigneeName *string             `json:"assignee_name,omitempty"`
	Title        string              `json:"title"`
	Status       domain.StatusCode   `json:"status"`
	Priority     domain.PriorityCode `json:"priority"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	ProductID   *string           `json:"product_id,omitempty"`
	ImagePath   *string           `json:"image_path,omitempty"`
	Comments    []CommentResponse `json:"comments,omitempty"`
	History     []HistoryResponse `json:"history,omitempty"`
}

// CommentResponse represents one thread message.
type CommentResponse struct {
	ID        string                `json:"id"`
	Author    string                `json:"author"`
	FromStaff bool                  `json:"from_staff"`
	Channel   domain.CommentChannel `json:"channel"`
	Body      string                `json:"body"`
	CreatedAt time.Time             `json:"created_at"`
}

// HistoryResponse represents one audit entry.
type HistoryResponse struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
