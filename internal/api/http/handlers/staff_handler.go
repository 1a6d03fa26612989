package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// StaffHandler manages the admin staff roster endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// Create POST /admin/staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.CreateStaffMember(c.Context(), service.StaffCreateInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		MaxOpenTickets: req.MaxOpenTickets,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(member)})
}

// List GET /admin/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	members, err := h.staff.ListStaff(c.Context(), c.Query("active") == "true")
	if err != nil {
		return err
	}
	responses := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		responses = append(responses, staffResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Get GET /admin/staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	member, err := h.staff.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// SetCapacity PUT /admin/staff/:id/capacity.
func (h *StaffHandler) SetCapacity(c *fiber.Ctx) error {
	var req dto.SetCapacityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.SetCapacity(c.Context(), c.Params("id"), req.MaxOpenTickets)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// SetActive PUT /admin/staff/:id/active.
func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.staff.SetActive(c.Context(), c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

func staffResponse(member *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:             member.ID,
		Name:           member.Name,
		Email:          member.Email,
		Role:           member.Role,
		Active:         member.Active,
		MaxOpenTickets: member.MaxOpenTickets,
		CreatedAt:      member.CreatedAt,
	}
}
