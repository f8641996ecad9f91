package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"donorapi/internal/service"
)

// LogCallDetail records a call outcome against a data record.
//
// @Summary Log a call outcome
// @Tags call-details
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body service.CallDetailInput true "Call outcome"
// @Success 201 {object} model.CallDetail
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /records/{id}/call-details [post]
func LogCallDetail(svc service.CallDetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var in service.CallDetailInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		cd, err := svc.Log(c.UserContext(), id, in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCallDetail):
				return writeError(c, fiber.StatusBadRequest, "INVALID_CALL_DETAIL", err.Error())
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "record not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(cd)
	}
}

// ListCallDetails returns a record's call outcomes, oldest first.
//
// @Summary List call outcomes of a record
// @Tags call-details
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {array} model.CallDetail
// @Failure 404 {object} errorPayload
// @Router /records/{id}/call-details [get]
func ListCallDetails(svc service.CallDetailService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		out, err := svc.ListByRecord(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no call details for record")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": out})
	}
}
