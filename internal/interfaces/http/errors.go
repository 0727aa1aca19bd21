package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/internal/application/dto"
	"github.com/jhoicas/gestion-almacen/internal/domain"
)

// errorStatus traduce un error del gestor de categorías a status HTTP y cuerpo de error.
func errorStatus(err error) (int, dto.ErrorResponse) {
	var (
		validation *domain.ValidationError
		order      *domain.OrderValidationError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Field: validation.Field, Message: err.Error()}
	case errors.As(err, &order):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "ORDER_INVALID", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrCycle):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CYCLE", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE_NAME", Message: err.Error()}
	case errors.Is(err, domain.ErrDependency):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DEPENDENCY", Message: err.Error()}
	case errors.Is(err, domain.ErrDepthExceeded):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "DEPTH_EXCEEDED", Message: err.Error()}
	case errors.Is(err, category.ErrReportsDisabled):
		return fiber.StatusNotImplemented, dto.ErrorResponse{Code: "REPORTS_DISABLED", Message: err.Error()}
	case errors.Is(err, domain.ErrTransaction):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "TRANSACTION", Message: "la operación no se aplicó; la jerarquía quedó sin cambios"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}
