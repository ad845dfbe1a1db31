package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/processors"
	"github.com/dcastano/VerdePOS-api/internal/domain"
)

// ProcessorHandler procesadores de pago del comercio. Solo admin.
type ProcessorHandler struct {
	uc       *processors.ProcessorUseCase
	validate *validator.Validate
}

func NewProcessorHandler(uc *processors.ProcessorUseCase) *ProcessorHandler {
	return &ProcessorHandler{uc: uc, validate: validator.New()}
}

// Create godoc
// @Summary      Registrar procesador de pago
// @Description  Da de alta un procesador (dejavoo, stripe, square, authorizenet o clover) con sus credenciales. Las respuestas nunca devuelven los secretos completos.
// @Tags         processors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProcessorRequest  true  "name, type, credentials"
// @Success      201   {object}  dto.ProcessorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/processors [post]
func (h *ProcessorHandler) Create(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	var in dto.CreateProcessorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Create(c.Context(), vendorID, in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de procesador o credenciales inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sucursal no encontrada"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la sucursal pertenece a otro comercio"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar procesador
// @Description  El tipo no cambia después de creado; las credenciales se reemplazan completas si vienen.
// @Tags         processors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del procesador"
// @Param        body  body  dto.UpdateProcessorRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ProcessorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/processors/{id} [put]
func (h *ProcessorHandler) Update(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	var in dto.UpdateProcessorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Update(c.Context(), vendorID, c.Params("id"), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "procesador no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el procesador pertenece a otro comercio"})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "credenciales o sucursal inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener procesador
// @Tags         processors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del procesador"
// @Success      200  {object}  dto.ProcessorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processors/{id} [get]
func (h *ProcessorHandler) GetByID(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	out, err := h.uc.GetByID(c.Context(), vendorID, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "procesador no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar procesadores
// @Tags         processors
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProcessorListResponse
// @Router       /api/processors [get]
func (h *ProcessorHandler) List(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	out, err := h.uc.List(c.Context(), vendorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar procesador
// @Tags         processors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del procesador"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/processors/{id} [delete]
func (h *ProcessorHandler) Delete(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	err := h.uc.Delete(c.Context(), vendorID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "procesador no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el procesador pertenece a otro comercio"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el procesador tiene ventas asociadas; desactívelo en su lugar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "procesador eliminado"})
}

// Test godoc
// @Summary      Probar conexión de un procesador
// @Description  Ejecuta una llamada real contra la pasarela con las credenciales guardadas y devuelve el resultado con la latencia medida.
// @Tags         processors
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del procesador"
// @Success      200  {object}  dto.TestConnectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processors/{id}/test [post]
func (h *ProcessorHandler) Test(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	out, err := h.uc.Test(c.Context(), vendorID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "procesador no encontrado"})
		}
		if err == domain.ErrForbidden {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el procesador pertenece a otro comercio"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TestAll godoc
// @Summary      Probar todos los procesadores activos
// @Description  Prueba las conexiones en paralelo; las fallas individuales aparecen en el resultado de cada procesador sin frenar a los demás.
// @Tags         processors
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TestAllResponse
// @Router       /api/processors/test-all [post]
func (h *ProcessorHandler) TestAll(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	out, err := h.uc.TestAll(c.Context(), vendorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
