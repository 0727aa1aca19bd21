package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/internal/application/dto"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

// CategoryHandler expone el gestor de categorías (protegido). La institución sale siempre del
// token: una categoría de otra institución responde 404 como si no existiera.
type CategoryHandler struct {
	uc       *category.CategoryUseCase
	validate *requestValidator
	log      *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *category.CategoryUseCase, log *logger.Logger) *CategoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryHandler{uc: uc, validate: newRequestValidator(), log: log.Component("http")}
}

func (h *CategoryHandler) fail(c *fiber.Ctx, err error) error {
	status, body := errorStatus(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("ruta", c.Path()).Str("metodo", c.Method()).Msg("error atendiendo petición")
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// owned carga la categoría del path y verifica que sea de la institución del token.
func (h *CategoryHandler) owned(c *fiber.Ctx, id string) (*entity.Category, error) {
	cat, err := h.uc.GetByID(c.UserContext(), id, true)
	if err != nil {
		return nil, err
	}
	if cat.InstitutionID != GetInstitutionID(c) {
		return nil, &domain.NotFoundError{Resource: "categoría", ID: id}
	}
	return cat, nil
}

// List godoc
// @Summary      Listar categorías (plano)
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        incluir_inactivas  query  bool  false  "Incluir inactivas"  default(false)
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categorias [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListFlat(c.UserContext(), GetInstitutionID(c), c.QueryBool("incluir_inactivas", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toCategoryList(list))
}

// Tree godoc
// @Summary      Árbol de categorías
// @Description  Bosque de raíces con sus hijas anidadas por orden. Las categorías cuyo padre no existe (o está filtrado) aparecen como raíces.
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        incluir_inactivas  query  bool  false  "Incluir inactivas"  default(false)
// @Success      200  {array}  dto.CategoryTreeResponse
// @Router       /api/categorias/arbol [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	roots, err := h.uc.ListTree(c.UserContext(), GetInstitutionID(c), c.QueryBool("incluir_inactivas", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toTree(roots))
}

// Validate godoc
// @Summary      Validar jerarquía
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.HierarchyReportResponse
// @Router       /api/categorias/validacion [get]
func (h *CategoryHandler) Validate(c *fiber.Ctx) error {
	report, err := h.uc.ValidateHierarchy(c.UserContext(), GetInstitutionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toReport(report))
}

// Report godoc
// @Summary      Reporte PDF de la jerarquía
// @Tags         categorias
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/categorias/reporte.pdf [get]
func (h *CategoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.ExportReport(c.UserContext(), GetInstitutionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="jerarquia-categorias.pdf"`)
	return c.Send(pdf)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categorias [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if verr := h.validate.Struct(in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	out, err := h.uc.Create(c.UserContext(), category.CreateInput{
		InstitutionID: GetInstitutionID(c),
		ParentID:      in.ParentID,
		Name:          in.Name,
		Description:   in.Description,
		Icon:          in.Icon,
		Color:         in.Color,
		Order:         in.Order,
	}, GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(out))
}

// Reorder godoc
// @Summary      Reordenar hermanas
// @Description  Lote todo o nada: un id inválido o un orden negativo o repetido no aplica ningún cambio.
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequest  true  "Cambios de orden"
// @Success      200   {object}  dto.MessageResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categorias/orden [patch]
func (h *CategoryHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if verr := h.validate.Struct(in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	changes := make([]category.OrderChange, 0, len(in.Operations))
	for _, op := range in.Operations {
		changes = append(changes, category.OrderChange{ID: op.ID, Order: *op.Order})
	}
	if err := h.uc.Reorder(c.UserContext(), GetInstitutionID(c), changes, GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "orden actualizado"})
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id                 path   string  true   "ID de la categoría"
// @Param        incluir_inactivas  query  bool    false  "Incluir inactivas"  default(false)
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if !cat.Active && !c.QueryBool("incluir_inactivas", false) {
		return h.fail(c, &domain.NotFoundError{Resource: "categoría", ID: cat.ID})
	}
	return c.JSON(toCategoryResponse(cat))
}

// Children godoc
// @Summary      Hijas directas
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id                 path   string  true   "ID de la categoría"
// @Param        incluir_inactivas  query  bool    false  "Incluir inactivas"  default(false)
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categorias/{id}/hijos [get]
func (h *CategoryHandler) Children(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.uc.GetChildren(c.UserContext(), cat.ID, c.QueryBool("incluir_inactivas", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toCategoryList(list))
}

// Path godoc
// @Summary      Ruta completa
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.PathSegmentResponse
// @Router       /api/categorias/{id}/ruta [get]
func (h *CategoryHandler) Path(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	segments, err := h.uc.GetFullPath(c.UserContext(), cat.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toSegments(segments))
}

// IsDescendant godoc
// @Summary      ¿Es descendiente?
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID candidato"
// @Param        ancestroId  path  string  true  "ID del posible ancestro"
// @Success      200  {object}  dto.DescendantResponse
// @Router       /api/categorias/{id}/descendiente-de/{ancestroId} [get]
func (h *CategoryHandler) IsDescendant(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	ancestor, err := h.owned(c, c.Params("ancestroId"))
	if err != nil {
		return h.fail(c, err)
	}
	yes, err := h.uc.IsDescendant(c.UserContext(), cat.ID, ancestor.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.DescendantResponse{ID: cat.ID, AncestorID: ancestor.ID, IsDescendant: yes})
}

// Materials godoc
// @Summary      Materias primas de la categoría
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id                 path   string  true   "ID de la categoría"
// @Param        incluir_inactivas  query  bool    false  "Incluir inactivos"  default(false)
// @Success      200  {array}  dto.MaterialResponse
// @Router       /api/categorias/{id}/materiales [get]
func (h *CategoryHandler) Materials(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.uc.ListMaterials(c.UserContext(), cat.ID, c.QueryBool("incluir_inactivas", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toMaterials(list))
}

// Audit godoc
// @Summary      Auditoría de la categoría
// @Description  Incluye entradas de categorías ya eliminadas físicamente.
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la categoría"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/categorias/{id}/auditoria [get]
func (h *CategoryHandler) Audit(c *fiber.Ctx) error {
	list, err := h.uc.ListAudit(c.UserContext(), GetInstitutionID(c), c.Params("id"), c.QueryInt("limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toAudit(list))
}

// Update godoc
// @Summary      Editar categoría
// @Description  Renombrar recalcula la ruta de todos los descendientes en la misma transacción.
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if verr := h.validate.Struct(in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Edit(c.UserContext(), cat.ID, category.EditInput{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	}, GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toCategoryResponse(out))
}

// Move godoc
// @Summary      Mover categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la categoría"
// @Param        body  body  dto.MoveCategoryRequest  true  "Nuevo padre (null = raíz)"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categorias/{id}/mover [patch]
func (h *CategoryHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.Move(c.UserContext(), cat.ID, in.ParentID, GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toCategoryResponse(out))
}

// ToggleActive godoc
// @Summary      Activar / desactivar
// @Description  No se propaga a las hijas.
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la categoría"
// @Param        body  body  dto.ToggleActiveRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categorias/{id}/estado [patch]
func (h *CategoryHandler) ToggleActive(c *fiber.Ctx) error {
	var in dto.ToggleActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if verr := h.validate.Struct(in); verr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(verr)
	}
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	out, err := h.uc.ToggleActive(c.UserContext(), cat.ID, *in.Active, GetUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toCategoryResponse(out))
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Sin forzar es baja lógica y falla con 409 si hay hijas o materiales activos. Con forzar=true borra solo la fila.
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la categoría"
// @Param        forzar  query  bool    false  "Eliminación física"  default(false)
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	cat, err := h.owned(c, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	force := c.QueryBool("forzar", false)
	if err := h.uc.Delete(c.UserContext(), cat.ID, force, GetUserID(c)); err != nil {
		return h.fail(c, err)
	}
	msg := "categoría dada de baja"
	if force {
		msg = "categoría eliminada"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}
