package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/pkg/jwt"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *category.CategoryUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras además rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	admins := RequireRole(jwt.RoleAdmin)

	categories := api.Group("/categorias")
	h := NewCategoryHandler(deps.CategoryUC, deps.Log)

	// Rutas fijas antes de /:id
	categories.Get("/", h.List)
	categories.Get("/arbol", h.Tree)
	categories.Get("/validacion", h.Validate)
	categories.Get("/reporte.pdf", h.Report)
	categories.Post("/", writers, h.Create)
	categories.Patch("/orden", writers, h.Reorder)

	categories.Get("/:id", h.GetByID)
	categories.Get("/:id/hijos", h.Children)
	categories.Get("/:id/ruta", h.Path)
	categories.Get("/:id/descendiente-de/:ancestroId", h.IsDescendant)
	categories.Get("/:id/materiales", h.Materials)
	categories.Get("/:id/auditoria", h.Audit)
	categories.Put("/:id", writers, h.Update)
	categories.Patch("/:id/mover", writers, h.Move)
	categories.Patch("/:id/estado", admins, h.ToggleActive)
	categories.Delete("/:id", admins, h.Delete)
}
