package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/gestion-almacen/internal/application/category"
	infrapdf "github.com/jhoicas/gestion-almacen/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-almacen/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-almacen/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestion-almacen/internal/interfaces/http"
	"github.com/jhoicas/gestion-almacen/pkg/config"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	// PDF: reporte imprimible de la jerarquía
	reports := infrapdf.NewMarotoTreeReport(cfg.App.Name)

	var categoryUC *category.CategoryUseCase
	switch cfg.App.Store {
	case config.StoreMemory:
		// Solo desarrollo: los datos se pierden al reiniciar.
		log.Warn().Msg("usando almacén en memoria")
		store := memory.NewStore()
		categoryUC = category.NewCategoryUseCase(
			store.Categories(), store.Materials(), store.Audit(), store, reports, log,
		)
	default:
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		categoryUC = category.NewCategoryUseCase(
			postgres.NewCategoryRepository(pool),
			postgres.NewMaterialRepository(pool),
			postgres.NewAuditRepository(pool),
			postgres.NewTxRunner(pool),
			reports,
			log,
		)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestión de Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: categoryUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
