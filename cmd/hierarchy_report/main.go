// hierarchy_report valida la jerarquía de categorías de una institución contra la base de datos
// y escribe el reporte PDF del árbol con las inconsistencias encontradas.
//
// Uso: go run ./cmd/hierarchy_report --institucion 3 [--salida jerarquia.pdf] [--solo-validar] [--estricto]
// La conexión se toma de las mismas variables que la API (DATABASE_URL, DB_HOST, ...).
// Con --estricto el proceso termina con código 2 si la jerarquía tiene problemas.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jhoicas/gestion-almacen/internal/application/category"
	infrapdf "github.com/jhoicas/gestion-almacen/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-almacen/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-almacen/pkg/config"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("hierarchy_report", pflag.ExitOnError)
	institutionID := flags.IntP("institucion", "i", 0, "institución a revisar (obligatorio)")
	output := flags.StringP("salida", "o", "jerarquia-categorias.pdf", "archivo PDF de salida")
	validateOnly := flags.Bool("solo-validar", false, "no genera el PDF")
	strict := flags.Bool("estricto", false, "código de salida 2 si hay inconsistencias")
	_ = flags.Parse(os.Args[1:])

	if *institutionID <= 0 {
		fmt.Fprintln(os.Stderr, "--institucion es obligatorio")
		flags.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "hierarchy_report"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := category.NewCategoryUseCase(
		postgres.NewCategoryRepository(pool),
		postgres.NewMaterialRepository(pool),
		postgres.NewAuditRepository(pool),
		postgres.NewTxRunner(pool),
		infrapdf.NewMarotoTreeReport(cfg.App.Name),
		log,
	)

	report, err := uc.ValidateHierarchy(ctx, *institutionID)
	if err != nil {
		log.Fatal().Err(err).Msg("validar jerarquía")
	}
	for _, p := range report.Problems {
		log.Warn().Str("tipo", p.Kind).Strs("categorias", p.CategoryIDs).Msg(p.Message)
	}
	log.Info().
		Int("institucion", *institutionID).
		Int("total", report.Total).
		Int("activas", report.Active).
		Int("problemas", len(report.Problems)).
		Msg("jerarquía revisada")

	if !*validateOnly {
		doc, err := uc.ExportReport(ctx, *institutionID)
		if err != nil {
			log.Fatal().Err(err).Msg("generar PDF")
		}
		if err := os.WriteFile(*output, doc, 0o644); err != nil {
			log.Fatal().Err(err).Str("archivo", *output).Msg("escribir PDF")
		}
		log.Info().Str("archivo", *output).Int("bytes", len(doc)).Msg("reporte escrito")
	}

	if *strict && len(report.Problems) > 0 {
		pool.Close()
		os.Exit(2)
	}
}
