// Command migrate aplica las migraciones embebidas del esquema.
//
//	migrate up [n]     aplica n migraciones pendientes (todas si se omite)
//	migrate down [n]   revierte las últimas n (1 si se omite)
//	migrate status     versión actual y pendientes
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/urbano-pos-api/pkg/config"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run ejecuta el subcomando y devuelve el código de salida. Los defer se cumplen antes de salir.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("migrate")

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "uso: migrate up [n] | down [n] | status")
		return 2
	}
	cmd := args[0]
	steps := 0
	if len(args) > 1 {
		if steps, err = strconv.Atoi(args[1]); err != nil || steps < 0 {
			log.Error().Str("arg", args[1]).Msg("n debe ser un entero >= 0")
			return 2
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return 1
	}
	defer pool.Close()

	m, err := postgres.NewMigrator(pool)
	if err != nil {
		log.Error().Err(err).Msg("cargar migraciones")
		return 1
	}

	switch cmd {
	case "up":
		n, err := m.Up(ctx, steps)
		if err != nil {
			log.Error().Err(err).Int("applied", n).Msg("migrate up")
			return 1
		}
		log.Info().Int("applied", n).Msg("migraciones aplicadas")
	case "down":
		n, err := m.Down(ctx, steps)
		if err != nil {
			log.Error().Err(err).Int("reverted", n).Msg("migrate down")
			return 1
		}
		log.Info().Int("reverted", n).Msg("migraciones revertidas")
	case "status":
		st, err := m.Status(ctx)
		if err != nil {
			log.Error().Err(err).Msg("migrate status")
			return 1
		}
		log.Info().Int64("version", st.Version).Int("applied", st.Applied).Int("pending", st.Pending).Msg("estado del esquema")
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q\n", cmd)
		return 2
	}
	return 0
}
