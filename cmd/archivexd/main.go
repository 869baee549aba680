// Command archivexd serves archival record exports over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	exportlog "github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/adapters/logging"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/app"
	"github.com/Nightmarespirits/Gestor-Archivos-Web-sub000/config"
)

func main() {
	envFile := flag.String("env-file", "", "env file to load (default .env)")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := exportlog.NewFromOptions(exportlog.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: "archivexd",
	})
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create app")
	}
	defer a.Close()

	srv := newServer(a, true)
	addr := cfg.Server.Addr()
	go func() {
		log.Info().Str("addr", addr).Str("exports", cfg.Server.BasePath).Msg("starting server")
		if err := srv.Serve(addr); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
