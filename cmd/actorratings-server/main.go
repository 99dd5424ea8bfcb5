package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"

	"actorratings-backend/lib/configutil"
	"actorratings-backend/lib/serviceutil"
	"actorratings-backend/lib/telemetry"
)

type Config struct {
	// defaults to 8000
	HttpPort int         `json:"http_port"`
	Actor    ActorConfig `json:"actor"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.HttpPort == 0 {
		cfg.HttpPort = 8000
	}

	mux := http.NewServeMux()

	cleanup, err := InitActor(ctx, mux, cfg.Actor)
	if err != nil {
		serviceutil.Fatal("init actor", err)
	}
	defer cleanup()

	go serviceutil.StartHttpServer(cfg.HttpPort, mux)
	<-ctx.Done()

	err = telemetry.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}
