package main

import (
	"context"
	"os"

	"actorratings-backend/lib/restyutil"
	"actorratings-backend/lib/scrapers/imdbweb"
	"actorratings-backend/lib/serviceutil"
	"actorratings-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	err := telemetry.SetupFromEnv(ctx, "actorratings-server")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	telemetry.InitSlog(verbose)
	if !verbose {
		return
	}

	imdbweb.SetRestyInstrumentOutput(
		restyutil.NewFilesystemOutput("resty_telemetry/imdbweb"),
	)
}
