package main

import (
	"bookitnow-backend/cmd/bookitnow-cli/commands"
	"bookitnow-backend/lib/serviceutil"
	"bookitnow-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	ctx := serviceutil.SignalContext()
	commands.ExecuteContext(ctx)
}
