package app

// Command is the process start mode.
type Command string

const (
	// CommandServe starts the API server.
	CommandServe Command = "serve"
	// CommandWorker starts the background import and cleanup workers.
	CommandWorker Command = "worker"
	// CommandMigrate applies all pending database migrations.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck probes the local API server. Used as the Docker
	// healthcheck in distroless images.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand resolves the subcommand from the CLI arguments. Empty or
// unknown arguments fall back to CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "worker":
		return CommandWorker
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
