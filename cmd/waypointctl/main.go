package main

import (
	"context"
	"os"

	"waypoint/internal/cli"
)

var version = "dev"

const defaultAPIBase = "http://localhost:8080"

func main() {
	store, err := cli.NewConfigStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	base := defaultAPIBase
	if cfg, err := store.Load(); err == nil && cfg.APIBase != "" {
		base = cfg.APIBase
	}
	if v := os.Getenv("WAYPOINT_API_BASE"); v != "" {
		base = v
	}

	deps := cli.Dependencies{
		API:     cli.NewAPIClient(base),
		Config:  store,
		Version: version,
	}

	os.Exit(cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr))
}
