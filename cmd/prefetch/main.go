// Command prefetch warms the companion cache: it runs the batched resource
// load once against the live APIs and prints a per-resource summary. Useful
// before going offline, or for checking upstream health from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli"

	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/config"
	"github.com/trop3n/ARCompanion/internal/fetch"
	"github.com/trop3n/ARCompanion/internal/logger"
	"github.com/trop3n/ARCompanion/internal/metrics"
)

func main() {
	app := cli.NewApp()
	app.Name = "prefetch"
	app.Usage = "fetch every configured resource once and persist it to the cache"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "db",
			Usage: "cache database path (overrides CACHE_DB_PATH)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
			Usage: "log verbosity: debug, info, warn, error",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "prefetch:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		cfg.CacheDBPath = db
	}

	log := logger.New(c.String("log-level"))

	store, err := cache.Open(cfg.CacheDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service := fetch.NewService(cfg, log, store, metrics.New())
	results, loadErr := service.LoadAll(context.Background())

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result := results[key]
		if result.Err != nil {
			fmt.Printf("%-12s FAILED  %v\n", key, result.Err)
			continue
		}
		fmt.Printf("%-12s ok      %d bytes\n", key, len(result.Data))
	}

	return loadErr
}
