// Command svcat manages a service catalog stored in a local JSON file
// or in an S3-compatible object store.
package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/svcat/svcat/backend"
	"github.com/svcat/svcat/catalog"
	"github.com/svcat/svcat/instrument"
	"github.com/svcat/svcat/oplog"
)

// seedData is the bundled default dataset a missing catalog document
// is created from on first access.
//
//go:embed data/services.json
var seedData []byte

func main() {
	app := &cli.App{
		Name:  "svcat",
		Usage: "Manage a service catalog in a local file or an S3-compatible object store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Storage backend: local or remote",
				Value:   backend.TypeLocal,
				EnvVars: []string{"SVCAT_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "data-path",
				Usage:   "Path of the catalog file (local backend)",
				Value:   "services.json",
				EnvVars: []string{"SVCAT_DATA_PATH"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "Object store endpoint (remote backend)",
				EnvVars: []string{"SVCAT_S3_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "access",
				Usage:   "Object store access key (remote backend)",
				EnvVars: []string{"SVCAT_S3_ACCESS"},
			},
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Object store secret key (remote backend)",
				EnvVars: []string{"SVCAT_S3_SECRET"},
			},
			&cli.StringFlag{
				Name:    "bucket",
				Usage:   "Object store bucket (remote backend)",
				EnvVars: []string{"SVCAT_S3_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "object",
				Usage:   "Catalog object key (remote backend)",
				Value:   "services.json",
				EnvVars: []string{"SVCAT_S3_OBJECT"},
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "Object store region (remote backend)",
				EnvVars: []string{"SVCAT_S3_REGION"},
			},
			&cli.BoolFlag{
				Name:    "insecure",
				Usage:   "Disable TLS for the object store connection",
				EnvVars: []string{"SVCAT_S3_INSECURE"},
			},
			&cli.StringFlag{
				Name:    "events-dir",
				Usage:   "Directory for operation event logs (disabled when empty)",
				EnvVars: []string{"SVCAT_EVENTS_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SVCAT_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List catalog records",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only records in this category (case-insensitive)",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Only records whose name or description contains this text",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Show a single record",
				ArgsUsage: "NAME",
				Action:    getCommand,
			},
			{
				Name:   "create",
				Usage:  "Create a record",
				Action: createCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true, Usage: "Record name (unique)"},
					&cli.StringFlag{Name: "category", Required: true, Usage: "Record category"},
					&cli.StringFlag{Name: "description", Required: true, Usage: "Record description"},
				},
			},
			{
				Name:      "update",
				Usage:     "Update category and/or description of a record",
				ArgsUsage: "NAME",
				Action:    updateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "New category"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a record",
				ArgsUsage: "NAME",
				Action:    deleteCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "svcat:", err)
		os.Exit(1)
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// openStore builds the configured backend, wrapped with metrics and
// event logging when an events directory is set.
func openStore(c *cli.Context) (catalog.Store, error) {
	seed, err := catalog.DecodeDocument(seedData)
	if err != nil {
		return nil, fmt.Errorf("bundled seed dataset: %w", err)
	}

	cfg := backend.Config{Type: c.String("backend")}
	cfg.Local.Path = c.String("data-path")
	cfg.Local.Seed = seed
	cfg.Remote.Endpoint = c.String("endpoint")
	cfg.Remote.Access = c.String("access")
	cfg.Remote.Secret = c.String("secret")
	cfg.Remote.Bucket = c.String("bucket")
	cfg.Remote.Object = c.String("object")
	cfg.Remote.Region = c.String("region")
	cfg.Remote.Insecure = c.Bool("insecure")
	cfg.Remote.Seed = seed

	store, err := backend.Open(c.Context, cfg)
	if err != nil {
		return nil, err
	}
	if dir := c.String("events-dir"); dir != "" {
		store = instrument.NewStore(store, prometheus.NewRegistry(), oplog.New(dir))
	}
	return store, nil
}

// nameArg returns the single NAME argument of a command.
func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one NAME argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

func listCommand(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	recs, err := store.List(c.Context, catalog.Filter{
		Category: c.String("category"),
		Search:   c.String("search"),
	})
	if err != nil {
		return describeErr(err)
	}
	for _, r := range recs {
		fmt.Printf("%s\t%s\t%s\n", r.Name, r.Category, r.Description)
	}
	slog.Debug("listed records", "count", len(recs))
	return nil
}

func getCommand(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}
	rec, err := store.Get(c.Context, name)
	if err != nil {
		return describeErr(err)
	}
	fmt.Printf("name:        %s\ncategory:    %s\ndescription: %s\n",
		rec.Name, rec.Category, rec.Description)
	return nil
}

func createCommand(c *cli.Context) error {
	store, err := openStore(c)
	if err != nil {
		return err
	}
	rec, err := store.Create(c.Context, catalog.Record{
		Name:        c.String("name"),
		Category:    c.String("category"),
		Description: c.String("description"),
	})
	if err != nil {
		return describeErr(err)
	}
	fmt.Printf("created %q\n", rec.Name)
	return nil
}

func updateCommand(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	var upd catalog.Update
	if c.IsSet("category") {
		v := c.String("category")
		upd.Category = &v
	}
	if c.IsSet("description") {
		v := c.String("description")
		upd.Description = &v
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}
	rec, err := store.Update(c.Context, name, upd)
	if err != nil {
		return describeErr(err)
	}
	fmt.Printf("updated %q\n", rec.Name)
	return nil
}

func deleteCommand(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	store, err := openStore(c)
	if err != nil {
		return err
	}
	if err := store.Delete(c.Context, name); err != nil {
		return describeErr(err)
	}
	fmt.Printf("deleted %q\n", name)
	return nil
}

// describeErr turns typed storage errors into short user-facing
// messages; anything unexpected passes through unchanged.
func describeErr(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return cli.Exit(err.Error(), 2)
	case errors.Is(err, catalog.ErrDuplicateName):
		return cli.Exit(err.Error(), 3)
	case errors.Is(err, catalog.ErrInvalidRecord):
		return cli.Exit(err.Error(), 4)
	}
	return err
}
