// Command migrate manages the SQL schema behind the postgres and sqlite stores.
//
//	migrate [-timeout 2m] up            apply pending SQL migrations
//	migrate [-timeout 2m] auto          sync tables from the gorm models
//	migrate [-timeout 2m] status        show schema policy and pending migrations
//	migrate [-timeout 2m] down VERSION  revert one applied migration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"socialapp/internal/config"
	"socialapp/internal/database"
)

type command struct {
	name    string
	version int
}

var errUsage = errors.New("expected one of: up, auto, status, down VERSION")

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "deadline for the whole operation")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: migrate [flags] up|auto|status|down VERSION\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		flag.Usage()
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cmd, os.Stdout); err != nil {
		log.Fatalf("migrate %s: %v", cmd.name, err)
	}
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}
	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}

	switch cmd.name {
	case "up", "auto", "status":
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.name)
		}
	case "down":
		if len(args) != 2 {
			return command{}, errors.New("down needs exactly one migration VERSION")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			return command{}, fmt.Errorf("VERSION must be a positive number, got %q", args[1])
		}
		cmd.version = v
	default:
		return command{}, fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	return cmd, nil
}

func run(ctx context.Context, cmd command, out io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StoreDriver == config.StoreMongo {
		return errors.New("STORE_DRIVER=mongo keeps no SQL schema; the server creates its indexes on startup")
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() { _ = database.Close(db) }()

	switch cmd.name {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s schema is up to date\n", cfg.StoreDriver)
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s tables synced from models\n", cfg.StoreDriver)
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return err
		}
		writeStatus(out, cfg.StoreDriver, status)
	case "down":
		if err := database.RollbackMigration(ctx, db, cmd.version); err != nil {
			return err
		}
		fmt.Fprintf(out, "reverted migration %06d on %s\n", cmd.version, cfg.StoreDriver)
	}
	return nil
}

func writeStatus(out io.Writer, driver string, status *database.SchemaStatus) {
	fmt.Fprintf(out, "store:   %s (%s)\n", driver, status.Environment)
	fmt.Fprintf(out, "policy:  %s (sql migrations: %s, automigrate: %s)\n",
		status.Mode, onOff(status.WillRunSQL), onOff(status.WillRunAutoMigrate))

	applied := make([]string, 0, len(status.AppliedVersions))
	for _, v := range status.AppliedVersions {
		applied = append(applied, fmt.Sprintf("%06d", v))
	}
	if len(applied) == 0 {
		applied = append(applied, "none")
	}
	fmt.Fprintf(out, "applied: %s\n", strings.Join(applied, " "))

	if len(status.PendingMigrations) == 0 {
		fmt.Fprintln(out, "pending: none")
		return
	}
	fmt.Fprintf(out, "pending: %d\n", len(status.PendingMigrations))
	for i := range status.PendingMigrations {
		fmt.Fprintf(out, "  %s\n", status.PendingMigrations[i].String())
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
