package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/event-seat-booking/internal/config"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/database"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/logger"
	"github.com/Shivanand-hulikatti/event-seat-booking/internal/repository"
)

const connectTimeout = 10 * time.Second

func cliLogger(cfg *config.Config, verbose bool) *zap.Logger {
	if verbose {
		return logger.New(cfg.Env)
	}
	return zap.NewNop()
}

func connect(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return database.NewPool(ctx, cfg, log)
}

func runMigrate(ctx context.Context, args []string, out *printer) error {
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	verbose := flagSet.BoolP("verbose", "v", false, "log connection and migration details")
	retries := flagSet.Int("retries", 1, "connection attempts before giving up")
	if done, err := parseFlags(flagSet, args, out); done || err != nil {
		return err
	}

	cfg := config.Load()
	cfg.Database.ConnectRetries = *retries
	log := cliLogger(cfg, *verbose)

	out.Section("Applying schema to %s", cfg.Database.Name)
	pool, err := connect(ctx, cfg.Database, log)
	if err != nil {
		out.Fail("connect: %v", err)
		return err
	}
	defer pool.Close()

	if err := database.Migrate(pool, log); err != nil {
		out.Fail("%v", err)
		return err
	}
	out.OK("schema is up to date")
	return nil
}

func runCheckDB(ctx context.Context, args []string, out *printer) error {
	flagSet := pflag.NewFlagSet("check-db", pflag.ContinueOnError)
	users := flagSet.StringSlice("users", nil, "users to try in order (default: current OS user, postgres)")
	dbName := flagSet.String("database", "postgres", "database to connect to")
	writeEnv := flagSet.Bool("write-env", false, "record the working user in the env file")
	envFile := flagSet.String("env-file", ".env", "env file updated by --write-env")
	if done, err := parseFlags(flagSet, args, out); done || err != nil {
		return err
	}

	candidates := *users
	if len(candidates) == 0 {
		candidates = defaultDBUsers()
	}

	cfg := config.Load().Database
	configuredUser := cfg.User
	cfg.URL = ""
	cfg.Name = *dbName
	cfg.ConnectRetries = 1
	cfg.MinConns = 0

	out.Section("Probing PostgreSQL at %s:%s", cfg.Host, cfg.Port)
	for _, u := range candidates {
		try := cfg
		try.User = u
		if u != configuredUser {
			try.Password = ""
		}

		pool, err := connect(ctx, try, zap.NewNop())
		if err != nil {
			out.Fail("%s: %v", u, err)
			continue
		}
		pool.Close()
		out.OK("%s can connect", u)

		if *writeEnv {
			if err := updateEnvFile(*envFile, map[string]string{"DB_USER": u}); err != nil {
				return err
			}
			out.OK("wrote DB_USER=%s to %s", u, *envFile)
		} else {
			out.Info("set DB_USER=%s (or rerun with --write-env)", u)
		}
		return nil
	}

	out.Warn("no candidate user could connect; check that PostgreSQL is running")
	return fmt.Errorf("could not connect as any of %v", candidates)
}

func defaultDBUsers() []string {
	users := []string{}
	if u, err := user.Current(); err == nil && u.Username != "postgres" {
		users = append(users, u.Username)
	}
	return append(users, "postgres")
}

// updateEnvFile merges values into an existing env file, creating it if absent.
func updateEnvFile(path string, values map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		env = map[string]string{}
	}
	for k, v := range values {
		env[k] = v
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runSetup(ctx context.Context, args []string, out *printer) error {
	flagSet := pflag.NewFlagSet("setup", pflag.ContinueOnError)
	name := flagSet.String("name", "Test Concert", "name of the test event to seed")
	seats := flagSet.Int("seats", 10, "seat capacity of the seeded event")
	recent := flagSet.Int("recent", 5, "number of recent bookings to show")
	verbose := flagSet.BoolP("verbose", "v", false, "log connection details")
	if done, err := parseFlags(flagSet, args, out); done || err != nil {
		return err
	}
	if *seats <= 0 {
		return fmt.Errorf("--seats must be positive, got %d", *seats)
	}

	cfg := config.Load()
	cfg.Database.ConnectRetries = 1

	out.Section("Connectivity")
	pool, err := connect(ctx, cfg.Database, cliLogger(cfg, *verbose))
	if err != nil {
		out.Fail("cannot connect to %s: %v", cfg.Database.Name, err)
		out.Info("try: bookingctl check-db")
		return err
	}
	defer pool.Close()
	store := repository.NewPostgresStore(pool)

	now, err := store.ServerTime(ctx)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	out.OK("connected to %s (server time %s)", cfg.Database.Name, now)

	out.Section("Schema")
	tables, err := store.ExistingTables(ctx)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	present := map[string]bool{}
	for _, t := range tables {
		present[t] = true
	}
	var missing []string
	for _, t := range []string{"events", "bookings"} {
		if present[t] {
			out.OK("table %s exists", t)
		} else {
			out.Fail("table %s is missing", t)
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		out.Info("run: bookingctl migrate")
		return fmt.Errorf("missing tables: %v", missing)
	}

	out.Section("Test event")
	ev, err := store.FindEventByName(ctx, *name)
	switch {
	case err == nil:
		out.OK("event %q already exists (id %d, %d seats)", ev.Name, ev.ID, ev.TotalSeats)
	case errors.Is(err, repository.ErrNotFound):
		ev, err = store.CreateEvent(ctx, *name, *seats)
		if err != nil {
			out.Fail("%v", err)
			return err
		}
		out.OK("created event %q (id %d, %d seats)", ev.Name, ev.ID, ev.TotalSeats)
	default:
		out.Fail("%v", err)
		return err
	}

	out.Section("Statistics")
	st, err := store.Stats(ctx)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	out.Info("events:   %d", st.Events)
	out.Info("bookings: %d", st.Bookings)

	bookings, err := store.RecentBookings(ctx, *recent)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	if len(bookings) == 0 {
		out.Info("no bookings yet")
	}
	for _, b := range bookings {
		out.Info("#%d %s -> %s (%s)", b.ID, b.UserID, b.EventName, b.CreatedAt.Format(time.RFC3339))
	}

	out.Section("Ready")
	out.Info("start the server and run: bookingctl smoke --event %d", ev.ID)
	return nil
}
