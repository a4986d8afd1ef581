// bookingctl is the operator CLI for the seat booking service.
//
// Database commands (migrate, check-db, setup) read the same environment and
// .env file as the server. HTTP commands (smoke, load) talk to a running
// server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, out *printer) error
}

func commands() []command {
	return []command{
		{name: "migrate", summary: "apply the database schema", run: runMigrate},
		{name: "check-db", summary: "find a PostgreSQL user that can connect", run: runCheckDB},
		{name: "setup", summary: "verify the schema and seed a test event", run: runSetup},
		{name: "smoke", summary: "run an HTTP smoke test against a running server", run: runSmoke},
		{name: "load", summary: "fire concurrent reservations at one event", run: runLoad},
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		printHelp(stdout)
		return nil
	}
	switch args[0] {
	case "-h", "--help", "help":
		printHelp(stdout)
		return nil
	}

	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(ctx, args[1:], newPrinter(stdout))
		}
	}
	return fmt.Errorf("unknown command %q (run bookingctl --help)", args[0])
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "bookingctl: operator tools for the event seat booking service\n\n")
	fmt.Fprintf(w, "Usage:\n  bookingctl <command> [flags]\n\nCommands:\n")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'bookingctl <command> --help' for command flags.\n")
}

// parseFlags parses args into fs. It reports done=true when --help was
// requested and usage has already been printed.
func parseFlags(fs *pflag.FlagSet, args []string, out *printer) (done bool, err error) {
	fs.SetOutput(out.w)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return false, nil
}
