package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/container"

	log "github.com/sirupsen/logrus"
)

const usage = `usage: booking <command> [flags]

commands:
  login      -email -password [-profile]   store tokens for a profile
  logout                                   forget the stored tokens
  catalog                                  print categories, services and providers
  book       -category -service -provider -date -start [-end] [-notes]
  bookings                                 list your bookings
  booking    -id                           show one booking
  inbox                                    list bookings assigned to you as provider
  accept     -id                           accept a requested booking
  reject     -id                           reject a requested booking
  dashboard                                catalog and booking counts
  journal    [-limit]                      bookings submitted from this console
  events     [-consumer]                   tail booking events (requires redis)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	flags := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	run := cmd(flags, app)
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		log.Debugf("%s failed: %v", os.Args[1], err)
		app.Close()
		os.Exit(1)
	}
}
