// Command hmsctl drives the hospital backend through the gateway from a shell.
// The session is kept in a file, or in Redis when REDIS_ADDR is set.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/client"
	"github.com/BruksfildServices01/hms-gateway/internal/config"
	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/logger"
	"github.com/BruksfildServices01/hms-gateway/internal/session"
)

const usage = `usage: hmsctl [flags] <command> [args]

commands:
  login               -email -password
  signup              -name -email -password -age -gender -contact
  logout
  whoami
  doctors
  slots               -doctor ID -date YYYY-MM-DD [-local]
  book                -doctor ID -at "YYYY-MM-DD HH:mm" -reason TEXT
  appointments        [-date YYYY-MM-DD]
  history
  accept|reject|accept-keep-time|visited|extend|accept-reschedule|reject-reschedule
                      -id ID [-date YYYY-MM-DD] [-minutes N]
  prescriptions
  stats
  audit               [-action A] [-user U] [-limit N]

flags:
`

type app struct {
	cfg    *config.Config
	client *client.Client
	log    *zap.Logger
	out    io.Writer
	// tz is the zone dates are read in.
	tz string
}

func main() {
	fs := flag.NewFlagSet("hmsctl", flag.ExitOnError)
	gatewayURL := fs.String("gateway", "", "gateway base URL (default http://localhost:$SERVER_PORT)")
	sessionPath := fs.String("session", "", "session file (default under the user config dir)")
	profile := fs.String("profile", "default", "session name when stored in Redis")
	tz := fs.String("tz", os.Getenv("HMS_TIMEZONE"), "zone for dates and wall-clock times (default UTC)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(false, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	persister, closeFn, err := openPersister(cfg, *sessionPath, *profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeFn()

	store := session.New(persister, log.Named("session"))
	store.Init(ctx)

	base := *gatewayURL
	if base == "" {
		base = "http://localhost:" + cfg.ServerPort
	}
	c, err := client.New(client.Options{BaseURL: base, Timeout: cfg.BackendTimeout}, store, log.Named("client"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{cfg: cfg, client: c, log: log, out: os.Stdout, tz: *tz}
	if err := a.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		report(err)
		os.Exit(1)
	}
}

func openPersister(cfg *config.Config, path, profile string) (session.Persister, func(), error) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return session.NewRedis(rdb, profile), func() { rdb.Close() }, nil
	}

	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "hmsctl", "session.json")
	}
	return session.NewFile(path), func() {}, nil
}

func report(err error) {
	var apiErr *httperr.APIError
	var be httperr.BusinessError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(os.Stderr, "error %d: %s\n", apiErr.Status, apiErr.Message)
	case errors.As(err, &be):
		fmt.Fprintf(os.Stderr, "refused (%s): %s\n", be.Kind, be.Error())
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
