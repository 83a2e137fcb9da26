// Command portalctl drives the portal session from a terminal. Every
// invocation restores the persisted session first, so a login survives
// until the next logout.
//
//	portalctl [--slot-dir DIR] login --email E --password P
//	portalctl [--slot-dir DIR] logout | whoami | landing
//	portalctl [--slot-dir DIR] authorize --role doctor,nurse
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/thynkpro/portal/internal/app"
	"github.com/thynkpro/portal/internal/core/domain"
	"github.com/thynkpro/portal/internal/core/service"
	"github.com/thynkpro/portal/internal/infrastructure/queue"
	"github.com/thynkpro/portal/internal/pkg/config"
	"github.com/thynkpro/portal/pkg/logger"
)

const usage = `usage: portalctl [--slot-dir DIR] [--log-level LEVEL] <command> [flags]

commands:
  login      --email E --password P   sign in and persist the session
  logout                              clear the session
  whoami                              print the current identity
  landing                             print the landing route
  authorize  --role R[,R]             evaluate the guard for a view
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "portalctl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("portalctl", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	slotDir := global.String("slot-dir", "", "directory holding the persisted session (forces the file slot)")
	logLevel := global.String("log-level", "warn", "log level written to stderr")
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	if err := global.Parse(args); err != nil {
		return errUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return errUsage
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if *slotDir != "" {
		cfg.Session.SlotBackend = config.SlotFile
		cfg.Session.SlotDir = *slotDir
	}
	// Interactive use should not wait on the simulated provider.
	cfg.Session.LoginDelay = 0

	log := logger.New(logger.Options{Level: *logLevel, Pretty: true, Output: stderr, Service: "portalctl"})

	components, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer components.Close(context.Background())

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(1, components.Events, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	store := service.NewSessionStore(components.Provider, components.Slot, components.Codec,
		service.SessionOptions{Events: dispatcher}, log)
	store.Restore(ctx)
	guard := service.NewRouteGuard(store)

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "login":
		return login(ctx, store, rest, stdout, stderr)
	case "logout":
		if err := store.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "signed out")
		return nil
	case "whoami":
		ident := store.CurrentIdentity()
		if ident == nil {
			fmt.Fprintln(stdout, "not signed in")
			return nil
		}
		fmt.Fprintf(stdout, "%s <%s> role=%s id=%s\n", ident.Name, ident.Email, ident.Role, ident.ID)
		return nil
	case "landing":
		target, err := guard.Resolve()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, target)
		return nil
	case "authorize":
		return authorize(guard, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return errUsage
	}
}

func login(ctx context.Context, store *service.SessionStore, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ok, err := store.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("invalid email or password")
	}
	ident := store.CurrentIdentity()
	fmt.Fprintf(stdout, "signed in as %s (%s)\n", ident.Email, ident.Role)
	return nil
}

func authorize(guard *service.RouteGuard, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("authorize", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	roles := fs.StringSlice("role", nil, "roles allowed on the view; empty means any signed-in user")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	required := make([]domain.Role, 0, len(*roles))
	for _, r := range *roles {
		role, err := domain.ParseRole(strings.TrimSpace(r))
		if err != nil {
			return err
		}
		required = append(required, role)
	}

	check := service.NewCheck(guard, domain.NewRoleSet(required...))
	state := check.Evaluate()
	if target := check.Decision().Target(); target != "" {
		fmt.Fprintf(stdout, "%s %s\n", state, target)
		return nil
	}
	fmt.Fprintln(stdout, state)
	return nil
}
