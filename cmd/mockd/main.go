// Command mockd starts the programmable HTTP mock/proxy server. Flag and
// environment parsing are kept here deliberately thin; everything else
// lives in the library packages, grounded on the teacher's separation
// between cmd/main.go (process bootstrap) and the caddy package (engine).
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KimMachineGun/automemlimit/memlimit"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/admin"
	"github.com/mockbridge/mockd/dispatch"
	"github.com/mockbridge/mockd/forwarder"
	"github.com/mockbridge/mockd/logging"
	"github.com/mockbridge/mockd/openapi"
	"github.com/mockbridge/mockd/proxyconfig"
	"github.com/mockbridge/mockd/requestlog"
	"github.com/mockbridge/mockd/routetable"
)

// Exit codes, per SPEC_FULL.md §6.
const (
	exitOK             = 0
	exitFailedStartup  = 1
	exitFailedShutdown = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.Log()

	undo, err := maxprocs.Set(maxprocs.Logger(log.Sugar().Infof))
	defer undo()
	if err != nil {
		log.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	); err != nil {
		log.Warn("failed to set GOMEMLIMIT", zap.Error(err))
	}

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return exitFailedStartup
	}

	table := routetable.New()
	proxy, err := proxyconfig.New(cfg.defaultProxyURL)
	if err != nil {
		log.Error("invalid default proxy url", zap.Error(err))
		return exitFailedStartup
	}
	reqLog := requestlog.New(mockd.MaxLogEntries)

	if cfg.openAPIFile != "" {
		if err := loadOpenAPIFile(cfg.openAPIFile, table); err != nil {
			log.Error("failed to load startup openapi spec", zap.String("file", cfg.openAPIFile), zap.Error(err))
			return exitFailedStartup
		}
		log.Info("loaded startup openapi spec", zap.String("file", cfg.openAPIFile), zap.Int("routes", table.Len()))
	}

	fwd := forwarder.New()
	adminSrv := admin.New(table, proxy, reqLog)
	dispatcher := dispatch.New(table, proxy, fwd, reqLog)
	engine := mockd.NewEngine(adminSrv.Router(), dispatcher)

	addr := net.JoinHostPort(cfg.host, fmt.Sprintf("%d", cfg.port))
	httpServer := &http.Server{Addr: addr, Handler: engine}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("mockd listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return httpServer.Shutdown(context.Background())
	})

	if err := group.Wait(); err != nil {
		log.Error("mockd exited with error", zap.Error(err))
		return exitFailedShutdown
	}
	return exitOK
}

type config struct {
	host            string
	port            int
	defaultProxyURL string
	openAPIFile     string
}

// parseConfig applies spec.md §6's precedence: CLI flags win over
// environment variables, which win over the built-in defaults.
func parseConfig(args []string, getenv func(string) string) (config, error) {
	fs := pflag.NewFlagSet("mockd", pflag.ContinueOnError)
	host := fs.String("host", "0.0.0.0", "address to listen on")
	port := fs.Int("port", 8090, "port to listen on")
	defaultProxyURL := fs.String("default-proxy-url", "", "default upstream to proxy unmatched requests to")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{host: *host, port: *port, defaultProxyURL: *defaultProxyURL}
	if cfg.defaultProxyURL == "" {
		cfg.defaultProxyURL = getenv("DEFAULT_PROXY_URL")
	}
	cfg.openAPIFile = getenv("OPENAPI_FILE")
	return cfg, nil
}

func loadOpenAPIFile(path string, table *routetable.Table) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	routes, err := openapi.Import(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return table.BulkReplace(routes)
}
