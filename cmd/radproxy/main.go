package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/config"
	"github.com/vitalvas/radkit/pkg/dictionaries"
	"github.com/vitalvas/radkit/pkg/dictionary"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/server"
	"github.com/vitalvas/radkit/pkg/timer"
)

// proxy owns everything built from one configuration.
type proxy struct {
	server *server.Server
	client *client.Client
	dedup  *server.DedupHandler
	wheel  *timer.Wheel
	audit  io.Closer
}

func (p *proxy) Close() error {
	err := errors.Join(p.server.Close(), p.client.Close())
	p.dedup.Close()
	p.wheel.Stop()
	if p.audit != nil {
		err = errors.Join(err, p.audit.Close())
	}
	return err
}

// openAudit returns the audit destination: "-" is stdout, "" disables auditing.
func openAudit(path string) (io.Writer, io.Closer, error) {
	switch path {
	case "":
		return nil, nil, nil
	case "-":
		return os.Stdout, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return f, f, nil
}

func loadDictionary(ctx context.Context, cfg *config.Config, logger log.Logger) (*dictionary.Dictionary, error) {
	dict, err := dictionaries.NewDefault(dictionary.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load default dictionary: %w", err)
	}
	if len(cfg.Dictionary.Files) > 0 {
		src := &dictionary.FileSource{Paths: cfg.Dictionary.Files}
		if err := src.Load(ctx, dict); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

func timeoutHandler(cfg config.UpstreamConfig) client.TimeoutHandler {
	if cfg.Backoff {
		return client.BackoffTimeoutHandler{
			Attempts: cfg.Attempts,
			Initial:  cfg.Timeout(),
			Max:      cfg.BackoffMax(),
		}
	}
	return client.FixedTimeoutHandler{Attempts: cfg.Attempts, Timeout: cfg.Timeout()}
}

func newProxy(ctx context.Context, cfg *config.Config, logger log.Logger) (*proxy, error) {
	if len(cfg.Listeners) == 0 {
		return nil, errors.New("no listeners configured")
	}

	dict, err := loadDictionary(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	wheel := timer.NewWheel(timer.DefaultTick, timer.DefaultSlots, timer.WithLogger(logger))

	c, err := client.New(dict,
		client.WithBindAddr(cfg.Client.Bind),
		client.WithLogger(logger.WithField("component", "client")),
		client.WithWheel(wheel),
		client.WithTimeoutHandler(timeoutHandler(cfg.Client)),
		client.WithBlacklist(client.NewBlacklist(cfg.Client.BlacklistThreshold, cfg.Client.BlacklistTTL())),
		client.WithMessageAuthenticator(cfg.Client.MessageAuthenticator),
	)
	if err != nil {
		wheel.Stop()
		return nil, err
	}

	auditWriter, auditCloser, err := openAudit(cfg.AuditLog)
	if err != nil {
		c.Close()
		wheel.Stop()
		return nil, err
	}

	fail := func(err error) (*proxy, error) {
		c.Close()
		wheel.Stop()
		if auditCloser != nil {
			auditCloser.Close()
		}
		return nil, err
	}

	secrets := server.NewStaticSecrets()
	for _, cl := range cfg.Clients {
		if err := secrets.Add(cl.Name, cl.Network, cl.Secret); err != nil {
			return fail(err)
		}
	}

	resolver := server.NewRealmResolver(cfg.DefaultRealm)
	for _, r := range cfg.Realms {
		realm := server.Realm{Name: r.Name}
		for _, o := range r.Origins {
			ep, err := client.NewEndpoint(o.Addr, o.Secret)
			if err != nil {
				return fail(fmt.Errorf("realm %s: %w", r.Name, err))
			}
			realm.Origins = append(realm.Origins, ep)
		}
		resolver.Add(realm)
	}

	serverLogger := logger.WithField("component", "server")

	dedup := server.NewDedupHandler(
		server.NewProxyHandler(c, resolver, server.WithProxyLogger(serverLogger)),
		server.WithDedupTTL(cfg.Cache.TTL()),
		server.WithDedupWheel(wheel),
		server.WithDedupLogger(serverLogger),
	)
	middlewares := []server.Middleware{
		server.RecoveryMiddleware(serverLogger),
		server.LoggingMiddleware(serverLogger),
	}
	if auditWriter != nil {
		middlewares = append(middlewares, server.AuditMiddleware(auditWriter))
	}
	handler := server.Chain(dedup, middlewares...)

	srv, err := server.New(dict, secrets, server.WithLogger(serverLogger))
	if err != nil {
		return fail(err)
	}
	for _, l := range cfg.Listeners {
		if err := srv.Listen(l.Name, l.Addr, handler); err != nil {
			srv.Close()
			return fail(err)
		}
	}

	return &proxy{server: srv, client: c, dedup: dedup, wheel: wheel, audit: auditCloser}, nil
}

func main() {
	configPath := flag.String("config", "radproxy.yaml", "Path to the YAML or TOML configuration file")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewLoggerWithLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newProxy(ctx, cfg, logger)
	if err != nil {
		logger.Errorf("failed to start proxy: %v", err)
		os.Exit(1)
	}

	logger.Infof("radproxy started with %d listeners and %d realms", len(cfg.Listeners), len(cfg.Realms))

	serveErr := p.server.Serve(ctx)
	if err := p.Close(); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
	if serveErr != nil {
		logger.Errorf("server stopped: %v", serveErr)
		os.Exit(1)
	}
}
