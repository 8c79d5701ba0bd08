package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitalvas/radkit/pkg/attribute"
	"github.com/vitalvas/radkit/pkg/dictionaries"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
	"github.com/vitalvas/radkit/pkg/server"
)

type simpleHandler struct {
	password string
	logger   log.Logger
}

func (h *simpleHandler) ServeRADIUS(_ context.Context, req *server.Request) (*packet.Packet, error) {
	logger := h.logger.WithField("client", req.Client.String())

	for _, a := range req.Packet.FlatAttributes() {
		logger.Debugf("%s = %s", a.Name(), a.ValueString())
	}

	switch req.Code() {
	case packet.CodeAccessRequest:
		ok, err := req.Packet.CheckPassword(h.password)
		if err != nil {
			logger.Warnf("cannot check password: %v", err)
		}
		if !ok {
			return req.Reply(packet.CodeAccessReject)
		}

		attrs, err := replyAttributes(req.Packet, map[string]string{
			"Reply-Message":     "Hello, RADIUS client!",
			"Framed-IP-Address": "192.0.2.11",
			"Framed-Pool":       "dhcp-pool-cgnat",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set attributes: %w", err)
		}
		return req.Reply(packet.CodeAccessAccept, attrs...)

	case packet.CodeAccountingRequest:
		if user := req.GetAttribute("User-Name"); len(user) > 0 {
			logger.Infof("accounting for %s", user[0].ValueString())
		}
		return req.Reply(packet.CodeAccountingResponse)
	}

	return req.DefaultReply()
}

func replyAttributes(req *packet.Packet, values map[string]string) ([]*attribute.Attribute, error) {
	attrs := make([]*attribute.Attribute, 0, len(values))
	for _, name := range []string{"Reply-Message", "Framed-IP-Address", "Framed-Pool"} {
		value, ok := values[name]
		if !ok {
			continue
		}
		a, err := attribute.FromName(req.Dictionary(), name, value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func main() {
	addr := flag.String("addr", ":1812", "Listen address")
	secret := flag.String("secret", "testing123", "Shared secret for every client")
	password := flag.String("password", "testing123", "Password accepted for every user")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger := log.NewLoggerWithLevel(*level)

	dict, err := dictionaries.NewDefault()
	if err != nil {
		logger.Errorf("failed to load dictionary: %v", err)
		os.Exit(1)
	}

	secrets := server.NewStaticSecrets()
	if err := secrets.Add("any-v4", "0.0.0.0/0", *secret); err != nil {
		logger.Errorf("invalid secret: %v", err)
		os.Exit(1)
	}
	if err := secrets.Add("any-v6", "::/0", *secret); err != nil {
		logger.Errorf("invalid secret: %v", err)
		os.Exit(1)
	}

	srv, err := server.New(dict, secrets, server.WithLogger(logger))
	if err != nil {
		logger.Errorf("failed to create server: %v", err)
		os.Exit(1)
	}

	handler := server.Chain(&simpleHandler{password: *password, logger: logger},
		server.RecoveryMiddleware(logger),
		server.LoggingMiddleware(logger),
		server.Dedup(server.WithDedupLogger(logger)),
	)
	if err := srv.Listen("radius", *addr, handler); err != nil {
		logger.Errorf("failed to listen: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
