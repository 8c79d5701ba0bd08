package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vitalvas/radkit/pkg/client"
	"github.com/vitalvas/radkit/pkg/dictionaries"
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
)

var requestTypes = map[string]struct {
	code packet.Code
	port string
}{
	"access":     {packet.CodeAccessRequest, "1812"},
	"accounting": {packet.CodeAccountingRequest, "1813"},
	"status":     {packet.CodeStatusServer, "1812"},
	"coa":        {packet.CodeCoARequest, "3799"},
	"disconnect": {packet.CodeDisconnectRequest, "3799"},
}

func parseAttributes(r io.Reader) (map[string]string, error) {
	attributes := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid attribute format: %q (expected 'Name = value')", line)
		}

		name := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"`)
		attributes[name] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return attributes, nil
}

// accepted reports whether the response is the positive answer to code.
func accepted(code packet.Code) bool {
	switch code {
	case packet.CodeAccessAccept, packet.CodeAccountingResponse, packet.CodeCoAACK, packet.CodeDisconnectACK:
		return true
	}
	return false
}

func printResponse(w io.Writer, resp *packet.Packet) {
	fmt.Fprintf(w, "Received %s, ID %d\n", resp.Code(), resp.Identifier())
	for _, a := range resp.FlatAttributes() {
		fmt.Fprintf(w, "\t%s = %s\n", a.Name(), a.ValueString())
	}
}

func main() {
	server := flag.String("server", "", "RADIUS server address (host[:port])")
	secret := flag.String("secret", "testing123", "Shared secret")
	reqType := flag.String("type", "access", "Request type: access, accounting, status, coa or disconnect")
	attempts := flag.Int("attempts", client.DefaultAttempts, "Transmissions before giving up")
	timeoutMs := flag.Int("timeout-ms", int(client.DefaultTimeout/time.Millisecond), "Wait for a response after each transmission, in milliseconds")
	debug := flag.Bool("debug", false, "Log every packet sent and received")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -server <host[:port]> [-type <type>] [-secret <secret>]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nAttributes are read from stdin, one per line in format:\n")
		fmt.Fprintf(os.Stderr, "  Attribute-Name = value\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  printf 'User-Name = bob\\nUser-Password = hello\\n' | %s -server 127.0.0.1\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -server 10.0.0.1 -type status < /dev/null\n", os.Args[0])
	}

	flag.Parse()

	if *server == "" {
		fmt.Fprintf(os.Stderr, "Error: -server is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	rt, ok := requestTypes[*reqType]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid type %q\n\n", *reqType)
		flag.Usage()
		os.Exit(1)
	}

	if !strings.Contains(*server, ":") {
		*server += ":" + rt.port
	}

	level := "warn"
	if *debug {
		level = "debug"
	}
	logger := log.NewLoggerWithLevel(level)

	dict, err := dictionaries.NewDefault()
	if err != nil {
		logger.Errorf("failed to load dictionary: %v", err)
		os.Exit(1)
	}

	attributes, err := parseAttributes(os.Stdin)
	if err != nil {
		logger.Errorf("failed to parse attributes: %v", err)
		os.Exit(1)
	}
	if len(attributes) == 0 && rt.code != packet.CodeStatusServer {
		logger.Error("no attributes provided")
		os.Exit(1)
	}

	ep, err := client.NewEndpoint(*server, *secret)
	if err != nil {
		logger.Errorf("invalid server: %v", err)
		os.Exit(1)
	}

	timeout := time.Duration(*timeoutMs) * time.Millisecond
	cl, err := client.New(dict,
		client.WithLogger(logger),
		client.WithTimeoutHandler(client.FixedTimeoutHandler{Attempts: *attempts, Timeout: timeout}),
		client.WithEventListener(client.LoggingEventListener{Logger: logger}),
	)
	if err != nil {
		logger.Errorf("failed to create client: %v", err)
		os.Exit(1)
	}
	defer cl.Close()

	req, err := cl.BuildRequest(rt.code, attributes)
	if err != nil {
		logger.Errorf("failed to build request: %v", err)
		os.Exit(1)
	}

	// generous upper bound, the client gives up on its own after the last attempt
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*attempts+1)*timeout)
	defer cancel()

	resp, err := cl.Exchange(ctx, req, ep)
	if err != nil {
		logger.Errorf("request failed: %v", err)
		cl.Close()
		os.Exit(1)
	}

	printResponse(os.Stdout, resp)

	if !accepted(resp.Code()) {
		cl.Close()
		os.Exit(1)
	}
}
