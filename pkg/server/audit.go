package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/vitalvas/radkit/pkg/packet"
)

// AuditRecord is one JSON line written by AuditMiddleware.
type AuditRecord struct {
	Timestamp string       `json:"timestamp"`
	Listener  string       `json:"listener"`
	Remote    string       `json:"remote"`
	Local     string       `json:"local,omitempty"`
	Duration  string       `json:"duration"`
	Request   AuditPacket  `json:"request"`
	Response  *AuditPacket `json:"response,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type AuditPacket struct {
	Code       string              `json:"code"`
	Identifier uint8               `json:"id"`
	Attributes map[string][]string `json:"attributes"`
}

// AuditMiddleware writes a JSON line per request with the request and
// response attributes. Password attributes are masked.
func AuditMiddleware(w io.Writer) Middleware {
	var mu sync.Mutex
	enc := json.NewEncoder(w)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request) (*packet.Packet, error) {
			start := time.Now()
			resp, err := next.ServeRADIUS(ctx, r)

			record := AuditRecord{
				Timestamp: start.UTC().Format(time.RFC3339),
				Listener:  r.Listener,
				Remote:    r.Client.String(),
				Duration:  time.Since(start).String(),
				Request:   auditPacket(r.Packet),
			}
			if r.LocalAddr != nil {
				record.Local = r.LocalAddr.String()
			}
			if resp != nil {
				p := auditPacket(resp)
				record.Response = &p
			}
			if err != nil {
				record.Error = err.Error()
			}

			mu.Lock()
			enc.Encode(record)
			mu.Unlock()

			return resp, err
		})
	}
}

func auditPacket(p *packet.Packet) AuditPacket {
	attrs := make(map[string][]string)
	for _, a := range p.FlatAttributes() {
		value := a.ValueString()
		switch a.Name() {
		case "User-Password", "CHAP-Password", "Tunnel-Password", "Message-Authenticator":
			value = "***"
		}
		attrs[a.Name()] = append(attrs[a.Name()], value)
	}

	return AuditPacket{
		Code:       p.Code().String(),
		Identifier: p.Identifier(),
		Attributes: attrs,
	}
}
