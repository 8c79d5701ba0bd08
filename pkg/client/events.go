package client

import (
	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
)

// EventListener observes the request lifecycle. Methods must not block.
type EventListener interface {
	// PreSend is called before every transmission, attempt starts at 1.
	PreSend(req *packet.Packet, ep Endpoint, attempt int)
	// AttemptTimeout is called when an attempt got no valid response in time.
	AttemptTimeout(req *packet.Packet, ep Endpoint, attempt int)
	// PostReceive is called with every verified and decoded response.
	PostReceive(resp *packet.Packet, ep Endpoint)
}

// NopEventListener ignores every event.
type NopEventListener struct{}

func (NopEventListener) PreSend(*packet.Packet, Endpoint, int)        {}
func (NopEventListener) AttemptTimeout(*packet.Packet, Endpoint, int) {}
func (NopEventListener) PostReceive(*packet.Packet, Endpoint)         {}

// LoggingEventListener dumps packets at debug level.
type LoggingEventListener struct {
	Logger log.Logger
}

func (l LoggingEventListener) PreSend(req *packet.Packet, ep Endpoint, attempt int) {
	l.logPacket("outgoing", req, ep, attempt)
}

func (l LoggingEventListener) AttemptTimeout(req *packet.Packet, ep Endpoint, attempt int) {
	log.OrDiscard(l.Logger).WithFields(map[string]any{
		"endpoint": ep.String(),
		"id":       req.Identifier(),
		"attempt":  attempt,
	}).Debugf("no response to %s", req.Code())
}

func (l LoggingEventListener) PostReceive(resp *packet.Packet, ep Endpoint) {
	l.logPacket("incoming", resp, ep, 0)
}

func (l LoggingEventListener) logPacket(direction string, p *packet.Packet, ep Endpoint, attempt int) {
	logger := log.OrDiscard(l.Logger).WithFields(map[string]any{
		"direction": direction,
		"endpoint":  ep.String(),
	})
	if attempt > 0 {
		logger = logger.WithField("attempt", attempt)
	}

	logger.Debugf("RADIUS packet %s (%d), id %d, length %d, authenticator %x",
		p.Code(), p.Code(), p.Identifier(), p.Len(), p.Authenticator())
	for i, attr := range p.FlatAttributes() {
		logger.Debugf("  [%d] %s", i, attr)
	}
}
