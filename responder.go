package mdns

import (
	"net"
	"os"
	"sync"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/pkg/errors"
)

// DatagramHandler consumes one received datagram.
type DatagramHandler func(src net.Addr, payload []byte)

// Transport is the narrow network surface the responder drives. Production
// code uses *Conn; tests substitute a fake.
type Transport interface {
	// AcceptMulticast opens the link-layer multicast filter so datagrams for
	// the mDNS group reach us at all.
	AcceptMulticast() error

	// Listen registers the handler invoked once per inbound datagram on
	// 224.0.0.251:5353. The handler is called sequentially, one datagram at
	// a time, in arrival order.
	Listen(h DatagramHandler) error

	// LocalIPv4 reports the address to be patched into the reply.
	LocalIPv4() ([4]byte, error)

	// Reply sends a raw buffer back to the source of a query on the mDNS
	// service port. Fire and forget.
	Reply(raw []byte, dst net.Addr) error

	Close() error
}

// Responder answers mDNS A queries for a single name. All of its state, the
// encoded name, the prebuilt reply and the matcher, is built by Begin and
// owned by the instance; nothing is allocated while serving queries.
type Responder struct {
	mu        sync.Mutex
	log       *log.Logger
	transport Transport

	name     []byte // wire-format name, match pattern and reply echo
	response []byte // prebuilt reply datagram, read-only after Begin
	m        *matcher
}

// NewServer opens the multicast socket and starts a Responder for
// config.Domain.
func NewServer(config *Config) (*Responder, error) {
	if config == nil {
		return nil, errNilConfig
	}
	if config.Domain == "" {
		return nil, errMissingDomain
	}

	logger := config.Logger
	if logger == nil {
		logger = &log.Logger{
			Handler: cli.New(os.Stdout),
			Level:   log.InfoLevel,
		}
	}

	conn, err := newConn(config, logger)
	if err != nil {
		return nil, err
	}

	ttl := config.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	r := &Responder{log: logger}
	if err := r.Begin(config.Domain, conn, ttl); err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

// Begin builds the match pattern and the reply template for domain and
// registers the responder with t. Calling Begin again replaces all previous
// state atomically; closing a previously passed transport is up to the
// caller.
func (r *Responder) Begin(domain string, t Transport, ttlSeconds uint32) error {
	name, err := encodeName(domain)
	if err != nil {
		return err
	}

	addr, err := t.LocalIPv4()
	if err != nil {
		return errors.Wrap(err, "mdns: local address")
	}
	response, err := buildResponse(name, ttlSeconds, addr)
	if err != nil {
		return err
	}

	if err := t.AcceptMulticast(); err != nil {
		return errors.Wrap(err, "mdns: multicast filter")
	}
	if err := t.Listen(r.handleDatagram); err != nil {
		return errors.Wrap(err, "mdns: listen")
	}

	r.mu.Lock()
	r.transport = t
	r.name = name
	r.response = response
	r.m = newMatcher(name)
	r.mu.Unlock()

	if r.log != nil {
		r.log.Infof("mdns: responding for %s.local with %d.%d.%d.%d, ttl %ds",
			domain, addr[0], addr[1], addr[2], addr[3], ttlSeconds)
	}
	return nil
}

// handleDatagram runs one inbound datagram through the matcher and replies
// once per completed query. Bytes that do not look like a query for our name
// are dropped without comment; unrelated multicast chatter on the segment is
// the normal case, not an error.
func (r *Responder) handleDatagram(src net.Addr, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		return
	}

	for hits := r.m.scan(payload); hits > 0; hits-- {
		if r.log != nil {
			r.log.Debugf("mdns: answering query from %v", src)
		}
		if err := r.transport.Reply(r.response, src); err != nil && r.log != nil {
			r.log.Warnf("mdns: failed to send reply to %v: %v", src, err)
		}
	}
}

// Close shuts down the underlying transport.
func (r *Responder) Close() error {
	r.mu.Lock()
	t := r.transport
	r.mu.Unlock()

	if t == nil {
		return nil
	}
	return t.Close()
}
