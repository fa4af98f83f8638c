package mdns

import (
	"net"
	"sync"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

const inboundBufferSize = 1024

// Conn is the production Transport: a UDP socket bound to the mDNS group
// and port, with a background read loop feeding the registered handler.
type Conn struct {
	mu      sync.Mutex
	log     *log.Logger
	socket  *ipv4.PacketConn
	localIP net.IP // optional override from the config
	handler DatagramHandler
	started bool

	closed chan interface{}
}

// newConn binds 224.0.0.251:5353 and wraps the socket for multicast control.
func newConn(config *Config, logger *log.Logger) (*Conn, error) {
	l, err := net.ListenUDP("udp4", ipv4Addr)
	if err != nil {
		return nil, errors.Wrap(err, "mdns: bind "+destinationAddress)
	}

	return &Conn{
		log:     logger,
		socket:  ipv4.NewPacketConn(l),
		localIP: config.LocalAddr,
		closed:  make(chan interface{}),
	}, nil
}

// AcceptMulticast joins the mDNS group on every interface so group traffic
// passes the link-layer filter. Individual interfaces without multicast
// support are tolerated; only failing on all of them is an error.
func (c *Conn) AcceptMulticast() error {
	ifaces, err := net.Interfaces()
	if err != nil {
		return err
	}

	joinErrCount := 0
	for i := range ifaces {
		if err = c.socket.JoinGroup(&ifaces[i], &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251)}); err != nil {
			joinErrCount++
		}
	}
	if joinErrCount >= len(ifaces) {
		return errJoiningMulticastGroup
	}
	return nil
}

// Listen registers h and starts the read loop.
func (c *Conn) Listen(h DatagramHandler) error {
	select {
	case <-c.closed:
		return errConnectionClosed
	default:
	}

	c.mu.Lock()
	c.handler = h
	already := c.started
	c.started = true
	c.mu.Unlock()

	if !already {
		if c.log != nil {
			c.log.Debugf("mdns: listening on %s", destinationAddress)
		}
		go c.start()
	}
	return nil
}

// LocalIPv4 returns the address patched into replies: the config override
// when set, otherwise the address of the interface routing toward the group.
func (c *Conn) LocalIPv4() ([4]byte, error) {
	ip := c.localIP
	if ip == nil {
		var err error
		ip, err = interfaceForRemote(destinationAddress)
		if err != nil {
			return [4]byte{}, errors.Wrap(err, "mdns: route to multicast group")
		}
	}
	if ip.To4() == nil {
		return [4]byte{}, errNoLocalAddress
	}
	return ipToBytes(ip), nil
}

// Reply sends raw back to dst on the service port.
func (c *Conn) Reply(raw []byte, dst net.Addr) error {
	if _, err := c.socket.WriteTo(raw, nil, dst); err != nil {
		return errors.Wrap(err, "mdns: send reply")
	}
	return nil
}

// Close closes the socket and waits for the read loop to drain.
func (c *Conn) Close() error {
	select {
	case <-c.closed:
		return nil
	default:
	}

	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	if err := c.socket.Close(); err != nil {
		return err
	}
	if started {
		<-c.closed
	} else {
		close(c.closed)
	}
	return nil
}

func (c *Conn) start() {
	defer close(c.closed)

	b := make([]byte, inboundBufferSize)
	for {
		n, _, src, err := c.socket.ReadFrom(b)
		if err != nil {
			return
		}

		c.mu.Lock()
		h := c.handler
		c.mu.Unlock()
		if h == nil {
			continue
		}

		payload := make([]byte, n)
		copy(payload, b[:n])
		h(src, payload)
	}
}

func ipToBytes(ip net.IP) (out [4]byte) {
	rawIP := ip.To4()
	if rawIP == nil {
		return
	}
	copy(out[:], rawIP)
	return
}

// interfaceForRemote discovers the local address the kernel would use to
// reach remote, without sending anything.
func interfaceForRemote(remote string) (net.IP, error) {
	conn, err := net.Dial("udp", remote)
	if err != nil {
		return nil, err
	}

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	if err := conn.Close(); err != nil {
		return nil, err
	}

	return localAddr.IP, nil
}
