package mdns

import (
	"net"

	"github.com/apex/log"
)

// Config bundles the parameters for NewServer.
type Config struct {
	// Domain is the host name to answer for, announced as "<Domain>.local".
	// At most 255 characters, without the ".local" suffix.
	Domain string

	// TTL is the lifetime of the returned records in seconds. Zero selects
	// defaultTTL.
	TTL uint32

	// Logger receives lifecycle messages and read-loop warnings. When nil a
	// cli logger writing to stdout is used.
	Logger *log.Logger

	// LocalAddr optionally pins the IPv4 address placed in replies. When nil
	// the address of the interface routing toward the mDNS group is used.
	LocalAddr net.IP
}
