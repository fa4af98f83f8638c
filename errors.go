package mdns

import "errors"

// ErrNameTooLong is returned by Begin when the configured domain exceeds
// 255 characters and cannot be encoded as a single DNS label.
var ErrNameTooLong = errors.New("mdns: domain name longer than 255 characters")

var (
	errNilConfig             = errors.New("mdns: config must not be nil")
	errMissingDomain         = errors.New("mdns: config must set a domain")
	errJoiningMulticastGroup = errors.New("mdns: failed to join multicast group on any interface")
	errConnectionClosed      = errors.New("mdns: connection is closed")
	errNoLocalAddress        = errors.New("mdns: no local IPv4 address")
	errResponseLayout        = errors.New("mdns: response template offsets out of bounds")
)
