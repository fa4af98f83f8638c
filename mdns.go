// Package mdns implements a minimal mDNS (multicast DNS) responder that
// answers A queries for a single "<domain>.local" name with the host's own
// IPv4 address.
//
// The responder never parses inbound datagrams into full DNS messages.
// Instead it runs a byte-at-a-time matcher over the raw stream and, on
// recognizing a query for its name, sends a reply datagram that was prebuilt
// once at startup. The per-query path does not allocate, which makes the
// package suitable for small network-attached devices that only need to
// announce "I am <name>.local".
package mdns

import "net"

const (
	ipv4mdns = "224.0.0.251"
	mdnsPort = 5353

	destinationAddress = "224.0.0.251:5353"
)

var ipv4Addr = &net.UDPAddr{
	IP:   net.ParseIP(ipv4mdns),
	Port: mdnsPort,
}

// defaultTTL is the default TTL value in returned DNS records in seconds.
const defaultTTL = 120
