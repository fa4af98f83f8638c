package mdns

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/dns/dnsmessage"
	"golang.org/x/net/ipv4"
)

// defaultLookupTimeout bounds Lookup when the context carries no deadline.
const defaultLookupTimeout = 3 * time.Second

// Lookup resolves "<name>.local" by multicasting a one-shot A question and
// waiting for the first matching answer. It is meant for checking a
// responder from another host; it opens its own socket, sends the question
// once and does not retransmit.
func Lookup(ctx context.Context, name string) (net.IP, error) {
	fqdn, err := dnsmessage.NewName(trimDot(name) + ".local.")
	if err != nil {
		return nil, errors.Wrap(err, "mdns: bad name")
	}

	l, err := net.ListenUDP("udp4", ipv4Addr)
	if err != nil {
		return nil, errors.Wrap(err, "mdns: bind "+destinationAddress)
	}
	socket := ipv4.NewPacketConn(l)
	defer socket.Close()

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	joinErrCount := 0
	for i := range ifaces {
		if err = socket.JoinGroup(&ifaces[i], &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251)}); err != nil {
			joinErrCount++
		}
	}
	if joinErrCount >= len(ifaces) {
		return nil, errJoiningMulticastGroup
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultLookupTimeout)
	}
	if err := l.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	msg := dnsmessage.Message{
		Questions: []dnsmessage.Question{
			{
				Name:  fqdn,
				Type:  dnsmessage.TypeA,
				Class: dnsmessage.ClassINET,
			},
		},
	}
	rawQuery, err := msg.Pack()
	if err != nil {
		return nil, errors.Wrap(err, "mdns: pack question")
	}

	dstAddr, err := net.ResolveUDPAddr("udp", destinationAddress)
	if err != nil {
		return nil, err
	}
	if _, err := socket.WriteTo(rawQuery, nil, dstAddr); err != nil {
		return nil, errors.Wrap(err, "mdns: send question")
	}

	b := make([]byte, inboundBufferSize)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, _, _, err := socket.ReadFrom(b)
		if err != nil {
			return nil, errors.Wrap(err, "mdns: waiting for answer")
		}

		p := dnsmessage.Parser{}
		h, err := p.Start(b[:n])
		if err != nil || !h.Response {
			continue
		}
		if err := p.SkipAllQuestions(); err != nil {
			continue
		}

		as, err := p.AllAnswers()
		if err != nil {
			continue
		}
		for _, a := range as {
			rr, isA := a.Body.(*dnsmessage.AResource)
			if !isA || !strings.EqualFold(a.Header.Name.String(), fqdn.String()) {
				continue
			}
			return net.IPv4(rr.A[0], rr.A[1], rr.A[2], rr.A[3]), nil
		}
	}
}

// trimDot is used to trim the dots from the start or end of a string
func trimDot(s string) string {
	return strings.Trim(s, ".")
}
