package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	mdns "github.com/pietrodizinno/tinymdns"
)

func main() {
	domain := flag.String("domain", "", "Host name to answer for, without the .local suffix (required unless -resolve)")
	ttl := flag.Uint("ttl", 120, "Record TTL in seconds")
	addr := flag.String("addr", "", "IPv4 address to answer with (default: auto-detect)")
	resolve := flag.String("resolve", "", "Resolve <name>.local once, print the address and exit")
	timeout := flag.Duration("timeout", 3*time.Second, "Timeout for -resolve")
	verbose := flag.Bool("verbose", false, "Log every answered query")
	flag.Parse()

	logger := &log.Logger{
		Handler: cli.New(os.Stdout),
		Level:   log.InfoLevel,
	}
	if *verbose {
		logger.Level = log.DebugLevel
	}

	if *resolve != "" {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		ip, err := mdns.Lookup(ctx, *resolve)
		if err != nil {
			logger.Fatalf("resolve %s.local: %v", *resolve, err)
		}
		fmt.Println(ip)
		return
	}

	if *domain == "" {
		fmt.Fprintln(os.Stderr, "Usage: tinymdns -domain <name> [-ttl <seconds>] [-addr <ipv4>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config := &mdns.Config{
		Domain: *domain,
		TTL:    uint32(*ttl),
		Logger: logger,
	}
	if *addr != "" {
		ip := net.ParseIP(*addr)
		if ip == nil || ip.To4() == nil {
			logger.Fatalf("not an IPv4 address: %s", *addr)
		}
		config.LocalAddr = ip
	}

	responder, err := mdns.NewServer(config)
	if err != nil {
		logger.Fatalf("start: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	if err := responder.Close(); err != nil {
		logger.Warnf("close: %v", err)
	}
}
