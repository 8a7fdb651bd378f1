// Command ymrecv is a demo YMODEM receiver: it opens a serial port, accepts
// a batch of files into a directory, and optionally publishes progress to
// Redis and appends CBOR receipts to an audit log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mastupristi/go-yaymodem"
	"github.com/mastupristi/go-yaymodem/audit"
	"github.com/mastupristi/go-yaymodem/config"
	"github.com/mastupristi/go-yaymodem/sink/fs"
	"github.com/mastupristi/go-yaymodem/telemetry/redis"
	"github.com/mastupristi/go-yaymodem/transport/serial"
)

func run() error {
	var (
		configPath string
		port       string
		baud       int
		outDir     string
	)
	flag.StringVar(&configPath, "config", "", "path to .ini config file")
	flag.StringVar(&port, "port", "", "serial port (overrides config)")
	flag.IntVar(&baud, "baud", 0, "baud rate (overrides config)")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.Parse()

	var cfgFile config.File
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfgFile = *loaded
	}
	if port != "" {
		cfgFile.Serial.Port = port
	}
	if baud != 0 {
		cfgFile.Serial.BaudRate = baud
	}
	if outDir != "" {
		cfgFile.Sink.Dir = outDir
	}
	if cfgFile.Sink.Dir == "" {
		cfgFile.Sink.Dir = "."
	}

	transport, err := serial.Open(serial.Config{
		Port:     cfgFile.Serial.Port,
		BaudRate: cfgFile.Serial.BaudRate,
	})
	if err != nil {
		return fmt.Errorf("ymrecv: %w", err)
	}
	defer transport.Close()

	sink, err := fs.New(cfgFile.Sink.Dir, cfgFile.Sink.MaxFileSize)
	if err != nil {
		return fmt.Errorf("ymrecv: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var observers ymodem.MultiObserver
	if cfgFile.Redis.Addr != "" {
		pub, err := redis.New(ctx, cfgFile.Redis.Addr, "", 0, cfgFile.Redis.Channel)
		if err != nil {
			return fmt.Errorf("ymrecv: %w", err)
		}
		defer pub.Close()
		observers = append(observers, pub)
	}
	if cfgFile.Audit.Path != "" {
		auditLog, err := audit.Open(cfgFile.Audit.Path)
		if err != nil {
			return fmt.Errorf("ymrecv: %w", err)
		}
		defer auditLog.Close()
		observers = append(observers, auditLog)
	}

	session := ymodem.NewSession(transport, sink).
		WithConfig(ymodem.Config{
			PacketTimeout: cfgFile.Session.PacketTimeout,
			CharTimeout:   cfgFile.Session.CharTimeout,
			MaxRetries:    cfgFile.Session.MaxRetries,
			StrictEOT:     cfgFile.Session.StrictEOT,
		}).
		WithObserver(observers).
		WithLogger(slog.Default())

	return session.Receive(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ymrecv: %s\n", err)
		os.Exit(1)
	}
}
