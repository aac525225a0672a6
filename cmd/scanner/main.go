// Command scanner is the door client. It reads a keyboard-wedge QR scanner
// (one payload per line on stdin) or typed short codes and checks guests in
// against the guestlist gRPC server.
package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/BariVakhidov/guestlist/internal/grpc/auth"
	checkingrpc "github.com/BariVakhidov/guestlist/internal/grpc/checkin"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/services/scanner"
)

func main() {
	var (
		server     string
		bearer     string
		operatorID string
		device     string
		coolDown   time.Duration
		timeout    time.Duration
		plaintext  bool
		verbose    bool
	)
	pflag.StringVarP(&server, "server", "s", "localhost:44044", "guestlist gRPC address")
	pflag.StringVarP(&bearer, "token", "t", os.Getenv("SCANNER_TOKEN"), "operator bearer token (defaults to SCANNER_TOKEN)")
	pflag.StringVar(&operatorID, "operator", "", "operator id shown in logs")
	pflag.StringVar(&device, "device", "", "scanner device that must be present while scanning")
	pflag.DurationVar(&coolDown, "cool-down", 3*time.Second, "ignore the acknowledged code for this long")
	pflag.DurationVar(&timeout, "timeout", 0, "check-in request timeout (0 waits for the server)")
	pflag.BoolVar(&plaintext, "insecure", false, "connect without TLS")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pflag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if bearer == "" {
		fmt.Fprintln(os.Stderr, "scanner: --token or SCANNER_TOKEN is required")
		os.Exit(2)
	}

	transport := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if plaintext {
		transport = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(server,
		grpc.WithTransportCredentials(transport),
		grpc.WithPerRPCCredentials(auth.BearerCredentials{Token: bearer, Insecure: plaintext}),
	)
	if err != nil {
		log.Error("failed to create client", sl.Err(err))
		os.Exit(1)
	}
	defer conn.Close()

	camera := &wedgeCamera{device: device}
	session := scanner.New(scanner.Opts{
		Log:        log,
		Camera:     camera,
		Resolver:   withTimeout(checkingrpc.NewClient(conn), timeout),
		OperatorID: operatorID,
		CoolDown:   coolDown,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := newConsole(session, camera, os.Stdout)
	c.help()
	c.render(session.State())

	lines := make(chan string)
	go func() {
		defer close(lines)
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			lines <- in.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || c.handle(ctx, line) {
				return
			}
		}
	}
}
