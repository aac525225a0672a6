package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/services/scanner"
)

// wedgeCamera is a keyboard-wedge scanner: it types payloads into stdin, so
// starting it only checks that the device is attached.
type wedgeCamera struct {
	device string
}

func (c *wedgeCamera) Start(context.Context) error {
	return c.Check()
}

func (c *wedgeCamera) Stop() error {
	return nil
}

// Check reports a configured device that has gone away.
func (c *wedgeCamera) Check() error {
	if c.device == "" {
		return nil
	}

	if _, err := os.Stat(c.device); err != nil {
		return fmt.Errorf("scanner device: %w", err)
	}

	return nil
}

// withTimeout bounds each check-in call. A deadline can expire after the
// server admitted the guest, so it is off unless asked for.
func withTimeout(next scanner.Resolver, timeout time.Duration) scanner.Resolver {
	if timeout <= 0 {
		return next
	}

	return timeoutResolver{next: next, timeout: timeout}
}

type timeoutResolver struct {
	next    scanner.Resolver
	timeout time.Duration
}

func (r timeoutResolver) Resolve(ctx context.Context, token, operatorID string) (models.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.next.Resolve(ctx, token, operatorID)
}
