// Package scanner drives one operator device: it starts and stops the camera,
// hands decoded payloads and typed codes to the resolver one at a time, and
// holds the result on screen until the operator acknowledges it.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/clock"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/token"
)

var (
	// ErrBusy is returned for decodes that arrive while the session is not
	// scanning. The payload is dropped.
	ErrBusy = errors.New("session busy")
	// ErrCoolingDown is returned when the code that was just acknowledged is
	// decoded again within the cool-down window.
	ErrCoolingDown       = errors.New("same code within cool-down")
	ErrInvalidTransition = errors.New("invalid transition")
)

type Camera interface {
	Start(ctx context.Context) error
	Stop() error
}

type Resolver interface {
	Resolve(ctx context.Context, token, operatorID string) (models.Outcome, error)
}

type Session struct {
	log        *slog.Logger
	camera     Camera
	resolver   Resolver
	clock      clock.Clock
	operatorID string
	coolDown   time.Duration

	mu             sync.Mutex
	state          State
	lastPayload    string
	acknowledgedAt time.Time
}

type Opts struct {
	Log        *slog.Logger
	Camera     Camera
	Resolver   Resolver
	OperatorID string
	CoolDown   time.Duration
	Clock      clock.Clock
}

func New(opts Opts) *Session {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}

	return &Session{
		log:        opts.Log.With(sl.Module("scanner"), slog.String("operator_id", opts.OperatorID)),
		camera:     opts.Camera,
		resolver:   opts.Resolver,
		clock:      c,
		operatorID: opts.OperatorID,
		coolDown:   opts.CoolDown,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Start turns the camera on. A camera that cannot start puts the session in
// a camera error result; it is not retried.
func (s *Session) Start(ctx context.Context) (State, error) {
	const op = "scanner.Start"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseIdle {
		return s.state, fmt.Errorf("%s: %w: from %s", op, ErrInvalidTransition, s.state.Phase)
	}

	if err := s.camera.Start(ctx); err != nil {
		s.log.Error("camera failed to start", sl.Err(err))
		s.state = State{Phase: PhaseResult, Result: Result{Kind: ResultCameraError, Err: err}}
		return s.state, nil
	}

	s.state = State{Phase: PhaseScanning}
	s.log.Debug("scanning")

	return s.state, nil
}

// Stop turns the camera off without scanning anything.
func (s *Session) Stop() (State, error) {
	const op = "scanner.Stop"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseScanning {
		return s.state, fmt.Errorf("%s: %w: from %s", op, ErrInvalidTransition, s.state.Phase)
	}

	s.stopCamera()
	s.state = State{Phase: PhaseIdle}

	return s.state, nil
}

// CameraFailed reports a camera that broke while scanning.
func (s *Session) CameraFailed(err error) (State, error) {
	const op = "scanner.CameraFailed"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseScanning {
		return s.state, fmt.Errorf("%s: %w: from %s", op, ErrInvalidTransition, s.state.Phase)
	}

	s.log.Error("camera failed", sl.Err(err))
	s.stopCamera()
	s.state = State{Phase: PhaseResult, Result: Result{Kind: ResultCameraError, Err: err}}

	return s.state, nil
}

// Decode handles one camera payload. The camera is stopped before the
// resolver is called so the same code cannot trigger a second resolution.
func (s *Session) Decode(ctx context.Context, payload string) (State, error) {
	const op = "scanner.Decode"

	s.mu.Lock()
	if s.state.Phase != PhaseScanning {
		state := s.state
		s.mu.Unlock()
		return state, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	if s.coolingDown(payload) {
		state := s.state
		s.mu.Unlock()
		return state, fmt.Errorf("%s: %w", op, ErrCoolingDown)
	}

	s.stopCamera()
	s.state = State{Phase: PhaseResolving}
	s.lastPayload = payload
	s.mu.Unlock()

	candidate, err := token.FromScan(payload)
	if err != nil {
		s.log.Info("unreadable payload", sl.Secret("payload", payload))
		return s.finish(Result{Kind: ResultInvalidInput, Outcome: models.InvalidInput()}), nil
	}

	return s.finish(s.resolve(ctx, candidate)), nil
}

// Manual resolves a typed short code. It goes straight from idle to
// resolving without the camera.
func (s *Session) Manual(ctx context.Context, code string) (State, error) {
	const op = "scanner.Manual"

	s.mu.Lock()
	if s.state.Phase != PhaseIdle {
		state := s.state
		s.mu.Unlock()
		return state, fmt.Errorf("%s: %w: from %s", op, ErrInvalidTransition, state.Phase)
	}
	s.state = State{Phase: PhaseResolving}
	s.lastPayload = ""
	s.mu.Unlock()

	normalized, err := token.FromManual(code)
	if err != nil {
		s.log.Info("rejected manual code")
		return s.finish(Result{Kind: ResultInvalidInput, Outcome: models.InvalidInput()}), nil
	}

	return s.finish(s.resolve(ctx, normalized)), nil
}

// Acknowledge dismisses the result. It is the only way out of PhaseResult.
func (s *Session) Acknowledge() (State, error) {
	const op = "scanner.Acknowledge"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseResult {
		return s.state, fmt.Errorf("%s: %w: from %s", op, ErrInvalidTransition, s.state.Phase)
	}

	s.state = State{Phase: PhaseIdle}
	s.acknowledgedAt = s.clock.Now()

	return s.state, nil
}

func (s *Session) resolve(ctx context.Context, candidate string) Result {
	outcome, err := s.resolver.Resolve(ctx, candidate, s.operatorID)
	if err != nil {
		s.log.Error("resolve failed", sl.Err(err))
		return Result{Kind: ResultSystemError, Err: err}
	}

	return resultFromOutcome(outcome)
}

func (s *Session) finish(result Result) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{Phase: PhaseResult, Result: result}
	s.log.Info("scan result", slog.String("kind", string(result.Kind)))

	return s.state
}

func (s *Session) coolingDown(payload string) bool {
	if s.coolDown <= 0 || s.lastPayload == "" || payload != s.lastPayload {
		return false
	}

	return s.clock.Now().Sub(s.acknowledgedAt) < s.coolDown
}

func (s *Session) stopCamera() {
	if err := s.camera.Stop(); err != nil {
		s.log.Warn("failed to stop camera", sl.Err(err))
	}
}
