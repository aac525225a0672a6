package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/BariVakhidov/guestlist/internal/services/scanner"
)

const bell = "\a"

var (
	boxStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())
	successStyle   = boxStyle.Foreground(lipgloss.Color("10")).BorderForeground(lipgloss.Color("10"))
	duplicateStyle = boxStyle.Foreground(lipgloss.Color("11")).BorderForeground(lipgloss.Color("11"))
	errorStyle     = boxStyle.Foreground(lipgloss.Color("9")).BorderForeground(lipgloss.Color("9"))
	phaseStyle     = lipgloss.NewStyle().Faint(true)
)

type console struct {
	session *scanner.Session
	camera  *wedgeCamera
	out     io.Writer
}

func newConsole(session *scanner.Session, camera *wedgeCamera, out io.Writer) *console {
	return &console{session: session, camera: camera, out: out}
}

func (c *console) help() {
	fmt.Fprintln(c.out, phaseStyle.Render("start: scan | stop: stop scanning | m CODE: manual entry | enter: next guest | q: quit"))
}

// handle runs one input line and reports whether the client should exit.
func (c *console) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	command, arg, _ := strings.Cut(line, " ")

	if command == "q" || command == "quit" {
		return true
	}

	state := c.session.State()

	var err error
	switch {
	case state.Phase == scanner.PhaseResult:
		// any key dismisses the result
		state, err = c.session.Acknowledge()
	case command == "start":
		state, err = c.session.Start(ctx)
	case command == "stop":
		state, err = c.session.Stop()
	case command == "m" || command == "manual":
		state, err = c.session.Manual(ctx, arg)
	case state.Phase == scanner.PhaseScanning && line != "":
		if cameraErr := c.camera.Check(); cameraErr != nil {
			state, err = c.session.CameraFailed(cameraErr)
			break
		}
		state, err = c.session.Decode(ctx, line)
	case line == "":
		return false
	default:
		c.help()
		return false
	}

	if err != nil {
		if errors.Is(err, scanner.ErrCoolingDown) {
			return false
		}
		fmt.Fprintln(c.out, phaseStyle.Render(err.Error()))
	}

	c.render(state)

	return false
}

func (c *console) render(state scanner.State) {
	if state.Phase != scanner.PhaseResult {
		fmt.Fprintln(c.out, phaseStyle.Render("["+state.Phase.String()+"]"))
		return
	}

	result := state.Result
	switch result.Feedback() {
	case scanner.FeedbackSuccess:
		fmt.Fprint(c.out, bell)
		fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf("WELCOME\n%s\n%s",
			result.Outcome.Guest.Name, result.Outcome.Guest.Category)))
	case scanner.FeedbackDuplicate:
		fmt.Fprintln(c.out, duplicateStyle.Render(fmt.Sprintf("ALREADY CHECKED IN\n%s\nat %s",
			result.Outcome.Guest.Name, result.Outcome.Timestamp.Local().Format(time.Kitchen))))
	default:
		fmt.Fprint(c.out, bell+bell)
		fmt.Fprintln(c.out, errorStyle.Render(errorText(result)))
	}
}

func errorText(result scanner.Result) string {
	switch result.Kind {
	case scanner.ResultNotFound:
		return "GUEST NOT FOUND"
	case scanner.ResultInvalidInput:
		return "INVALID CODE"
	case scanner.ResultCameraError:
		return "SCANNER UNAVAILABLE\n" + result.Err.Error()
	default:
		return "CHECK-IN UNAVAILABLE, TRY AGAIN"
	}
}
