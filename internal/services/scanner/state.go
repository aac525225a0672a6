package scanner

import (
	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseResolving
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseScanning:
		return "scanning"
	case PhaseResolving:
		return "resolving"
	case PhaseResult:
		return "result"
	default:
		return "idle"
	}
}

// ResultKind extends the resolver outcome kinds with the failures only the
// device can observe.
type ResultKind string

const (
	ResultAdmitted        = ResultKind(models.OutcomeAdmitted)
	ResultAlreadyAdmitted = ResultKind(models.OutcomeAlreadyAdmitted)
	ResultNotFound        = ResultKind(models.OutcomeNotFound)
	ResultInvalidInput    = ResultKind(models.OutcomeInvalidInput)
	ResultSystemError     ResultKind = "system_error"
	ResultCameraError     ResultKind = "camera_error"
)

type Result struct {
	Kind    ResultKind
	Outcome models.Outcome
	// Err is set for system and camera errors.
	Err error
}

func resultFromOutcome(outcome models.Outcome) Result {
	return Result{Kind: ResultKind(outcome.Kind), Outcome: outcome}
}

// State is the whole session state. Result is meaningful only in PhaseResult.
type State struct {
	Phase  Phase
	Result Result
}

type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackSuccess
	FeedbackDuplicate
	FeedbackError
)

// Tone frequencies in Hz played for success and error feedback.
const (
	SuccessToneHz = 800
	ErrorToneHz   = 300
)

// Feedback maps a result to the signal shown to the operator. A duplicate
// never shares the success signal.
func (r Result) Feedback() Feedback {
	switch r.Kind {
	case ResultAdmitted:
		return FeedbackSuccess
	case ResultAlreadyAdmitted:
		return FeedbackDuplicate
	case ResultNotFound, ResultInvalidInput, ResultSystemError, ResultCameraError:
		return FeedbackError
	default:
		return FeedbackNone
	}
}
