package models

// OutcomeKind tags how processing of a single queue item ended.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// OutcomeAlreadyHandled - the item was evaluated elsewhere, nothing to do.
	OutcomeAlreadyHandled
	// OutcomeTimedOut - applying the level did not finish in time.
	OutcomeTimedOut
	// OutcomeFaulted - unexpected failure, Err carries the detail.
	OutcomeFaulted
	// OutcomeSkipped - the entity was gone or filtered before processing.
	OutcomeSkipped
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAlreadyHandled:
		return "already_handled"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeFaulted:
		return "faulted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func Ok() Outcome { return Outcome{Kind: OutcomeOK} }

func AlreadyHandled() Outcome { return Outcome{Kind: OutcomeAlreadyHandled} }

func TimedOut() Outcome { return Outcome{Kind: OutcomeTimedOut} }

func Faulted(err error) Outcome { return Outcome{Kind: OutcomeFaulted, Err: err} }

func Skipped() Outcome { return Outcome{Kind: OutcomeSkipped} }
