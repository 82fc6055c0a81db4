package tx

// Phase is where a transaction run currently is.
type Phase string

const (
	PhasePost      Phase = "POST"
	PhaseBroadcast Phase = "BROADCAST"
	PhaseSucceed   Phase = "SUCCEED"
	PhaseFailed    Phase = "FAILED"
)

// IsTerminal reports whether nothing can follow a snapshot in this phase.
func (p Phase) IsTerminal() bool {
	return p == PhaseSucceed || p == PhaseFailed
}

func (p Phase) String() string {
	return string(p)
}
