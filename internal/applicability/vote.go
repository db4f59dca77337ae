package applicability

// Vote is one node's answer to "can a line breakpoint anchor here".
//
// Stop means the scan ends immediately and Applicable becomes the final answer.
// Without Stop the scan continues and Applicable is OR-ed into the result.
type Vote struct {
	Applicable bool
	Stop       bool
}

var (
	Unknown       = Vote{Applicable: false, Stop: false}
	MaybeYes      = Vote{Applicable: true, Stop: false}
	DefinitelyYes = Vote{Applicable: true, Stop: true}
	DefinitelyNo  = Vote{Applicable: false, Stop: true}
)

// Definitely returns a stopping vote with the given answer.
func Definitely(applicable bool) Vote {
	return Vote{Applicable: applicable, Stop: true}
}

// Maybe returns a non-stopping vote with the given answer.
func Maybe(applicable bool) Vote {
	return Vote{Applicable: applicable, Stop: false}
}

// String returns the canonical name of the vote.
func (v Vote) String() string {
	switch v {
	case DefinitelyYes:
		return "definitely-yes"
	case DefinitelyNo:
		return "definitely-no"
	case MaybeYes:
		return "maybe-yes"
	default:
		return "unknown"
	}
}
