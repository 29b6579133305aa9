package packetgen

import "errors"

// Failure taxonomy for a packet-generation run. All failures are local to
// the run: nothing partial is ever persisted, and no whole-pipeline retry
// exists above the per-call remediation loops.
var (
	// ErrSelectionShortfall means the answer-selection loop exhausted its
	// iteration ceiling without reaching the target count. Fatal for
	// full-packet requests, tolerated for single-tossup requests.
	ErrSelectionShortfall = errors.New("answer selection fell short of target count")

	// ErrCycleUnresolved means cycle resolution exhausted its ceiling with a
	// reciprocal reference pair still present. The packet is discarded.
	ErrCycleUnresolved = errors.New("unable to resolve cyclical cross-references")

	// ErrCraftFailed means a question could not be crafted for an answer
	// within the attempt ceiling.
	ErrCraftFailed = errors.New("failed to craft question")
)
