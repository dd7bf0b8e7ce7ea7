package domain

// ProbeOutcome classifies a single port probe.
type ProbeOutcome string

const (
	// ProbeListening means a socket in LISTEN state matched the request.
	ProbeListening ProbeOutcome = "listening"
	// ProbeNotListening means the socket table was read and nothing matched.
	ProbeNotListening ProbeOutcome = "not_listening"
	// ProbeInconclusive means the socket table could not be read.
	ProbeInconclusive ProbeOutcome = "inconclusive"
)

// ListeningState is the derived result of one probe. It is recomputed on
// every call and never cached.
type ListeningState struct {
	Outcome ProbeOutcome `json:"outcome" yaml:"outcome"`
	// Addresses lists the local addresses found bound to the port,
	// including ones that did not match the requested host.
	Addresses []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	// Tool names the OS command that produced the result.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
	// Err carries the query failure for inconclusive results.
	Err error `json:"-" yaml:"-"`
}

// Listening reports whether the probe found a matching listener.
// NotListening and Inconclusive are deliberately indistinguishable here.
func (s ListeningState) Listening() bool {
	return s.Outcome == ProbeListening
}

// Inconclusive returns a state for a probe that could not read the socket table.
func Inconclusive(tool string, err error) ListeningState {
	return ListeningState{Outcome: ProbeInconclusive, Tool: tool, Err: err}
}
