package runner

import "bytes"

// CompletionMarker is the literal log line fragment clover_leaf writes when
// a simulation finishes. It is the authoritative success signal and must be
// matched verbatim.
const CompletionMarker = "Calculation complete"

// ClassifyRun decides a run's outcome from the contents of its log file.
// The marker match is the entire external success contract; every other
// component stays ignorant of it so the match strategy can change in one
// place if the upstream log format moves.
func ClassifyRun(logContents []byte) Status {
	if bytes.Contains(logContents, []byte(CompletionMarker)) {
		return Success
	}
	return Failed
}
