package model

// FileState is the position of one file in the processing state machine.
//
//	Discovered → BackedUp → Analyzed → Annotated → Renamed → Validated
//
// Any state may move to Failed. Failed is terminal.
type FileState int

const (
	// StateDiscovered is the initial state of a file found by discovery.
	StateDiscovered FileState = iota

	// StateBackedUp means the backup copy exists on disk.
	StateBackedUp

	// StateAnalyzed means an AnalysisResult (possibly degraded) is available.
	StateAnalyzed

	// StateAnnotated means the annotated content was written to the file.
	StateAnnotated

	// StateRenamed means the content-addressed copy exists.
	StateRenamed

	// StateValidated means the file passed validation.
	StateValidated

	// StateFailed means the file was abandoned.
	StateFailed
)

// String returns a human-readable representation of the state.
func (s FileState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateBackedUp:
		return "backed_up"
	case StateAnalyzed:
		return "analyzed"
	case StateAnnotated:
		return "annotated"
	case StateRenamed:
		return "renamed"
	case StateValidated:
		return "validated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseFileState converts the output of String back to a FileState.
// Unknown names return StateFailed and false.
func ParseFileState(s string) (FileState, bool) {
	for st := StateDiscovered; st <= StateFailed; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StateFailed, false
}

// MarshalText implements encoding.TextMarshaler.
func (s FileState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *FileState) UnmarshalText(text []byte) error {
	st, _ := ParseFileState(string(text))
	*s = st
	return nil
}

// Terminal reports whether no further transitions are possible.
func (s FileState) Terminal() bool {
	return s == StateValidated || s == StateFailed
}
