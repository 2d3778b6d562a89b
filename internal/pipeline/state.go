package pipeline

// State names one stage of the preparation pipeline. Transitions are
// one-directional except the single retry edge from Verifying back
// through a forced re-fetch.
type State int

const (
	// StateResolvingURL resolves the artifact download URL.
	StateResolvingURL State = iota
	// StateFetching downloads the artifact. Skipped when the expected
	// file is already in the staging tree.
	StateFetching
	// StateVerifying checks the artifact against its published digest.
	StateVerifying
	// StateRetryFetch is the one self-heal re-download granted to a
	// stale cached file that failed verification.
	StateRetryFetch
	// StateParsingName recovers variant and version from the filename.
	StateParsingName
	// StateExtractingAssets scans the archive for icon assets.
	StateExtractingAssets
	// StateSynthesizingDescriptor generates and persists the spec file.
	StateSynthesizingDescriptor
	// StateDone is the terminal success state.
	StateDone
	// StateAborted is the terminal failure state, reached on an
	// unrecoverable integrity error.
	StateAborted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateResolvingURL:
		return "resolving-url"
	case StateFetching:
		return "fetching"
	case StateVerifying:
		return "verifying"
	case StateRetryFetch:
		return "retry-fetch"
	case StateParsingName:
		return "parsing-name"
	case StateExtractingAssets:
		return "extracting-assets"
	case StateSynthesizingDescriptor:
		return "synthesizing-descriptor"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state ends the pipeline.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateAborted
}
