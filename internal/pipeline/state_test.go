package pipeline

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateResolvingURL, "resolving-url"},
		{StateFetching, "fetching"},
		{StateVerifying, "verifying"},
		{StateRetryFetch, "retry-fetch"},
		{StateParsingName, "parsing-name"},
		{StateExtractingAssets, "extracting-assets"},
		{StateSynthesizingDescriptor, "synthesizing-descriptor"},
		{StateDone, "done"},
		{StateAborted, "aborted"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateIsTerminal(t *testing.T) {
	for _, s := range []State{StateDone, StateAborted} {
		if !s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = false", s)
		}
	}
	for _, s := range []State{StateResolvingURL, StateFetching, StateVerifying, StateRetryFetch} {
		if s.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true", s)
		}
	}
}
