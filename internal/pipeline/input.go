package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// URLSource resolves the artifact URL for a run. The pipeline consumes
// only the resolved string; it does not care which source produced it.
type URLSource interface {
	Resolve() (string, error)
}

// ArgSource supplies a URL given on the command line.
type ArgSource struct {
	URL string
}

// Resolve returns the supplied URL.
func (s ArgSource) Resolve() (string, error) {
	if strings.TrimSpace(s.URL) == "" {
		return "", fmt.Errorf("no URL supplied")
	}
	return strings.TrimSpace(s.URL), nil
}

// PromptSource asks the user for a URL interactively.
type PromptSource struct {
	In  io.Reader
	Out io.Writer
}

// Resolve prompts once and reads a single line. An empty answer is an
// error; there is no URL to work with.
func (s PromptSource) Resolve() (string, error) {
	fmt.Fprint(s.Out, "Artifact URL: ")

	reader := bufio.NewReader(s.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read URL: %w", err)
	}

	url := strings.TrimSpace(line)
	if url == "" {
		return "", fmt.Errorf("no URL supplied")
	}
	return url, nil
}
