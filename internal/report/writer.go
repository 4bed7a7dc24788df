package report

import (
	"io"

	"github.com/nao1215/simprofile/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type Writer interface {
	// Write outputs a profile. Projects are rendered in the order given.
	// Returns the number of bytes written and any error encountered.
	Write(profile *model.Profile) (int, error)

	// WriteRelations outputs a followers or following list.
	WriteRelations(list *RelationList) (int, error)

	// WriteHistory outputs the snapshots of a user, oldest first.
	WriteHistory(history *History) (int, error)
}

// RelationList is a titled list of users, e.g. the followers of a profile.
type RelationList struct {
	Username string              `json:"username"`
	Kind     model.RelationKind  `json:"kind"`
	Title    string              `json:"title"`
	Users    []model.UserSummary `json:"users"`

	// Partial is set when the list could not be loaded completely.
	Partial bool `json:"partial,omitempty"`
}

// History is the snapshot history of one user, oldest first.
type History struct {
	Username  string           `json:"username"`
	Snapshots []model.Snapshot `json:"snapshots"`
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write profiles, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the profile to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(profile *model.Profile) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(profile) })
}

// WriteRelations outputs the list to all configured Writers.
func (m *MultiWriter) WriteRelations(list *RelationList) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRelations(list) })
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(history *History) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(history) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format names an output format.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// NewWriter creates the writer for format. Unknown formats fall back to text.
func NewWriter(format Format, output io.Writer, verbose bool) Writer {
	switch format {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return NewSimpleWriter(output, WithVerbose(verbose))
	}
}
