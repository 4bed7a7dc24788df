package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/stats"
)

// ProgressWriter prints the progress of a loading profile as it happens:
// the project list as soon as it is fetched, then every stats result and
// the running credits total.
//
// It implements stats.Observer, so it can be handed to the aggregator
// directly. Output lines are prefixed with the username, which keeps the
// output readable when several profiles load at once.
type ProgressWriter struct {
	mu       sync.Mutex
	output   io.Writer
	username string
	titles   map[string]string
	total    int
	settled  int
}

var _ stats.Observer = (*ProgressWriter)(nil)

// NewProgressWriter creates a progress writer for one profile.
func NewProgressWriter(output io.Writer, username string) *ProgressWriter {
	return &ProgressWriter{
		output:   output,
		username: username,
		titles:   make(map[string]string),
	}
}

// Page reports a fetched page of the project list.
func (p *ProgressWriter) Page(page, items int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("page %d: %d projects so far", page, items)
}

// Listed reports the fetched project list, before any stats arrive.
func (p *ProgressWriter) Listed(entries []model.ProjectEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = len(entries)
	for _, e := range entries {
		p.titles[e.Project.ID] = e.Project.DisplayTitle()
	}
	p.printf("found %d projects, loading stats", len(entries))
}

// TotalUpdated implements stats.Observer.
func (p *ProgressWriter) TotalUpdated(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("credits: %s", formatNumber(total))
}

// ProjectUpdated implements stats.Observer.
func (p *ProgressWriter) ProjectUpdated(id string, tips int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settled++
	p.printf("[%d/%d] %s: 💎 %s", p.settled, p.total, p.title(id), formatNumber(tips))
}

// ProjectFailed implements stats.Observer.
func (p *ProgressWriter) ProjectFailed(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settled++
	p.printf("[%d/%d] %s: stats unavailable (%v)", p.settled, p.total, p.title(id), err)
}

// title returns the display title of a project, or its ID.
func (p *ProgressWriter) title(id string) string {
	if t, ok := p.titles[id]; ok {
		return t
	}
	return id
}

// printf writes one line. The caller holds p.mu.
func (p *ProgressWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.output, "@%s: %s\n", p.username, fmt.Sprintf(format, args...))
}
