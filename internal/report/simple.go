package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/simprofile/internal/model"
)

// flowLabels names the profile regions in warnings.
var flowLabels = map[model.Flow]string{
	model.FlowIdentity:       "Identity",
	model.FlowFollowerCount:  "Follower count",
	model.FlowFollowingCount: "Following count",
	model.FlowProjects:       "Projects",
	model.FlowStats:          "Project stats",
}

// flowOrder is the display order of warnings.
var flowOrder = []model.Flow{
	model.FlowIdentity,
	model.FlowFollowerCount,
	model.FlowFollowingCount,
	model.FlowProjects,
	model.FlowStats,
}

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and is easy to pipe to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds descriptions, thumbnails and avatars.
	verbose bool

	// limit caps the number of projects shown; 0 shows all.
	limit int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithLimit caps the number of projects shown.
func WithLimit(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.limit = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the profile in human-readable format.
func (w *SimpleWriter) Write(profile *model.Profile) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, profile)
	w.writeStats(&sb, profile)
	w.writeProjects(&sb, profile)
	w.writeWarnings(&sb, profile)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the banner with the user handle.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, profile *model.Profile) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", profile.Handle()))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if w.verbose {
		sb.WriteString(fmt.Sprintf("Avatar:     %s\n", profile.AvatarURL))
	}
	sb.WriteString(fmt.Sprintf("Generated:  %s\n", profile.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString("\n")
}

// writeStats writes the counts and totals.
func (w *SimpleWriter) writeStats(sb *strings.Builder, profile *model.Profile) {
	writeSection(sb, "STATS")

	credits := formatNumber(profile.TotalCredits)
	if !profile.StatsComplete {
		credits += " (loading)"
	}

	sb.WriteString(fmt.Sprintf("  Followers:  %s\n", formatCount(profile.FollowerCount)))
	sb.WriteString(fmt.Sprintf("  Following:  %s\n", formatCount(profile.FollowingCount)))
	sb.WriteString(fmt.Sprintf("  Views:      %s\n", formatNumber(profile.TotalViews)))
	sb.WriteString(fmt.Sprintf("  Likes:      %s\n", formatNumber(profile.TotalLikes)))
	sb.WriteString(fmt.Sprintf("  Credits:    %s\n", credits))
	sb.WriteString("\n")
}

// writeProjects writes one block per project in display order.
func (w *SimpleWriter) writeProjects(sb *strings.Builder, profile *model.Profile) {
	writeSection(sb, fmt.Sprintf("PROJECTS (%d, sorted by %s)", len(profile.Projects), formatSort(profile.Sort)))

	if len(profile.Projects) == 0 {
		if profile.ErrorFor(model.FlowProjects) != "" {
			sb.WriteString("  Could not load projects.\n\n")
		} else {
			sb.WriteString("  No projects yet.\n\n")
		}
		return
	}

	projects := profile.Projects
	if w.limit > 0 && len(projects) > w.limit {
		projects = projects[:w.limit]
	}

	for _, e := range projects {
		p := e.Project
		sb.WriteString(fmt.Sprintf("  * %s\n", p.DisplayTitle()))
		sb.WriteString(fmt.Sprintf("    %s\n", p.Link()))
		sb.WriteString(fmt.Sprintf("    views %s  likes %s  comments %s  credits %s\n",
			formatNumber(p.Stats.Views),
			formatNumber(p.Stats.Likes),
			formatNumber(p.Stats.Comments),
			formatNumber(e.TipsReceived),
		))
		sb.WriteString(fmt.Sprintf("    updated %s  published %s\n",
			formatDate(p.UpdatedAt), formatDate(e.Revision.CreatedAt)))
		if w.verbose {
			if desc := plainText(p.Description); desc != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", truncateString(desc, 200)))
			}
			sb.WriteString(fmt.Sprintf("    thumbnail %s\n", e.Revision.ThumbnailURL()))
		}
	}
	if hidden := len(profile.Projects) - len(projects); hidden > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", hidden))
	}
	sb.WriteString("\n")
}

// writeWarnings lists the regions that could not be loaded.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, profile *model.Profile) {
	if !profile.HasErrors() {
		return
	}

	writeSection(sb, "WARNINGS")
	for _, flow := range flowOrder {
		if msg := profile.ErrorFor(flow); msg != "" {
			sb.WriteString(fmt.Sprintf("  [!] %s: %s\n", flowLabels[flow], msg))
		}
	}
	sb.WriteString("\n")
}

// WriteRelations outputs a followers or following list.
func (w *SimpleWriter) WriteRelations(list *RelationList) (int, error) {
	var sb strings.Builder

	writeSection(&sb, fmt.Sprintf("%s of @%s (%d)", list.Title, list.Username, len(list.Users)))
	if len(list.Users) == 0 {
		sb.WriteString(fmt.Sprintf("  No %s yet.\n", list.Kind))
	}
	for _, u := range list.Users {
		line := "  " + u.Handle()
		if u.IsAdmin {
			line += " [admin]"
		}
		if w.verbose {
			line += "  " + u.ProfileURL()
		}
		sb.WriteString(line + "\n")
	}
	if list.Partial {
		sb.WriteString("  [!] list is incomplete\n")
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs the snapshots of a user with the change since the
// previous snapshot.
func (w *SimpleWriter) WriteHistory(history *History) (int, error) {
	var sb strings.Builder

	writeSection(&sb, fmt.Sprintf("HISTORY of @%s (%d snapshots)", history.Username, len(history.Snapshots)))
	if len(history.Snapshots) == 0 {
		sb.WriteString("  No snapshots saved yet.\n\n")
		return io.WriteString(w.output, sb.String())
	}

	sb.WriteString(fmt.Sprintf("  %-17s %10s %10s %9s %12s %12s\n",
		"CAPTURED", "FOLLOWERS", "FOLLOWING", "PROJECTS", "VIEWS", "CREDITS"))
	for i, s := range history.Snapshots {
		line := fmt.Sprintf("  %-17s %10s %10s %9d %12s %12s",
			s.CapturedAt.Format("2006-01-02 15:04"),
			formatCount(s.FollowerCount),
			formatCount(s.FollowingCount),
			s.ProjectCount,
			formatNumber(s.TotalViews),
			formatNumber(s.TotalCredits),
		)
		if i > 0 {
			prev := history.Snapshots[i-1]
			if prev.Digest == s.Digest {
				line += "  (projects unchanged)"
			} else {
				line += fmt.Sprintf("  (views %s, credits %s)",
					formatDelta(s.TotalViews, prev.TotalViews),
					formatDelta(s.TotalCredits, prev.TotalCredits))
			}
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// writeSection writes a section title between rules.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Generated by simprofile\n")
	sb.WriteString("https://github.com/nao1215/simprofile\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
