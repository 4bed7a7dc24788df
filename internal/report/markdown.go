package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/view"
)

// pieSlices caps the number of slices in the credits chart.
const pieSlices = 8

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the profile in Markdown format.
func (w *MarkdownWriter) Write(profile *model.Profile) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, profile)
	w.writeAlert(md, profile)
	w.writeProjects(md, profile)
	w.writeCreditsChart(md, profile)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the profile title and stats table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, profile *model.Profile) {
	md.H1(profile.Handle())
	md.PlainText("")
	md.PlainTextf("![%s](%s)", profile.Handle(), profile.AvatarURL)
	md.PlainText("")

	credits := formatNumber(profile.TotalCredits)
	if !profile.StatsComplete {
		credits += " (loading)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Stat", "Value"},
		Rows: [][]string{
			{"Followers", formatCount(profile.FollowerCount)},
			{"Following", formatCount(profile.FollowingCount)},
			{"Views", formatNumber(profile.TotalViews)},
			{"Likes", formatNumber(profile.TotalLikes)},
			{"💎 Credits", credits},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert naming the regions that failed.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, profile *model.Profile) {
	if !profile.HasErrors() {
		return
	}

	failed := make([]string, 0, len(profile.Errors))
	for _, flow := range flowOrder {
		if profile.ErrorFor(flow) != "" {
			failed = append(failed, flowLabels[flow])
		}
	}

	switch {
	case profile.ErrorFor(model.FlowProjects) != "" && len(profile.Projects) == 0:
		md.Cautionf("Could not load projects. Failed: %s.", strings.Join(failed, ", "))
	case profile.ErrorFor(model.FlowProjects) != "":
		md.Warningf("The project list is incomplete. Failed: %s.", strings.Join(failed, ", "))
	default:
		md.Importantf("Some values are not available. Failed: %s.", strings.Join(failed, ", "))
	}
	md.PlainText("")
}

// writeProjects writes the project table in display order.
func (w *MarkdownWriter) writeProjects(md *markdown.Markdown, profile *model.Profile) {
	md.H2("Projects")
	md.PlainText("")

	if len(profile.Projects) == 0 {
		md.PlainText("No projects yet.")
		md.PlainText("")
		return
	}

	md.PlainTextf("%d projects, sorted by %s.", len(profile.Projects), formatSort(profile.Sort))
	md.PlainText("")

	rows := make([][]string, len(profile.Projects))
	for i, e := range profile.Projects {
		p := e.Project
		rows[i] = []string{
			markdownLink(truncateString(p.DisplayTitle(), 50), p.Link()),
			formatNumber(p.Stats.Views),
			formatNumber(p.Stats.Likes),
			formatNumber(p.Stats.Comments),
			formatNumber(e.TipsReceived),
			formatDate(p.UpdatedAt),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Project", "Views", "Likes", "Comments", "Credits", "Updated"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, e := range profile.Projects {
		if desc := plainText(e.Project.Description); desc != "" {
			md.Details(e.Project.DisplayTitle(), desc)
		}
	}
	md.PlainText("")
}

// writeCreditsChart writes a mermaid pie chart of the most tipped projects.
func (w *MarkdownWriter) writeCreditsChart(md *markdown.Markdown, profile *model.Profile) {
	if profile.TotalCredits <= 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Credits by Project"),
		piechart.WithShowData(true),
	)

	shown := 0
	var rest int64
	byCredits := view.Project(profile.Projects, model.SortState{By: model.SortCredits, Order: model.SortDesc})
	for _, e := range byCredits {
		if e.TipsReceived <= 0 {
			continue
		}
		if shown < pieSlices {
			chart.LabelAndIntValue(e.Project.DisplayTitle(), uint64(e.TipsReceived))
			shown++
			continue
		}
		rest += e.TipsReceived
	}
	if rest > 0 {
		chart.LabelAndIntValue("Other", uint64(rest))
	}

	md.H2("Credits")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteRelations outputs a followers or following list.
func (w *MarkdownWriter) WriteRelations(list *RelationList) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(list.Title + " of @" + list.Username)
	md.PlainText("")

	if list.Partial {
		md.Warningf("The list is incomplete: only %d users could be loaded.", len(list.Users))
		md.PlainText("")
	}

	if len(list.Users) == 0 {
		md.PlainTextf("No %s yet.", list.Kind)
		return len(md.String()), md.Build()
	}

	items := make([]string, len(list.Users))
	for i, u := range list.Users {
		item := markdownLink(u.Handle(), u.ProfileURL())
		if u.IsAdmin {
			item += " (admin)"
		}
		items[i] = item
	}
	md.BulletList(items...)

	return len(md.String()), md.Build()
}

// WriteHistory outputs the snapshots of a user as a table.
func (w *MarkdownWriter) WriteHistory(history *History) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("History of @" + history.Username)
	md.PlainText("")

	if len(history.Snapshots) == 0 {
		md.Note("No snapshots saved yet.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(history.Snapshots))
	for i, s := range history.Snapshots {
		change := "-"
		if i > 0 {
			prev := history.Snapshots[i-1]
			if prev.Digest == s.Digest {
				change = "unchanged"
			} else {
				change = "views " + formatDelta(s.TotalViews, prev.TotalViews) +
					", credits " + formatDelta(s.TotalCredits, prev.TotalCredits)
			}
		}
		rows[i] = []string{
			s.CapturedAt.Format("2006-01-02 15:04"),
			formatCount(s.FollowerCount),
			formatCount(s.FollowingCount),
			strconv.Itoa(s.ProjectCount),
			formatNumber(s.TotalViews),
			formatNumber(s.TotalCredits),
			change,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Captured", "Followers", "Following", "Projects", "Views", "Credits", "Change"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [simprofile](https://github.com/nao1215/simprofile)*")
}

// markdownLink formats an inline link, escaping brackets in the text.
func markdownLink(text, url string) string {
	text = strings.NewReplacer("[", `\[`, "]", `\]`, "|", `\|`).Replace(text)
	return "[" + text + "](" + url + ")"
}
