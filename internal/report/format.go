package report

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/simprofile/internal/model"
)

// notAvailable is shown for values that could not be loaded.
const notAvailable = "N/A"

// dateLayout formats project and snapshot dates.
const dateLayout = "2006-01-02"

// printer formats numbers with thousands separators, e.g. 1,234,567.
var printer = message.NewPrinter(language.English)

// formatNumber formats n with thousands separators.
func formatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// formatCount formats an optional count, "N/A" when unset.
func formatCount(n *int64) string {
	if n == nil {
		return notAvailable
	}
	return formatNumber(*n)
}

// formatDate formats t as a date, "-" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// formatSort describes a sort state, e.g. "view_count ↓".
func formatSort(s model.SortState) string {
	arrow := "↓"
	if s.Order == model.SortAsc {
		arrow = "↑"
	}
	return string(s.By) + " " + arrow
}

// formatDelta formats the change between two values, e.g. "+12" or "-3".
func formatDelta(cur, prev int64) string {
	d := cur - prev
	switch {
	case d > 0:
		return "+" + formatNumber(d)
	case d < 0:
		return "-" + formatNumber(-d)
	default:
		return "0"
	}
}

// plainText extracts the text of an HTML fragment and collapses whitespace.
// Project descriptions may carry markup; terminals and tables need text.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isHiddenElement(string(name)) {
				skip++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isHiddenElement(string(name)) && skip > 0 {
				skip--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

// isHiddenElement reports whether the text of an element is never shown.
func isHiddenElement(name string) bool {
	return name == "script" || name == "style"
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
