// Package report renders profiles for output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: Markdown with tables and a mermaid chart for sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// Besides the full profile, every writer renders a followers/following
// list and the snapshot history of a user. ProgressWriter is the live
// counterpart: it prints stats events while a profile is still loading.
//
// Design decision: We separate rendering from the profile data (which is
// in the model package) so that new output formats never touch the
// loading code.
package report
