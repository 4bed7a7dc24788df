// Package stats aggregates the tips received by a user's projects.
//
// One stats request is issued per project, all of them concurrently.
// Results are applied as they arrive, not in project order: each success
// raises the running total and updates its project, each failure counts
// as zero for that project and leaves the others untouched.
//
// Every result passes through a single applier goroutine, which is the
// only writer of the running total and of the per-project tips. Observers
// are therefore called sequentially and never concurrently.
package stats
