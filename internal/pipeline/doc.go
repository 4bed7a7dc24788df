// Package pipeline runs the load flows of a profile page.
//
// A profile is loaded by three independent flows: the follower count,
// the following count, and the projects with their stats. Each flow is a
// Step. The pipeline starts all steps at once and waits for them; a step
// that fails records its error on the profile state and degrades only its
// own region, so the other steps are never affected.
//
// Design decision: steps run concurrently rather than in sequence because
// none of them reads what another writes. The only shared value is the
// model.ProfileState, which guards itself.
//
// BatchProcessor loads several profiles concurrently with a bounded
// number of profiles in flight, using errgroup.
package pipeline
