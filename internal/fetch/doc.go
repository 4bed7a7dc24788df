// Package fetch loads the collections a profile page renders.
//
// Each fetcher wraps paginate.Walk with the URL construction and item
// normalization of one endpoint. Fetchers never fail outright: a walk
// that breaks part way returns the items fetched so far together with
// the error, and the caller decides how to degrade.
package fetch
