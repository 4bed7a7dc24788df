// Package model defines the core data structures used throughout simprofile.
//
// This package contains the following main types:
//   - Identity: The user whose profile is rendered
//   - Project, ProjectRevision, ProjectEntry: The project grid
//   - UserSummary: An entry of a followers or following list
//   - SortState: The order in which the project grid is shown
//   - Catalog: The canonical, mutex-guarded list of project entries
//   - ProfileState and Profile: The live page state and its immutable snapshot
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The api, fetch, stats, view and report packages all exchange
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// snapshot storage.
package model
