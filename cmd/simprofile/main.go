// Package main provides the entry point for the simprofile CLI.
//
// simprofile renders the public profile of a websim user: avatar, follower
// and following counts, every published project with its stats, and the
// credits the projects received as tips.
//
// Usage:
//
//	simprofile show <username>
//	simprofile followers [username]
//	simprofile tip [username]
//
// See --help for all available options.
package main

// main is the entry point for simprofile.
func main() {
	Execute()
}
