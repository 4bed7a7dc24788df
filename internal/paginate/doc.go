// Package paginate walks cursor-based collection endpoints.
//
// A walk requests pages of at most MaxPageSize items, threading each
// response's end cursor into the next request, until the server reports
// that no further page exists. A failed page ends the walk but never
// discards what was already accumulated: Walk returns the partial items
// together with the error that stopped it.
//
// There is no retry policy. A single failed request permanently ends
// that walk.
package paginate
