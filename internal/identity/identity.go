// Package identity resolves whose profile is being rendered.
//
// The profile owner is resolved exactly once, before any other flow
// starts. Failing to resolve it is fatal for the page: every other flow
// needs the username.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/nao1215/simprofile/internal/model"
)

var (
	// ErrNoIdentity is returned when no resolver produced a username.
	ErrNoIdentity = errors.New("could not resolve the profile owner")

	// ErrInvalidUsername is returned for usernames the API cannot address.
	ErrInvalidUsername = errors.New("invalid username")
)

// usernamePattern matches handles accepted by the site.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// Resolver resolves the profile owner.
type Resolver interface {
	Resolve(ctx context.Context) (model.Identity, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (model.Identity, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context) (model.Identity, error) {
	return f(ctx)
}

// Static resolves to a fixed username, e.g. a command-line argument.
// The username is normalized, so "@alice" and profile URLs are accepted.
type Static string

// Resolve implements Resolver.
func (s Static) Resolve(_ context.Context) (model.Identity, error) {
	name := model.NormalizeUsername(string(s))
	if name == "" {
		return model.Identity{}, ErrNoIdentity
	}
	if !usernamePattern.MatchString(name) {
		return model.Identity{}, fmt.Errorf("%w: %q", ErrInvalidUsername, string(s))
	}
	return model.Identity{Username: name}, nil
}

// First tries each resolver in order and returns the first identity
// resolved. Resolvers that report ErrNoIdentity are skipped; any other
// error stops the search.
func First(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context) (model.Identity, error) {
		for _, r := range resolvers {
			id, err := r.Resolve(ctx)
			if err == nil {
				return id, nil
			}
			if !errors.Is(err, ErrNoIdentity) {
				return model.Identity{}, err
			}
		}
		return model.Identity{}, ErrNoIdentity
	})
}
