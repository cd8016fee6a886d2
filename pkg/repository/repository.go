// Package repository holds the ordered set of remote repositories consulted
// when resolving artifacts.
//
// An [Aggregate] is only a registry: it knows which locations exist and in
// which order they are tried. Fetching bytes is the job of a transport that
// walks the aggregate. Default repositories are registered before any extra
// repositories supplied by the user.
package repository

import (
	"slices"
	"strings"

	"github.com/matzehuels/depfetch/pkg/errors"
)

// Central is Maven Central, always registered first by [NewDefault].
var Central = Repository{ID: "central", URL: "https://repo1.maven.org/maven2/"}

// Repository is one named remote location.
type Repository struct {
	ID  string `json:"id" toml:"id" bson:"id"`
	URL string `json:"url" toml:"url" bson:"url"`
}

// Validate checks the id and URL.
func (r Repository) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "repository %q has no id", r.URL)
	}
	return errors.ValidateRepositoryURL(r.URL)
}

// Resolve joins the repository base URL with a slash-separated artifact path.
func (r Repository) Resolve(path string) string {
	return strings.TrimSuffix(r.URL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// String returns "id (url)".
func (r Repository) String() string {
	return r.ID + " (" + r.URL + ")"
}

// Aggregate is an ordered list of repositories. It is not safe for
// concurrent mutation, but once populated it is only read during resolution
// and may be shared freely.
type Aggregate struct {
	repos []Repository
}

// New returns an aggregate holding repos in the given order.
func New(repos ...Repository) *Aggregate {
	a := &Aggregate{}
	for _, r := range repos {
		a.Add(r)
	}
	return a
}

// NewDefault returns an aggregate with [Central] followed by extra.
func NewDefault(extra ...Repository) *Aggregate {
	return New(append([]Repository{Central}, extra...)...)
}

// Add appends r. Repositories sharing an id are all kept and consulted in
// registration order.
func (a *Aggregate) Add(r Repository) {
	a.repos = append(a.repos, r)
}

// Register replaces the first repository with r's id in place, or appends r
// when the id is new.
func (a *Aggregate) Register(r Repository) {
	if i := slices.IndexFunc(a.repos, func(x Repository) bool { return x.ID == r.ID }); i >= 0 {
		a.repos[i] = r
		return
	}
	a.repos = append(a.repos, r)
}

// All returns a copy of the repositories in consultation order.
func (a *Aggregate) All() []Repository {
	if a == nil {
		return nil
	}
	return slices.Clone(a.repos)
}

// Len returns the number of registered repositories.
func (a *Aggregate) Len() int {
	if a == nil {
		return 0
	}
	return len(a.repos)
}

// Validate checks every repository.
func (a *Aggregate) Validate() error {
	if a.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no repositories configured")
	}
	for _, r := range a.repos {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
