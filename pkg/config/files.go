package config

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/repository"
)

// DependencySpec is one entry of dependencies.json.
type DependencySpec struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Classifier string `json:"classifier,omitempty"`
	Extension  string `json:"extension,omitempty"`
	Version    string `json:"version"`
}

// Coordinate converts the entry, defaulting the extension to jar. The
// result is not validated; malformed entries fail when resolved.
func (d DependencySpec) Coordinate() artifact.Coordinate {
	return artifact.New(d.GroupID, d.ArtifactID, d.Classifier, d.Extension, d.Version)
}

// RepositorySpec is one entry of extra-repos.json.
type RepositorySpec struct {
	ID  string `json:"id"`
	URL string `json:"repourl"`
}

// LoadDependencies reads a dependencies.json file.
func LoadDependencies(path string) ([]artifact.Coordinate, error) {
	var specs []DependencySpec
	if err := readJSON(path, &specs); err != nil {
		return nil, err
	}
	out := make([]artifact.Coordinate, len(specs))
	for i, s := range specs {
		out[i] = s.Coordinate()
	}
	return out, nil
}

// LoadExtraRepositories reads an extra-repos.json file. Each repository URL
// is validated. A missing file yields an error matching os.ErrNotExist.
func LoadExtraRepositories(path string) ([]repository.Repository, error) {
	var specs []RepositorySpec
	if err := readJSON(path, &specs); err != nil {
		return nil, err
	}
	out := make([]repository.Repository, len(specs))
	for i, s := range specs {
		r := repository.Repository{ID: s.ID, URL: s.URL}
		if err := r.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: entry %d", path, i)
		}
		out[i] = r
	}
	return out, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return nil
}
