package artifact

import (
	"strings"

	"github.com/matzehuels/depfetch/pkg/errors"
)

// DefaultExtension is used when a coordinate string omits the extension.
const DefaultExtension = "jar"

// Coordinate identifies one artifact version. Coordinates are comparable
// values; two coordinates are equal when all five fields are equal.
type Coordinate struct {
	Group      string `json:"group" bson:"group"`
	Name       string `json:"name" bson:"name"`
	Classifier string `json:"classifier,omitempty" bson:"classifier,omitempty"`
	Extension  string `json:"extension" bson:"extension"`
	Version    string `json:"version" bson:"version"`
}

// Parse parses "group:name[:extension[:classifier]]:version".
func Parse(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{Group: parts[0], Name: parts[1], Version: parts[2]}
	case 4:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid coordinate %q (expected group:name[:extension[:classifier]]:version)", s)
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) Coordinate {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a coordinate from its parts, defaulting the extension.
func New(group, name, classifier, extension, version string) Coordinate {
	if extension == "" {
		extension = DefaultExtension
	}
	return Coordinate{Group: group, Name: name, Classifier: classifier, Extension: extension, Version: version}
}

// Validate reports whether c can be used to locate an artifact: group, name
// and version must be present and no field may contain path or delimiter
// characters.
func (c Coordinate) Validate() error {
	if c.Group == "" || c.Name == "" || c.Version == "" {
		return errors.New(errors.ErrCodeMalformedCoordinate,
			"coordinate %q is missing group, name or version", c.String())
	}
	fields := [...]struct{ name, value string }{
		{"group", c.Group},
		{"name", c.Name},
		{"classifier", c.Classifier},
		{"extension", c.Extension},
		{"version", c.Version},
	}
	for _, f := range fields {
		if err := errors.ValidateSegment(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// String returns the canonical form group:name:extension[:classifier]:version.
func (c Coordinate) String() string {
	ext := c.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	var b strings.Builder
	b.WriteString(c.Group)
	b.WriteByte(':')
	b.WriteString(c.Name)
	b.WriteByte(':')
	b.WriteString(ext)
	if c.Classifier != "" {
		b.WriteByte(':')
		b.WriteString(c.Classifier)
	}
	b.WriteByte(':')
	b.WriteString(c.Version)
	return b.String()
}

// Key returns "group:name", the version-less identity used by exclusions.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Name
}

// WithClassifier returns the companion coordinate that differs from c only
// in its classifier, e.g. the "sources" jar of a library.
func (c Coordinate) WithClassifier(classifier string) Coordinate {
	c.Classifier = classifier
	return c
}

// WithExtension returns a copy of c with a different extension.
func (c Coordinate) WithExtension(ext string) Coordinate {
	c.Extension = ext
	return c
}

// Filename returns the repository file name: name-version[-classifier].extension.
func (c Coordinate) Filename() string {
	name := c.Name + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	ext := c.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return name + "." + ext
}

// Path returns the slash-separated repository path of c in the standard
// layout: group/as/dirs/name/version/filename.
func (c Coordinate) Path() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Name + "/" + c.Version + "/" + c.Filename()
}
