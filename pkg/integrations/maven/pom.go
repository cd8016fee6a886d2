package maven

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/depfetch/pkg/artifact"
)

// maxInterpolationPasses bounds nested ${...} expansion.
const maxInterpolationPasses = 10

type pomProject struct {
	Parent               *pomParent      `xml:"parent"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Packaging            string          `xml:"packaging"`
	Properties           pomProperties   `xml:"properties"`
	DependencyManagement []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Dependencies         []pomDependency `xml:"dependencies>dependency"`
}

type pomParent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type pomDependency struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Type       string         `xml:"type"`
	Classifier string         `xml:"classifier"`
	Scope      string         `xml:"scope"`
	Optional   string         `xml:"optional"`
	Exclusions []pomExclusion `xml:"exclusions>exclusion"`
}

type pomExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// pomProperties collects the free-form children of <properties>.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(pomProperties)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

func parsePOM(data []byte) (*pomProject, error) {
	var pom pomProject
	if err := xml.Unmarshal(data, &pom); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	return &pom, nil
}

func (p *pomProject) parentCoordinate() (artifact.Coordinate, bool) {
	if p.Parent == nil || p.Parent.GroupID == "" || p.Parent.ArtifactID == "" || p.Parent.Version == "" {
		return artifact.Coordinate{}, false
	}
	return artifact.New(p.Parent.GroupID, p.Parent.ArtifactID, "", "pom", p.Parent.Version), true
}

// groupID returns the declared groupId, falling back to the parent's.
func (p *pomProject) groupID() string {
	if p.GroupID == "" && p.Parent != nil {
		return p.Parent.GroupID
	}
	return p.GroupID
}

func (p *pomProject) version() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version
	}
	return p.Version
}

// model is a POM with its parent chain folded in: merged properties and
// the managed versions and scopes declared anywhere in the hierarchy.
type model struct {
	project    *pomProject
	properties map[string]string
	managed    map[string]pomDependency
}

func newModel(pom *pomProject, parent *model) *model {
	m := &model{
		project:    pom,
		properties: make(map[string]string),
		managed:    make(map[string]pomDependency),
	}
	if parent != nil {
		for k, v := range parent.properties {
			m.properties[k] = v
		}
		for k, v := range parent.managed {
			m.managed[k] = v
		}
	}
	for k, v := range pom.Properties {
		m.properties[k] = v
	}

	group, version := pom.groupID(), pom.version()
	m.properties["project.groupId"] = group
	m.properties["project.artifactId"] = pom.ArtifactID
	m.properties["project.version"] = version
	m.properties["pom.groupId"] = group
	m.properties["pom.version"] = version
	m.properties["version"] = version
	if pom.Parent != nil {
		m.properties["project.parent.groupId"] = pom.Parent.GroupID
		m.properties["project.parent.version"] = pom.Parent.Version
	}

	for _, d := range pom.DependencyManagement {
		d = m.interpolateDependency(d)
		if d.Scope == "import" {
			continue
		}
		m.managed[managementKey(d.GroupID, d.ArtifactID)] = d
	}
	return m
}

// imports lists the BOMs this model pulls into its dependency management.
func (m *model) imports() []artifact.Coordinate {
	var out []artifact.Coordinate
	for _, d := range m.project.DependencyManagement {
		d = m.interpolateDependency(d)
		if d.Scope == "import" && d.Type == "pom" && d.Version != "" {
			out = append(out, artifact.New(d.GroupID, d.ArtifactID, "", "pom", d.Version))
		}
	}
	return out
}

// importManaged merges a BOM's managed entries without overriding local ones.
func (m *model) importManaged(bom *model) {
	for k, v := range bom.managed {
		if _, ok := m.managed[k]; !ok {
			m.managed[k] = v
		}
	}
}

func (m *model) interpolate(s string) string {
	for range maxInterpolationPasses {
		if !strings.Contains(s, "${") {
			return s
		}
		next := expand(s, m.properties)
		if next == s {
			return s
		}
		s = next
	}
	return s
}

func expand(s string, props map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		end += start
		b.WriteString(s[:start])
		if v, ok := props[s[start+2:end]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}

func (m *model) interpolateDependency(d pomDependency) pomDependency {
	d.GroupID = m.interpolate(strings.TrimSpace(d.GroupID))
	d.ArtifactID = m.interpolate(strings.TrimSpace(d.ArtifactID))
	d.Version = m.interpolate(strings.TrimSpace(d.Version))
	d.Type = m.interpolate(strings.TrimSpace(d.Type))
	d.Classifier = m.interpolate(strings.TrimSpace(d.Classifier))
	d.Scope = m.interpolate(strings.TrimSpace(d.Scope))
	d.Optional = m.interpolate(strings.TrimSpace(d.Optional))
	return d
}

// dependencies converts the declared dependencies into edges, filling
// versions and scopes from dependency management. Entries that still
// carry an unresolved expression or lack a version are returned in skipped.
func (m *model) dependencies() (deps []artifact.Dependency, skipped []string) {
	for _, raw := range m.project.Dependencies {
		d := m.interpolateDependency(raw)
		if managed, ok := m.managed[managementKey(d.GroupID, d.ArtifactID)]; ok {
			if d.Version == "" {
				d.Version = managed.Version
			}
			if d.Scope == "" {
				d.Scope = managed.Scope
			}
			if len(d.Exclusions) == 0 {
				d.Exclusions = managed.Exclusions
			}
		}
		if d.Version == "" || unresolved(d.GroupID, d.ArtifactID, d.Version, d.Classifier, d.Type) {
			skipped = append(skipped, d.GroupID+":"+d.ArtifactID+":"+d.Version)
			continue
		}

		classifier, ext := d.Classifier, extensionForType(d.Type)
		if d.Type == "test-jar" && classifier == "" {
			classifier = "tests"
		}
		dep := artifact.Dependency{
			Coordinate: artifact.New(d.GroupID, d.ArtifactID, classifier, ext, d.Version),
			Scope:      artifact.ParseScope(d.Scope),
			Optional:   d.Optional == "true",
		}
		for _, e := range d.Exclusions {
			dep.Exclusions = append(dep.Exclusions, artifact.Exclusion{
				Group: m.interpolate(strings.TrimSpace(e.GroupID)),
				Name:  m.interpolate(strings.TrimSpace(e.ArtifactID)),
			})
		}
		deps = append(deps, dep)
	}
	return deps, skipped
}

func managementKey(group, name string) string {
	return group + ":" + name
}

func unresolved(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(f, "${") {
			return true
		}
	}
	return false
}

// extensionForType maps a POM dependency type to the file extension
// stored in the repository.
func extensionForType(t string) string {
	switch t {
	case "", "jar", "test-jar", "bundle", "maven-plugin", "ejb", "ejb-client", "java-source", "javadoc":
		return artifact.DefaultExtension
	default:
		return t
	}
}
