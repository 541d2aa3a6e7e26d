// Package coord defines the immutable Coordinate and Repository value types
// the rest of the resolver is built around, and their derivations into
// on-disk paths, filenames and remote URLs.
package coord

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// A Coordinate identifies an artifact by its Maven group, artifact and
// version triple. Values are immutable once constructed; construction never
// panics, even for blank or unusual inputs.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// New builds a Coordinate from its three components.
func New(group, artifact, version string) Coordinate {
	return Coordinate{Group: group, Artifact: artifact, Version: version}
}

// Parse splits a "group:artifact:version" notation string into a Coordinate.
func Parse(notation string) (Coordinate, error) {
	parts := strings.Split(notation, ":")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("invalid coordinate notation %q: expected group:artifact:version", notation)
	}
	return New(parts[0], parts[1], parts[2]), nil
}

// Notation returns the "group:artifact:version" dependency key for this coordinate.
func (c Coordinate) Notation() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// String implements fmt.Stringer as the notation form.
func (c Coordinate) String() string {
	return c.Notation()
}

// base returns "artifact-version", the common stem of every generated filename.
func (c Coordinate) base() string {
	return c.Artifact + "-" + c.Version
}

// PathFragment returns the repository-relative directory this coordinate
// lives under: group (dots as slashes) / artifact / version /.
func (c Coordinate) PathFragment() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/"
}

// JarName returns "<artifact>-<version>.jar".
func (c Coordinate) JarName() string {
	return c.base() + ".jar"
}

// PomName returns "<artifact>-<version>.pom".
func (c Coordinate) PomName() string {
	return c.base() + ".pom"
}

// SourcesJarName returns "<artifact>-<version>-sources.jar".
func (c Coordinate) SourcesJarName() string {
	return c.base() + "-sources.jar"
}

// JavadocJarName returns "<artifact>-<version>-javadoc.jar".
func (c Coordinate) JavadocJarName() string {
	return c.base() + "-javadoc.jar"
}

// IsSemVer reports whether this coordinate's version parses as a semantic
// version. Maven versions don't have to be semver (many are, e.g. "4.13.2";
// plenty aren't, e.g. "2020-06-08T06:36:19Z-jvm"), so this is advisory only
// - nothing in the resolver rejects a non-semver version - but it lets
// logging flag suspicious-looking versions for a human to double check.
func (c Coordinate) IsSemVer() bool {
	_, err := semver.NewVersion(c.Version)
	return err == nil
}

// A Repository is a named remote artifact repository base URL.
type Repository struct {
	Name    string
	BaseURL string
}

// NewRepository builds a Repository, trimming any trailing slash from the
// base URL so joins never produce a doubled separator.
func NewRepository(name, baseURL string) Repository {
	return Repository{Name: name, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// join concatenates URL segments with exactly one slash between each.
func join(parts ...string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString("/")
		}
		b.WriteString(strings.Trim(p, "/"))
	}
	return b.String()
}

// PomURL returns the remote URL of a coordinate's POM in this repository.
func (r Repository) PomURL(c Coordinate) string {
	return join(r.BaseURL, c.PathFragment(), c.PomName())
}

// JarURL returns the remote URL of a coordinate's JAR in this repository.
func (r Repository) JarURL(c Coordinate) string {
	return join(r.BaseURL, c.PathFragment(), c.JarName())
}

// SourcesJarURL returns the remote URL of a coordinate's sources JAR.
func (r Repository) SourcesJarURL(c Coordinate) string {
	return join(r.BaseURL, c.PathFragment(), c.SourcesJarName())
}

// JavadocJarURL returns the remote URL of a coordinate's javadoc JAR.
func (r Repository) JavadocJarURL(c Coordinate) string {
	return join(r.BaseURL, c.PathFragment(), c.JavadocJarName())
}
