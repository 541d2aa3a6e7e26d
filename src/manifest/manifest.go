// Package manifest loads the minimal ".orbitmodule" ini file that names a
// module's own coordinate and its direct dependencies, the same way the
// teacher's core.ReadConfigFiles loads ".plzconfig": a gcfg-tagged struct
// and a single ReadFileInto call. Profiles, multi-module workspaces and any
// richer build-file grammar are out of scope; this exists only to give
// cmd/orbit something to parse on the way to calling the resolver.
package manifest

import (
	"strings"

	"github.com/please-build/gcfg"

	"github.com/javaorbit/orbit/src/coord"
)

// Module is the parsed contents of an .orbitmodule file.
type Module struct {
	Group      string
	Artifact   string
	Version    string
	Dependency []string // "group:artifact:version" notation, repeated key
	Repository []string // "name=baseURL", repeated key
}

type iniFile struct {
	Module struct {
		Group      string
		Artifact   string
		Version    string
		Dependency []string
		Repository []string
	}
}

// Load parses the .orbitmodule file at path.
func Load(path string) (*Module, error) {
	var f iniFile
	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, err
	}
	return &Module{
		Group:      f.Module.Group,
		Artifact:   f.Module.Artifact,
		Version:    f.Module.Version,
		Dependency: f.Module.Dependency,
		Repository: f.Module.Repository,
	}, nil
}

// RootCoordinate returns the module's own coordinate.
func (m *Module) RootCoordinate() coord.Coordinate {
	return coord.New(m.Group, m.Artifact, m.Version)
}

// Dependencies parses the module's declared dependency notations.
func (m *Module) Dependencies() ([]coord.Coordinate, error) {
	coords := make([]coord.Coordinate, 0, len(m.Dependency))
	for _, d := range m.Dependency {
		c, err := coord.Parse(d)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// Repositories parses the module's declared "name=baseURL" repository
// entries, in declaration order. cmd/orbit resolves against the first entry
// only; the others are not tried.
func (m *Module) Repositories() ([]coord.Repository, error) {
	repos := make([]coord.Repository, 0, len(m.Repository))
	for _, r := range m.Repository {
		name, url, ok := strings.Cut(r, "=")
		if !ok {
			name, url = r, r
		}
		repos = append(repos, coord.NewRepository(name, url))
	}
	return repos, nil
}
