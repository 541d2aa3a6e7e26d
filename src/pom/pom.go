// Package pom is the in-memory Project Object Model the resolver parses,
// merges, cleans and re-serializes. Every field that Maven lets a document
// omit is represented as an explicit pointer so "absent" and "empty string"
// are never confused with each other.
package pom

// Scope labels a dependency's participation in compile vs runtime vs test
// classpaths. A scope absent in the source POM is a nil *Scope on
// Dependency, not Scope(""); EffectiveScope in package pomalg (which maps
// nil to compile) is what callers should compare against.
type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeProvided Scope = "provided"
)

// Parent is the `<parent>` reference a POM may declare.
type Parent struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Dependency is a single `<dependency>` entry, either in `<dependencies>` or
// in `<dependencyManagement><dependencies>`.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    *string
	Scope      *Scope
	Type       *string
	Optional   *bool
}

// Key returns the (groupId, artifactId) identity used to match a dependency
// against a dependency-management rule or a same-coordinate override.
func (d Dependency) Key() DependencyKey {
	return DependencyKey{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// DependencyKey is the (groupId, artifactId) pair dependency-management and
// merge rules match on; version is deliberately excluded.
type DependencyKey struct {
	GroupID    string
	ArtifactID string
}

// DependencyManagement holds version/scope/type/optional defaults keyed by
// (groupId, artifactId), applied to any dependency with a matching key.
type DependencyManagement struct {
	Dependencies []Dependency
}

// Pom is a parsed (and possibly merged/cleaned) project object model.
//
// Invariant after Parse: GroupID and Version are non-empty, filled from
// Parent if the document itself omitted them. A cleaned Pom (produced by
// pomalg.Clean) additionally has Parent, Properties and
// DependencyManagement all nil.
type Pom struct {
	ModelVersion         string
	GroupID              string
	ArtifactID           string
	Version              string
	Parent               *Parent
	Properties           map[string]string
	Dependencies         []Dependency
	DependencyManagement *DependencyManagement
}

// Clone returns a deep copy, so the coordinate cache can share a single
// stored Pom by value without callers aliasing each other's mutations.
func (p *Pom) Clone() *Pom {
	if p == nil {
		return nil
	}
	c := *p
	if p.Parent != nil {
		parent := *p.Parent
		c.Parent = &parent
	}
	if p.Properties != nil {
		c.Properties = make(map[string]string, len(p.Properties))
		for k, v := range p.Properties {
			c.Properties[k] = v
		}
	}
	if p.Dependencies != nil {
		c.Dependencies = make([]Dependency, len(p.Dependencies))
		for i, d := range p.Dependencies {
			c.Dependencies[i] = cloneDependency(d)
		}
	}
	if p.DependencyManagement != nil {
		mgmt := &DependencyManagement{Dependencies: make([]Dependency, len(p.DependencyManagement.Dependencies))}
		for i, d := range p.DependencyManagement.Dependencies {
			mgmt.Dependencies[i] = cloneDependency(d)
		}
		c.DependencyManagement = mgmt
	}
	return &c
}

func cloneDependency(d Dependency) Dependency {
	out := d
	if d.Version != nil {
		v := *d.Version
		out.Version = &v
	}
	if d.Scope != nil {
		s := *d.Scope
		out.Scope = &s
	}
	if d.Type != nil {
		ty := *d.Type
		out.Type = &ty
	}
	if d.Optional != nil {
		o := *d.Optional
		out.Optional = &o
	}
	return out
}
