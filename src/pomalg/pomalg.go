// Package pomalg implements the pure functions over the POM model: merging
// a child onto its parent, applying dependency-management defaults,
// property placeholder resolution, and the cleaning pass that turns a
// merged POM into the parent-less, property-free form persisted to disk.
//
// Every function here is total: given sparse or empty inputs they produce a
// well-formed (if equally sparse) output. Nothing in this package performs
// I/O or can fail.
package pomalg

import (
	"fmt"
	"strings"

	"gopkg.in/op/go-logging.v1"

	"github.com/javaorbit/orbit/src/pom"
)

var log = logging.MustGetLogger("pomalg")

// maxPropertyDepth bounds property expansion recursion so a cycle among
// property definitions degrades to "unresolved" rather than looping
// forever.
const maxPropertyDepth = 64

// EffectiveScope returns d's scope, defaulting absent scope to compile
// (spec's resolved Open Question: absent means compile, and clean compares
// the effective scope set-wise against {compile, runtime} rather than
// collapsing everything without an explicit override to compile).
func EffectiveScope(d pom.Dependency) pom.Scope {
	if d.Scope == nil {
		return pom.ScopeCompile
	}
	return *d.Scope
}

func effectiveOptional(d pom.Dependency) bool {
	return d.Optional != nil && *d.Optional
}

// Merge yields a new Pom combining a parent and a child: the child's
// identity fields win where present, the parent fills what's absent, and
// properties/dependencies/dependencyManagement are merged with "child wins
// on present fields, parent fills absent fields" applied uniformly.
func Merge(parent, child *pom.Pom) *pom.Pom {
	if parent == nil {
		return emptyIfNil(child)
	}
	if child == nil {
		return emptyIfNil(parent)
	}

	merged := &pom.Pom{
		ModelVersion: "4.0.0",
		GroupID:      firstNonEmpty(child.GroupID, parent.GroupID),
		ArtifactID:   child.ArtifactID,
		Version:      firstNonEmpty(child.Version, parent.Version),
		Parent:       nil,
		Properties:   mergeProperties(parent.Properties, child.Properties),
		Dependencies: mergeDependencyLists(parent.Dependencies, child.Dependencies),
	}
	mgmt := mergeDependencyLists(managementDeps(parent), managementDeps(child))
	if len(mgmt) > 0 {
		merged.DependencyManagement = &pom.DependencyManagement{Dependencies: mgmt}
	}
	return merged
}

func managementDeps(p *pom.Pom) []pom.Dependency {
	if p == nil || p.DependencyManagement == nil {
		return nil
	}
	return p.DependencyManagement.Dependencies
}

func emptyIfNil(p *pom.Pom) *pom.Pom {
	if p == nil {
		return &pom.Pom{ModelVersion: "4.0.0"}
	}
	c := p.Clone()
	c.ModelVersion = "4.0.0"
	c.Parent = nil
	return c
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func mergeProperties(parent, child map[string]string) map[string]string {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	out := make(map[string]string, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

// mergeDependencyLists merges two dependency lists keyed by (groupId,
// artifactId): a child entry field-wise overrides the matching parent
// entry (only its present fields take effect), entries unique to either
// side are kept as-is, and the result is ordered parent-first then
// child-only entries appended, giving deterministic output for a fixed
// input order.
func mergeDependencyLists(parent, child []pom.Dependency) []pom.Dependency {
	if len(parent) == 0 {
		return cloneAll(child)
	}
	if len(child) == 0 {
		return cloneAll(parent)
	}

	childByKey := make(map[pom.DependencyKey]pom.Dependency, len(child))
	for _, d := range child {
		childByKey[d.Key()] = d
	}

	seen := make(map[pom.DependencyKey]bool, len(parent))
	out := make([]pom.Dependency, 0, len(parent)+len(child))
	for _, p := range parent {
		seen[p.Key()] = true
		if c, ok := childByKey[p.Key()]; ok {
			out = append(out, overrideDependency(p, c))
		} else {
			out = append(out, p)
		}
	}
	for _, c := range child {
		if !seen[c.Key()] {
			out = append(out, c)
		}
	}
	return out
}

func cloneAll(deps []pom.Dependency) []pom.Dependency {
	out := make([]pom.Dependency, len(deps))
	copy(out, deps)
	return out
}

// overrideDependency applies child's present fields over parent's, keeping
// parent's fields where child leaves them absent. GroupID/ArtifactID are
// shared identity (they're equal by construction, since both sides have
// the same Key()).
func overrideDependency(parent, child pom.Dependency) pom.Dependency {
	out := parent
	out.GroupID = child.GroupID
	out.ArtifactID = child.ArtifactID
	if child.Version != nil {
		out.Version = child.Version
	}
	if child.Scope != nil {
		out.Scope = child.Scope
	}
	if child.Type != nil {
		out.Type = child.Type
	}
	if child.Optional != nil {
		out.Optional = child.Optional
	}
	return out
}

// ApplyRules fills each dependency's absent fields from the matching
// dependency-management rule (same groupId/artifactId); present fields on
// the dependency are never overwritten.
func ApplyRules(deps []pom.Dependency, mgmt []pom.Dependency) []pom.Dependency {
	if len(mgmt) == 0 {
		return cloneAll(deps)
	}
	rules := make(map[pom.DependencyKey]pom.Dependency, len(mgmt))
	for _, m := range mgmt {
		if _, exists := rules[m.Key()]; !exists {
			rules[m.Key()] = m
		}
	}
	out := make([]pom.Dependency, len(deps))
	for i, d := range deps {
		rule, ok := rules[d.Key()]
		if !ok {
			out[i] = d
			continue
		}
		filled := d
		if filled.Version == nil {
			filled.Version = rule.Version
		}
		if filled.Scope == nil {
			filled.Scope = rule.Scope
		}
		if filled.Type == nil {
			filled.Type = rule.Type
		}
		if filled.Optional == nil {
			filled.Optional = rule.Optional
		}
		out[i] = filled
	}
	return out
}

// Clean reduces p in place: applies dependencyManagement to dependencies,
// retains only deps whose effective scope is compile or runtime and whose
// optional flag is false, expands ${...} placeholders in each remaining
// dep's version, and clears properties, dependencyManagement, and (if
// nothing survived pruning) dependencies.
func Clean(p *pom.Pom) {
	deps := p.Dependencies
	if p.DependencyManagement != nil {
		deps = ApplyRules(deps, p.DependencyManagement.Dependencies)
	}

	kept := make([]pom.Dependency, 0, len(deps))
	for _, d := range deps {
		scope := EffectiveScope(d)
		if effectiveOptional(d) {
			continue
		}
		if scope != pom.ScopeCompile && scope != pom.ScopeRuntime {
			continue
		}
		if d.Version != nil {
			resolved := ResolveProperty(*d.Version, p.Version, p.Properties)
			d.Version = &resolved
		}
		// A retained dep is compile-or-runtime and non-optional by
		// definition; normalize an explicit-but-default scope/optional
		// marker to absent so Serialize->Parse round-trips a cleaned POM
		// to itself regardless of what the source POM spelled out.
		d.Optional = nil
		if scope == pom.ScopeCompile {
			d.Scope = nil
		}
		kept = append(kept, d)
	}

	p.Properties = nil
	p.DependencyManagement = nil
	p.Parent = nil
	if len(kept) == 0 {
		p.Dependencies = nil
	} else {
		p.Dependencies = kept
	}
}

// ResolveProperty expands every ${name} placeholder in text, recursively
// resolving placeholders nested inside property values, with
// ${project.version} bound to projectVersion regardless of what's in
// props. An undefined name or one whose expansion exceeds maxPropertyDepth
// is left as its original "${name}" text and logged once, rather than
// treated as an error.
func ResolveProperty(text, projectVersion string, props map[string]string) string {
	return resolveDepth(text, projectVersion, props, 0)
}

func resolveDepth(text, projectVersion string, props map[string]string, depth int) string {
	if depth >= maxPropertyDepth || !strings.Contains(text, "${") {
		return text
	}
	var out strings.Builder
	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "${")
		if start == -1 {
			out.WriteString(text[i:])
			break
		}
		start += i
		out.WriteString(text[i:start])
		end := strings.Index(text[start:], "}")
		if end == -1 {
			out.WriteString(text[start:])
			break
		}
		end += start
		name := text[start+2 : end]
		out.WriteString(resolveName(name, projectVersion, props, depth))
		i = end + 1
	}
	return out.String()
}

func resolveName(name, projectVersion string, props map[string]string, depth int) string {
	if name == "project.version" {
		return projectVersion
	}
	value, ok := props[name]
	if !ok {
		log.Warning("unresolved property placeholder ${%s}", name)
		return "${" + name + "}"
	}
	if depth+1 >= maxPropertyDepth {
		log.Warning("property ${%s} exceeded max expansion depth %d", name, maxPropertyDepth)
		return fmt.Sprintf("${%s}", name)
	}
	return resolveDepth(value, projectVersion, props, depth+1)
}
