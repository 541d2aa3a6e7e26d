package pomalg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javaorbit/orbit/src/pom"
)

func strPtr(s string) *string { return &s }
func scopePtr(s pom.Scope) *pom.Scope { return &s }
func boolPtr(b bool) *bool { return &b }

func TestMergeIdentity(t *testing.T) {
	p := &pom.Pom{
		GroupID: "org.x", ArtifactID: "c", Version: "1.0",
		Dependencies: []pom.Dependency{{GroupID: "g", ArtifactID: "a"}},
	}
	left := Merge(&pom.Pom{}, p)
	assert.Equal(t, "org.x", left.GroupID)
	assert.Equal(t, "1.0", left.Version)
	assert.Equal(t, "c", left.ArtifactID)
	assert.Nil(t, left.Parent)
	assert.Equal(t, "4.0.0", left.ModelVersion)
	assert.Equal(t, p.Dependencies, left.Dependencies)

	right := Merge(p, &pom.Pom{ArtifactID: p.ArtifactID})
	assert.Equal(t, "org.x", right.GroupID)
	assert.Equal(t, "1.0", right.Version)
	assert.Equal(t, p.Dependencies, right.Dependencies)
}

func TestMergeAssociativityOverChain(t *testing.T) {
	a := &pom.Pom{GroupID: "org.x", ArtifactID: "a", Version: "1.0", Properties: map[string]string{"k": "a"}}
	b := &pom.Pom{ArtifactID: "b", Properties: map[string]string{"k": "b", "k2": "b"}}
	c := &pom.Pom{ArtifactID: "c", Properties: map[string]string{"k2": "c"}}
	d := &pom.Pom{ArtifactID: "d", Version: "2.0"}

	step1 := Merge(a, b)
	step2 := Merge(step1, c)
	result := Merge(step2, d)

	assert.Equal(t, "org.x", result.GroupID)
	assert.Equal(t, "2.0", result.Version)
	assert.Equal(t, "d", result.ArtifactID)
	assert.Equal(t, "c", result.Properties["k2"]) // nearest wins
	assert.Equal(t, "b", result.Properties["k"])  // only b and a define k; b wins over a
}

func TestMergeDependencyFieldWiseOverride(t *testing.T) {
	parentScope := pom.ScopeRuntime
	parent := &pom.Pom{ArtifactID: "parent", Dependencies: []pom.Dependency{
		{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("1.0"), Scope: &parentScope},
	}}
	child := &pom.Pom{ArtifactID: "child", Dependencies: []pom.Dependency{
		{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("2.0")},
	}}
	merged := Merge(parent, child)
	require.Len(t, merged.Dependencies, 1)
	d := merged.Dependencies[0]
	assert.Equal(t, "2.0", *d.Version)         // child's present field wins
	assert.Equal(t, pom.ScopeRuntime, *d.Scope) // parent fills child's absent field
}

func TestApplyRulesFillsVersionFromManagement(t *testing.T) {
	deps := []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib"}}
	mgmt := []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("2.3")}}
	out := ApplyRules(deps, mgmt)
	require.Len(t, out, 1)
	assert.Equal(t, "2.3", *out[0].Version)
}

func TestApplyRulesNeverOverwritesPresentFields(t *testing.T) {
	deps := []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("9.9")}}
	mgmt := []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("2.3")}}
	out := ApplyRules(deps, mgmt)
	assert.Equal(t, "9.9", *out[0].Version)
}

func TestDependencyManagementFillsVersionScenario(t *testing.T) {
	parent := &pom.Pom{ArtifactID: "parent", DependencyManagement: &pom.DependencyManagement{
		Dependencies: []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib", Version: strPtr("2.3")}},
	}}
	child := &pom.Pom{ArtifactID: "child", GroupID: "g", Version: "1",
		Dependencies: []pom.Dependency{{GroupID: "io.q", ArtifactID: "lib"}}}
	merged := Merge(parent, child)
	Clean(merged)
	require.Len(t, merged.Dependencies, 1)
	assert.Equal(t, "2.3", *merged.Dependencies[0].Version)
}

func TestScopePruneScenario(t *testing.T) {
	p := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "1", Dependencies: []pom.Dependency{
		{GroupID: "g", ArtifactID: "x", Scope: scopePtr(pom.ScopeTest)},
		{GroupID: "g", ArtifactID: "y"},
		{GroupID: "g", ArtifactID: "z", Optional: boolPtr(true)},
		{GroupID: "g", ArtifactID: "w", Scope: scopePtr(pom.ScopeRuntime)},
	}}
	Clean(p)
	require.Len(t, p.Dependencies, 2)
	assert.Equal(t, "y", p.Dependencies[0].ArtifactID)
	assert.Equal(t, pom.ScopeCompile, EffectiveScope(p.Dependencies[0]))
	assert.Equal(t, "w", p.Dependencies[1].ArtifactID)
	assert.Equal(t, pom.ScopeRuntime, EffectiveScope(p.Dependencies[1]))
}

func TestCleanIsIdempotent(t *testing.T) {
	p := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "9",
		Properties: map[string]string{"v": "1.2"},
		Dependencies: []pom.Dependency{
			{GroupID: "g", ArtifactID: "x", Version: strPtr("${v}")},
			{GroupID: "g", ArtifactID: "y", Scope: scopePtr(pom.ScopeTest)},
		},
	}
	Clean(p)
	first := p.Clone()
	Clean(p)
	assert.Equal(t, first, p)
}

func TestScopePruneInvariantAfterClean(t *testing.T) {
	p := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "1", Dependencies: []pom.Dependency{
		{GroupID: "g", ArtifactID: "x", Scope: scopePtr(pom.ScopeProvided)},
		{GroupID: "g", ArtifactID: "y", Optional: boolPtr(true)},
		{GroupID: "g", ArtifactID: "z"},
	}}
	Clean(p)
	for _, d := range p.Dependencies {
		scope := EffectiveScope(d)
		assert.Contains(t, []pom.Scope{pom.ScopeCompile, pom.ScopeRuntime}, scope)
		assert.False(t, d.Optional != nil && *d.Optional)
	}
}

func TestPropertyResolutionWithBuiltin(t *testing.T) {
	props := map[string]string{"a": "v", "b": "c${a}"}
	got := ResolveProperty("x-${b}-${project.version}", "9", props)
	assert.Equal(t, "x-cv-9", got)
}

func TestPropertyResolutionLeavesUnresolvedPlaceholder(t *testing.T) {
	got := ResolveProperty("x-${missing}", "9", nil)
	assert.Equal(t, "x-${missing}", got)
}

func TestPropertyResolutionBoundsCycles(t *testing.T) {
	props := map[string]string{"a": "${b}", "b": "${a}"}
	got := ResolveProperty("${a}", "9", props)
	assert.True(t, strings.HasPrefix(got, "${"))
}

func TestCleanResolvesPlaceholdersAndClearsCleanedFields(t *testing.T) {
	p := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "9",
		Properties: map[string]string{"v": "1.2"},
		Dependencies: []pom.Dependency{
			{GroupID: "g", ArtifactID: "x", Version: strPtr("${v}")},
		},
	}
	Clean(p)
	require.Len(t, p.Dependencies, 1)
	assert.Equal(t, "1.2", *p.Dependencies[0].Version)
	assert.NotContains(t, *p.Dependencies[0].Version, "${")
	assert.Nil(t, p.Properties)
	assert.Nil(t, p.DependencyManagement)
}
