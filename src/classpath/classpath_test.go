package classpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIsDeduplicatedAndLexicographic(t *testing.T) {
	b := NewBuilder()
	b.Add("org.x:d2:1", "/base", "d2-1.jar")
	b.Add("org.x:d1:1", "/base", "d1-1.jar")
	b.Add("org.x:d1:1", "/base", "d1-1.jar") // duplicate, ignored
	b.Add("org.x:r:1", "/base", "r-1.jar")

	got := b.Build()
	assert.Equal(t, Resolved{"/base/d1-1.jar", "/base/d2-1.jar", "/base/r-1.jar"}, got)
}

func TestEndToEndScenarioOrdering(t *testing.T) {
	b := NewBuilder()
	for _, c := range []string{"R", "D1", "D2", "D1'", "D2'"} {
		b.Add(c, "/base", c+".jar")
	}
	got := b.Build()
	assert.Equal(t, Resolved{
		"/base/D1.jar", "/base/D1'.jar", "/base/D2.jar", "/base/D2'.jar", "/base/R.jar",
	}, got)
}
