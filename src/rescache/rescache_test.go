package rescache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/javaorbit/orbit/src/pom"
)

func TestSingleFlightWithConcurrentCallers(t *testing.T) {
	c := New()
	want := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "1"}
	var calls int64

	init := func() (*pom.Pom, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return want, nil
	}

	const n = 100
	results := make([]*pom.Pom, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.GetOrInit("g:a:1", init)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
	for i := 0; i < n; i++ {
		assert.NoError(t, errs[i])
		assert.Same(t, want, results[i])
	}
}

func TestGetOrInitRetriesAfterFailure(t *testing.T) {
	c := New()
	attempts := 0
	init := func() (*pom.Pom, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("network blip")
		}
		return &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "1"}, nil
	}
	_, err := c.GetOrInit("g:a:1", init)
	assert.Error(t, err)
	p, err := c.GetOrInit("g:a:1", init)
	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, 2, attempts)
}

func TestGetDoesNotBlockOnMissingKey(t *testing.T) {
	c := New()
	assert.Nil(t, c.Get("nope:nope:1"))
}
