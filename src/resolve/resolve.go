// Package resolve is the resolver engine: two recursive procedures -
// exploreMain, which walks the dependency tree and downloads JARs, and
// fetchParentPom, which walks a POM's parent chain and merges upward -
// both routed through a single-flight coordinate cache and an elastic
// worker pool, joined by a top-level Resolve/ResolveAll call.
package resolve

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/op/go-logging.v1"

	"github.com/javaorbit/orbit/src/classpath"
	"github.com/javaorbit/orbit/src/cmap"
	"github.com/javaorbit/orbit/src/coord"
	"github.com/javaorbit/orbit/src/fetch"
	"github.com/javaorbit/orbit/src/fs"
	"github.com/javaorbit/orbit/src/pom"
	"github.com/javaorbit/orbit/src/pomalg"
	"github.com/javaorbit/orbit/src/rerr"
	"github.com/javaorbit/orbit/src/rescache"
	"github.com/javaorbit/orbit/src/taskpool"
)

var log = logging.MustGetLogger("resolve")

// Options configures a Resolve invocation. The zero value is usable; see
// withDefaults for what it resolves to.
type Options struct {
	// Timeout bounds each individual network request, not the resolve as a whole.
	Timeout time.Duration
	// Workers is the size of the worker pool both procedures run on.
	Workers int
	// MaxRetries is the number of transient-failure retries per request.
	MaxRetries int
	// Cache, if set, lets a long-lived caller reuse a warm coordinate cache
	// across multiple Resolve calls. A fresh one is created if nil.
	Cache *rescache.Cache
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Cache == nil {
		o.Cache = rescache.New()
	}
	return o
}

// Resolve resolves the transitive dependency closure of root as served from
// repo, caching POMs and JARs under baseDir, and returns the resulting
// classpath. A failure in any task aborts the whole call with the first
// error encountered; outstanding tasks are cancelled cooperatively.
func Resolve(root coord.Coordinate, repo coord.Repository, baseDir string, opts Options) (classpath.Resolved, error) {
	return ResolveAll([]coord.Coordinate{root}, repo, baseDir, opts)
}

// ResolveAll resolves the union of the transitive dependency closures of
// every coordinate in roots - one coordinate per dependency a module
// manifest declares, not the module's own coordinate (a local module has no
// published POM/JAR of its own to fetch). All roots share one coordinate
// cache, one classpath builder and one worker pool, so a package reachable
// from more than one declared dependency is still only fetched once.
func ResolveAll(roots []coord.Coordinate, repo coord.Repository, baseDir string, opts Options) (classpath.Resolved, error) {
	opts = opts.withDefaults()
	pool := taskpool.New(opts.Workers)
	defer func() {
		for i := 0; i < opts.Workers; i++ {
			pool.Stop()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &resolver{
		cache:    opts.Cache,
		client:   fetch.NewClient(opts.Timeout, opts.MaxRetries),
		baseDir:  baseDir,
		pool:     pool,
		cp:       classpath.NewBuilder(),
		explored: cmap.New[string, struct{}](cmap.DefaultShardCount, cmap.XXHash),
		ctx:      ctx,
		cancel:   cancel,
	}

	sink := taskpool.NewSink()
	for _, root := range roots {
		root := root
		sink.Spawn(pool, func() error {
			return r.exploreMain(root, repo, sink)
		})
	}
	if err := sink.Drain(); err != nil {
		return nil, err
	}
	return r.cp.Build(), nil
}

type resolver struct {
	cache   *rescache.Cache
	client  *fetch.Client
	baseDir string
	pool    taskpool.Pool
	ctx     context.Context
	cancel  context.CancelFunc

	// explored records which coordinates exploreMain has already committed
	// to handling, so a coordinate reachable from more than one parent (the
	// common case once a manifest declares several dependencies that share
	// a transitive package) is only downloaded and fanned out once rather
	// than once per incoming edge.
	explored *cmap.Map[string, struct{}]

	mu sync.Mutex
	cp *classpath.Builder
}

// ancestry is the set of coordinate notations visited on the current
// parent-chain traversal, used to detect a parent chain that loops back on
// itself.
type ancestry map[string]bool

func (a ancestry) with(notation string) (ancestry, bool) {
	if a[notation] {
		return nil, false
	}
	next := make(ancestry, len(a)+1)
	for k := range a {
		next[k] = true
	}
	next[notation] = true
	return next, true
}

// mainCacheKey and parentCacheKey namespace the shared coordinate cache so
// a coordinate visited both as a direct dependency (cleaned form) and as
// someone's parent (merged-but-uncleaned form) caches both shapes
// independently rather than one clobbering the other. See DESIGN.md for
// the rationale.
func mainCacheKey(c coord.Coordinate) string   { return "main:" + c.Notation() }
func parentCacheKey(c coord.Coordinate) string { return "parent:" + c.Notation() }

func (r *resolver) cancelled() error {
	select {
	case <-r.ctx.Done():
		return rerr.New(rerr.Cancelled, "", r.ctx.Err())
	default:
		return nil
	}
}

// exploreMain fetches coord's cleaned POM, downloads its JAR if not already
// cached on disk, records it in the classpath, then fans a child
// exploreMain task out for each of its (already-pruned) dependencies, bound
// to the same repository.
func (r *resolver) exploreMain(c coord.Coordinate, repo coord.Repository, sink *taskpool.Sink) error {
	if err := r.cancelled(); err != nil {
		return err
	}
	if !r.explored.Add(c.Notation(), struct{}{}) {
		// Some other edge into this coordinate got here first and owns its
		// download and fan-out; nothing left for this edge to do.
		return nil
	}
	log.Debug("exploring %s", c.Notation())
	if !c.IsSemVer() {
		log.Warning("%s has a non-semver version, double check it resolved to what you expect", c.Notation())
	}
	p, err := r.fetchPom(c, repo)
	if err != nil {
		r.cancel()
		return err
	}

	jarPath := filepath.Join(r.baseDir, c.JarName())
	if !fs.FileExists(jarPath) {
		data, err := r.client.Get(r.ctx, c.Notation(), repo.JarURL(c))
		if err != nil {
			r.cancel()
			return err
		}
		if err := fs.WriteFile(bytes.NewReader(data), jarPath, 0664); err != nil {
			err = rerr.New(rerr.IoError, c.Notation(), err)
			r.cancel()
			return err
		}
	}

	r.mu.Lock()
	r.cp.Add(c.Notation(), r.baseDir, c.JarName())
	r.mu.Unlock()

	for _, dep := range p.Dependencies {
		version := ""
		if dep.Version != nil {
			version = *dep.Version
		}
		childCoord := coord.New(dep.GroupID, dep.ArtifactID, version)
		sink.Spawn(r.pool, func() error {
			return r.exploreMain(childCoord, repo, sink)
		})
	}
	return nil
}

// fetchPom returns coord's cleaned POM, reading it from the on-disk cache
// if present, or downloading, parsing, merging up its parent chain,
// cleaning and persisting it otherwise. It is single-flight through the
// coordinate cache: concurrent callers for the same coordinate share one
// initializer's result.
func (r *resolver) fetchPom(c coord.Coordinate, repo coord.Repository) (*pom.Pom, error) {
	p, err := r.cache.GetOrInit(mainCacheKey(c), func() (*pom.Pom, error) {
		pomPath := filepath.Join(r.baseDir, c.PomName())
		if fs.FileExists(pomPath) {
			data, err := os.ReadFile(pomPath)
			if err != nil {
				return nil, rerr.New(rerr.IoError, c.Notation(), err)
			}
			return pom.Parse(data)
		}

		data, err := r.client.Get(r.ctx, c.Notation(), repo.PomURL(c))
		if err != nil {
			return nil, err
		}
		p, err := pom.Parse(data)
		if err != nil {
			return nil, err
		}
		if p.Parent != nil {
			parentCoord := coord.New(p.Parent.GroupID, p.Parent.ArtifactID, p.Parent.Version)
			ancestors, _ := ancestry{}.with(c.Notation())
			parent, err := r.fetchParentPom(parentCoord, repo, ancestors)
			if err != nil {
				return nil, err
			}
			p = pomalg.Merge(parent, p)
		}
		pomalg.Clean(p)

		text, err := pom.Serialize(p)
		if err != nil {
			return nil, err
		}
		if err := fs.WriteFile(bytes.NewReader(text), pomPath, 0664); err != nil {
			return nil, rerr.New(rerr.IoError, c.Notation(), err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// fetchParentPom mirrors fetchPom but never persists to disk and never
// cleans: parents are kept in raw-merged form so they can still be merged
// further upward. It detects a parent chain that revisits a coordinate
// already on the current traversal and reports rerr.Cycle rather than
// looping forever.
func (r *resolver) fetchParentPom(c coord.Coordinate, repo coord.Repository, ancestors ancestry) (*pom.Pom, error) {
	next, ok := ancestors.with(c.Notation())
	if !ok {
		return nil, rerr.New(rerr.Cycle, c.Notation(), fmt.Errorf("parent chain revisits %s", c.Notation()))
	}
	p, err := r.cache.GetOrInit(parentCacheKey(c), func() (*pom.Pom, error) {
		data, err := r.client.Get(r.ctx, c.Notation(), repo.PomURL(c))
		if err != nil {
			return nil, err
		}
		p, err := pom.Parse(data)
		if err != nil {
			return nil, err
		}
		if p.Parent != nil {
			parentCoord := coord.New(p.Parent.GroupID, p.Parent.ArtifactID, p.Parent.Version)
			parent, err := r.fetchParentPom(parentCoord, repo, next)
			if err != nil {
				return nil, err
			}
			p = pomalg.Merge(parent, p)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}
