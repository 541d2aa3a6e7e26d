// Command orbit resolves a module's transitive dependency closure and
// prints the resulting classpath, one jar path per line. It is a single
// command, not a subcommand dispatcher: point it at a manifest and it does
// the one thing this tool does.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/thought-machine/go-flags"
	"gopkg.in/op/go-logging.v1"

	"github.com/javaorbit/orbit/src/fs"
	"github.com/javaorbit/orbit/src/manifest"
	"github.com/javaorbit/orbit/src/resolve"
)

var log = logging.MustGetLogger("orbit")

var opts struct {
	Manifest string        `short:"m" long:"manifest" default:".orbitmodule" description:"Path to the module manifest to resolve"`
	BaseDir  string        `short:"d" long:"base_dir" default:".orbit" description:"Directory POMs and jars are cached under"`
	Timeout  time.Duration `short:"t" long:"timeout" default:"30s" description:"Per-request network timeout"`
	Workers  int           `short:"w" long:"workers" default:"8" description:"Number of concurrent resolve workers"`
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(); err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
}

func run() error {
	manifestPath := fs.ExpandHomePath(opts.Manifest)
	baseDir := fs.ExpandHomePath(opts.BaseDir)

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest %s: %w", manifestPath, err)
	}
	repos, err := m.Repositories()
	if err != nil {
		return fmt.Errorf("parsing repositories: %w", err)
	}
	if len(repos) == 0 {
		return fmt.Errorf("manifest %s declares no repositories", manifestPath)
	}

	deps, err := m.Dependencies()
	if err != nil {
		return fmt.Errorf("parsing dependencies: %w", err)
	}
	if len(deps) == 0 {
		return fmt.Errorf("manifest %s declares no dependencies", manifestPath)
	}

	if err := os.MkdirAll(baseDir, 0775); err != nil {
		return fmt.Errorf("creating base dir %s: %w", baseDir, err)
	}

	cp, err := resolve.ResolveAll(deps, repos[0], baseDir, resolve.Options{
		Timeout: opts.Timeout,
		Workers: opts.Workers,
	})
	if err != nil {
		return fmt.Errorf("resolving dependencies of %s: %w", m.RootCoordinate().Notation(), err)
	}

	for _, jar := range cp {
		fmt.Println(jar)
	}
	return nil
}
