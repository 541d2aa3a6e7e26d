// Package toolchain defines the narrow interfaces the resolver's output
// feeds into: compiling, documenting and archiving a resolved classpath.
// No implementation lives here - invoking javac/javadoc/jar is an external
// collaborator's job - this package exists only so that collaborator has
// something stable to satisfy, the same role the teacher's core.Cache
// interface plays for its own external cache implementations.
package toolchain

import (
	"context"

	"github.com/javaorbit/orbit/src/classpath"
)

// A Compiler turns source files into class files against a resolved
// classpath.
type Compiler interface {
	Compile(ctx context.Context, cp classpath.Resolved, srcs []string, outDir string) error
}

// A Javadoc generates documentation for source files against a resolved
// classpath.
type Javadoc interface {
	Document(ctx context.Context, cp classpath.Resolved, srcs []string, outDir string) error
}

// An Archiver packs a directory of class files into a single archive.
type Archiver interface {
	Archive(ctx context.Context, classDir string, out string) error
}
