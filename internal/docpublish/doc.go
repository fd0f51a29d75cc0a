// Package docpublish regenerates a Java project's API documentation and
// publishes it through git.
//
// A run verifies the repository, runs the documentation generator, optionally
// skips publishing when the generated files did not change, and then stages,
// commits, and pushes the output directory. Every external command shares one
// timeout and the first failure ends the run.
package docpublish
