// Package preflight validates hardware compatibility and execution privilege
// before any mutation occurs. It never touches the filesystem beyond reads.
package preflight
