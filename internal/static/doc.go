// Package static resolves request paths to files under a single served root.
//
// This package is internal to softchip and owns every filesystem decision the
// server makes:
//
//   - [Resolver]: maps a URL path to an open [Asset] inside the served root
//   - [ContentType]: case-sensitive extension lookup in a fixed MIME table
//   - [ErrForbidden] / [ErrNotFound]: the two ways a resolution can fail
//
// Directories are never listed and never fall back to an index file. A path
// that climbs above the root, lexically or through a symlink, is forbidden
// whether or not the target exists.
package static
