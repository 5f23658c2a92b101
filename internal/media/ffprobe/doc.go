// Package ffprobe wraps the ffprobe binary for media inspection. Probes
// return immutable Asset snapshots; callers re-probe after any transform that
// rewrites the file.
package ffprobe
