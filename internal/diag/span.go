package diag

import "github.com/smartoctopus/wave/internal/vfs"

// Span is a half-open byte range [Start, End) into the source of FileID.
// It is the only location primitive used across the front-end.
type Span struct {
	FileID vfs.FileID
	Start  uint32
	End    uint32
}

// clamp returns span normalized so that Start and End both fall inside
// [0, len], preserving Start <= End. A corrupt span (e.g. produced by a
// parser bug) is clamped rather than rejected, so rendering never panics
// on anything but an unknown file id.
func (s Span) clamp(length int) Span {
	n := uint32(length)
	if s.Start > n {
		s.Start = n
	}
	if s.End < s.Start {
		s.End = s.Start
	}
	if s.End > n {
		s.End = n
	}
	return s
}
