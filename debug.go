package termatlas

import (
	"fmt"
	"strings"
)

// DebugMode enables development instrumentation. None of it is required for
// correct rendering.
type DebugMode uint8

const (
	// DebugOff disables all instrumentation.
	DebugOff DebugMode = 0

	// DebugHotReload reloads the quad shader from disk when it changes.
	DebugHotReload DebugMode = 1 << (iota - 1)

	// DebugDirtyRects overlays the payload's dirty rectangle.
	DebugDirtyRects

	// DebugFrameDump writes every flushed instance stream to disk.
	DebugFrameDump

	// DebugAtlasColorize tints every glyph rectangle in the atlas.
	DebugAtlasColorize
)

var debugNames = []struct {
	mode DebugMode
	name string
}{
	{DebugHotReload, "hot-reload"},
	{DebugDirtyRects, "dirty-rects"},
	{DebugFrameDump, "frame-dump"},
	{DebugAtlasColorize, "atlas-colorize"},
}

// Has reports whether all bits of flag are set.
func (m DebugMode) Has(flag DebugMode) bool {
	return m&flag == flag && flag != 0
}

// String returns a comma separated list of enabled modes.
func (m DebugMode) String() string {
	if m == DebugOff {
		return "off"
	}
	var parts []string
	for _, d := range debugNames {
		if m.Has(d.mode) {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseDebugMode parses a comma separated list such as "hot-reload,frame-dump".
// The empty string and "off" yield DebugOff.
func ParseDebugMode(s string) (DebugMode, error) {
	var m DebugMode
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "off" {
			continue
		}
		found := false
		for _, d := range debugNames {
			if d.name == part {
				m |= d.mode
				found = true
				break
			}
		}
		if !found {
			return DebugOff, fmt.Errorf("termatlas: unknown debug mode %q", part)
		}
	}
	return m, nil
}
