// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package quad defines the GPU instance record, the batch buffer that
// accumulates instances during a frame, and the uniform blocks shared with
// the pixel and vertex stages. All layouts are bit-exact with the WGSL
// declarations in render/shaders/quad.wgsl.
package quad

import "fmt"

// ShadingType selects the pixel-stage code path of an instance.
type ShadingType uint32

const (
	// ShadingDefault draws nothing visible; zero-sized placeholder glyphs use it.
	ShadingDefault ShadingType = 0
	// ShadingBackground fills from the per-cell background bitmap. It shares
	// the value of ShadingDefault.
	ShadingBackground ShadingType = 0

	ShadingTextGrayscale   ShadingType = 1
	ShadingTextClearType   ShadingType = 2
	ShadingTextPassthrough ShadingType = 3
	ShadingDottedLine      ShadingType = 4
	ShadingDottedLineWide  ShadingType = 5
	ShadingSolidLine       ShadingType = 6
	ShadingCursor          ShadingType = 7
	ShadingSelection       ShadingType = 8
)

var shadingNames = [...]string{
	ShadingBackground:      "Background",
	ShadingTextGrayscale:   "TextGrayscale",
	ShadingTextClearType:   "TextClearType",
	ShadingTextPassthrough: "TextPassthrough",
	ShadingDottedLine:      "DottedLine",
	ShadingDottedLineWide:  "DottedLineWide",
	ShadingSolidLine:       "SolidLine",
	ShadingCursor:          "Cursor",
	ShadingSelection:       "Selection",
}

// String returns the shading type name.
func (s ShadingType) String() string {
	if int(s) < len(shadingNames) {
		return shadingNames[s]
	}
	return fmt.Sprintf("ShadingType(%d)", uint32(s))
}

// PaintGroup is the paint order position of a shading type. Within a frame
// groups never decrease.
type PaintGroup uint8

const (
	GroupBackground PaintGroup = iota
	GroupText
	GroupLines
	GroupCursor
	GroupSelection
)

// Group returns the paint group of s. Text variants and dotted lines share
// a group because they are emitted interleaved.
func (s ShadingType) Group() PaintGroup {
	switch {
	case s == ShadingBackground:
		return GroupBackground
	case s <= ShadingDottedLineWide:
		return GroupText
	case s == ShadingSolidLine:
		return GroupLines
	case s == ShadingCursor:
		return GroupCursor
	default:
		return GroupSelection
	}
}
