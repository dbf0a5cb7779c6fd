// Copyright 2026 The mdtk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"encoding/json"
	"fmt"
)

// BlockKind discriminates the variants of [BlockElement].
// The set is closed: every switch over a BlockKind in this package
// enumerates all of the constants below,
// so adding a kind forces every call site to be revisited.
type BlockKind uint16

const (
	// RootKind is the implicit document-level container.
	// It occurs exactly once, as the first element of every block sequence.
	RootKind BlockKind = 1 + iota
	// BlockQuoteKind is a [block quote] container.
	//
	// [block quote]: https://spec.commonmark.org/0.30/#block-quotes
	BlockQuoteKind
	// ParagraphKind is a [paragraph] leaf.
	//
	// [paragraph]: https://spec.commonmark.org/0.30/#paragraphs
	ParagraphKind
	// ATXHeadingKind is an [ATX heading] leaf.
	//
	// [ATX heading]: https://spec.commonmark.org/0.30/#atx-headings
	ATXHeadingKind
	// SetextHeadingKind is a [setext heading] leaf.
	//
	// [setext heading]: https://spec.commonmark.org/0.30/#setext-headings
	SetextHeadingKind
	// FencedCodeBlockKind is a [fenced code block] leaf.
	//
	// [fenced code block]: https://spec.commonmark.org/0.30/#fenced-code-blocks
	FencedCodeBlockKind
	// IndentedCodeBlockKind is an [indented code block] leaf.
	//
	// [indented code block]: https://spec.commonmark.org/0.30/#indented-code-blocks
	IndentedCodeBlockKind
)

// String returns the kind's Go constant name without the Kind suffix.
func (kind BlockKind) String() string {
	switch kind {
	case RootKind:
		return "Root"
	case BlockQuoteKind:
		return "BlockQuote"
	case ParagraphKind:
		return "Paragraph"
	case ATXHeadingKind:
		return "ATXHeading"
	case SetextHeadingKind:
		return "SetextHeading"
	case FencedCodeBlockKind:
		return "FencedCodeBlock"
	case IndentedCodeBlockKind:
		return "IndentedCodeBlock"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint16(kind))
	}
}

// jsonName returns the kind's tag in the wire encoding.
func (kind BlockKind) jsonName() string {
	switch kind {
	case RootKind:
		return "root"
	case BlockQuoteKind:
		return "blockQuote"
	case ParagraphKind:
		return "paragraph"
	case ATXHeadingKind:
		return "atxHeading"
	case SetextHeadingKind:
		return "setextHeading"
	case FencedCodeBlockKind:
		return "fencedCodeBlock"
	case IndentedCodeBlockKind:
		return "indentedCodeBlock"
	default:
		panic("unknown block kind " + kind.String())
	}
}

// A BlockElement is a structural element of a Markdown document,
// produced by the block-structure pass.
// It is a tagged union: Kind selects the variant
// and determines which payload fields are meaningful.
//
// Parent/child relationships are not stored per element.
// A block's children are the elements appended after it
// and before its container was closed,
// so containment is implicit in the order of the flat sequence.
type BlockElement struct {
	Kind BlockKind

	// Lines holds one Range per captured content line, in source order.
	// Meaningful for ParagraphKind, FencedCodeBlockKind,
	// and IndentedCodeBlockKind.
	Lines []Range

	// ContentRange spans the heading text,
	// markers and surrounding whitespace excluded.
	// Meaningful for ATXHeadingKind and SetextHeadingKind.
	ContentRange Range

	// Level is the heading level in [1,6].
	// Meaningful for SetextHeadingKind only;
	// ATX heading levels are recoverable from the source
	// via the marker run preceding ContentRange.
	Level int

	// Fence bookkeeping, used only while the block is open.
	fenceChar   byte
	fenceLength int
	fenceIndent int
}

// IsContainer reports whether the element may hold child blocks.
func (b *BlockElement) IsContainer() bool {
	switch b.Kind {
	case RootKind, BlockQuoteKind:
		return true
	case ParagraphKind, ATXHeadingKind, SetextHeadingKind, FencedCodeBlockKind, IndentedCodeBlockKind:
		return false
	default:
		panic("unknown block kind " + b.Kind.String())
	}
}

// IsLeaf reports whether the element holds no child blocks.
// It is the complement of [BlockElement.IsContainer] for every kind.
func (b *BlockElement) IsLeaf() bool {
	return !b.IsContainer()
}

// MarshalJSON encodes the element as a tagged union:
// a "type" field naming the variant,
// with the variant's payload fields flattened alongside it.
func (b BlockElement) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case RootKind, BlockQuoteKind:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{b.Kind.jsonName()})
	case ParagraphKind, FencedCodeBlockKind, IndentedCodeBlockKind:
		lines := b.Lines
		if lines == nil {
			lines = []Range{}
		}
		return json.Marshal(struct {
			Type  string  `json:"type"`
			Lines []Range `json:"lines"`
		}{b.Kind.jsonName(), lines})
	case ATXHeadingKind:
		return json.Marshal(struct {
			Type         string `json:"type"`
			ContentRange Range  `json:"contentRange"`
		}{b.Kind.jsonName(), b.ContentRange})
	case SetextHeadingKind:
		return json.Marshal(struct {
			Type         string `json:"type"`
			Level        int    `json:"level"`
			ContentRange Range  `json:"contentRange"`
		}{b.Kind.jsonName(), b.Level, b.ContentRange})
	default:
		return nil, fmt.Errorf("marshal block element: unknown kind %v", b.Kind)
	}
}

// UnmarshalJSON decodes the tagged-union encoding produced by MarshalJSON.
func (b *BlockElement) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type         string  `json:"type"`
		Lines        []Range `json:"lines"`
		Level        int     `json:"level"`
		ContentRange Range   `json:"contentRange"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case "root":
		*b = BlockElement{Kind: RootKind}
	case "blockQuote":
		*b = BlockElement{Kind: BlockQuoteKind}
	case "paragraph":
		*b = BlockElement{Kind: ParagraphKind, Lines: wire.Lines}
	case "atxHeading":
		*b = BlockElement{Kind: ATXHeadingKind, ContentRange: wire.ContentRange}
	case "setextHeading":
		*b = BlockElement{Kind: SetextHeadingKind, Level: wire.Level, ContentRange: wire.ContentRange}
	case "fencedCodeBlock":
		*b = BlockElement{Kind: FencedCodeBlockKind, Lines: wire.Lines}
	case "indentedCodeBlock":
		*b = BlockElement{Kind: IndentedCodeBlockKind, Lines: wire.Lines}
	default:
		return fmt.Errorf("unmarshal block element: unknown type %q", wire.Type)
	}
	return nil
}
