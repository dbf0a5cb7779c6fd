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

// InlineKind discriminates the variants of [InlineElement].
// The inline-structure pass is not implemented yet;
// the variants below reserve the shape of its output.
type InlineKind uint16

const (
	// TextKind is raw text,
	// including inline constructs the parser ignores
	// (emphasis, strong emphasis).
	TextKind InlineKind = 1 + iota
	// InlineLinkKind is an [inline link].
	//
	// [inline link]: https://spec.commonmark.org/0.30/#inline-link
	InlineLinkKind
	// ReferenceLinkKind is a [reference link].
	//
	// [reference link]: https://spec.commonmark.org/0.30/#reference-link
	ReferenceLinkKind
	// CodeSpanKind is a [code span].
	//
	// [code span]: https://spec.commonmark.org/0.30/#code-span
	CodeSpanKind
)

// String returns the kind's Go constant name without the Kind suffix.
func (kind InlineKind) String() string {
	switch kind {
	case TextKind:
		return "Text"
	case InlineLinkKind:
		return "InlineLink"
	case ReferenceLinkKind:
		return "ReferenceLink"
	case CodeSpanKind:
		return "CodeSpan"
	default:
		return fmt.Sprintf("InlineKind(%d)", uint16(kind))
	}
}

func (kind InlineKind) jsonName() string {
	switch kind {
	case TextKind:
		return "text"
	case InlineLinkKind:
		return "inlineLink"
	case ReferenceLinkKind:
		return "referenceLink"
	case CodeSpanKind:
		return "codeSpan"
	default:
		panic("unknown inline kind " + kind.String())
	}
}

// An InlineElement is a content element within a block,
// such as raw text, a link, or a code span.
// Inline elements never contain block elements.
type InlineElement struct {
	Kind InlineKind

	// TextRange and DestinationRange are meaningful for InlineLinkKind.
	TextRange        Range
	DestinationRange Range
	// TitleRange is the optional link title, nil when absent.
	TitleRange *Range
}

// MarshalJSON encodes the element as a tagged union,
// mirroring the encoding of [BlockElement].
func (e InlineElement) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case InlineLinkKind:
		return json.Marshal(struct {
			Type             string `json:"type"`
			TextRange        Range  `json:"textRange"`
			DestinationRange Range  `json:"destinationRange"`
			TitleRange       *Range `json:"titleRange"`
		}{e.Kind.jsonName(), e.TextRange, e.DestinationRange, e.TitleRange})
	case TextKind, ReferenceLinkKind, CodeSpanKind:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{e.Kind.jsonName()})
	default:
		return nil, fmt.Errorf("marshal inline element: unknown kind %v", e.Kind)
	}
}

// ParseInlineElements is the inline-structure pass.
// It is not implemented yet and returns an empty sequence
// regardless of its inputs.
func ParseInlineElements(source []byte, blocks []BlockElement) []InlineElement {
	return []InlineElement{}
}
