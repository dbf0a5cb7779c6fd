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

// Package markdown parses Markdown source into typed block elements
// annotated with exact source positions
// (byte offset, codepoint index, and line),
// for consumption by editor tooling such as language servers.
//
// Parsing follows the two-phase strategy recommended by the
// [CommonMark specification]:
// block structure first, then inline structure within the blocks.
// The inline pass is not implemented yet and returns an empty sequence.
//
// Unlike a conventional Markdown renderer,
// the parser never materializes block content as strings:
// every element refers back into the source through [Range] values,
// so diagnostics, folding, and highlighting can be computed
// in any of the three coordinate systems without re-scanning.
//
// There is no invalid Markdown:
// any input text parses to some document,
// and unsupported constructs degrade to paragraphs or code blocks.
//
// [CommonMark specification]: https://spec.commonmark.org/0.30/#appendix-a-parsing-strategy
package markdown

// A Document is the combined result of the block-structure
// and inline-structure passes over one source text.
// It marshals to a tagged-union JSON encoding:
// each element carries a "type" field naming its variant,
// with the variant's payload fields flattened alongside it.
type Document struct {
	BlockElements  []BlockElement  `json:"blockElements"`
	InlineElements []InlineElement `json:"inlineElements"`
}

// ParseBlockElements runs the block-structure pass over source
// and returns the flat ordered sequence of block elements.
// The first element is always the document root.
//
// The returned elements reference source by position only;
// the caller keeps ownership of the slice's bytes.
func ParseBlockElements(source []byte) []BlockElement {
	return newBlockParser(source).parse()
}

// ParseDocument runs the block-structure pass and then the inline pass,
// returning both results as one document.
// It is deterministic for identical input and performs no I/O;
// concurrent calls over different inputs need no coordination.
func ParseDocument(source []byte) *Document {
	blocks := ParseBlockElements(source)
	inlines := ParseInlineElements(source, blocks)
	return &Document{
		BlockElements:  blocks,
		InlineElements: inlines,
	}
}
