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

import "fmt"

// Position is a location in the source text,
// identified in three coordinate systems at once:
// a 0-based line index,
// a 0-based codepoint index within that line,
// and a 0-based absolute byte offset.
// Editor protocols tend to want the first two;
// slicing the source wants the third.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
	Offset    int `json:"offset"`
}

// String formats the position as "line:character" for diagnostics.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d@%d", p.Line, p.Character, p.Offset)
}

// A Range is a contiguous region of the source text.
// Start.Offset <= End.Offset for every range the parser produces.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%v-%v", r.Start, r.End)
}

// Text returns the bytes of source that r spans.
func (r Range) Text(source []byte) []byte {
	return source[r.Start.Offset:r.End.Offset]
}
