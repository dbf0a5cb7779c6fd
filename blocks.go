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

// tabStopSize is the multiple of columns that a [tab] advances to.
//
// [tab]: https://spec.commonmark.org/0.30/#tabs
const tabStopSize = 4

// codeBlockIndentLimit is the column width of an indent
// required to start an indented code block.
// Indentation at or past this limit also blocks every other block start.
const codeBlockIndentLimit = 4

// blockParser splits input text into block elements,
// following [Phase 1] of the CommonMark recommended parsing strategy.
//
// The strategy as written assumes blocks are stored as a tree.
// Here the result is a flat append-only slice instead,
// with a separate stack of indices of currently open blocks:
// the consumers of this parser do not need tree queries,
// and a slice has better locality than a pointer structure.
// Containment is implicit in append order
// and the open-block stack exists only for the duration of one parse.
//
// [Phase 1]: https://spec.commonmark.org/0.30/#phase-1-block-structure
type blockParser struct {
	source []byte

	offset    int // absolute byte offset
	character int // codepoints since the start of the current line
	column    int // display column within the current line, tab-stop aware
	line      int // line terminators seen so far

	// indent is the display-column width of whitespace
	// consumed on the current line since the last reset
	// (line start, or a block opened on this line).
	indent int

	// tabLeftovers is the display-column remainder of a partially
	// consumed tab. The tab's byte offset is spent exactly once,
	// when the leftover reaches zero.
	tabLeftovers int

	// contentBase is the scan position right after the innermost
	// matched container's marker on the current line,
	// before any whitespace was consumed past it.
	// Code-block content capture measures its strip columns from here.
	contentBase       Position
	contentBaseColumn int

	blocks     []BlockElement
	openBlocks []int // indices into blocks, outermost first
}

func newBlockParser(source []byte) *blockParser {
	return &blockParser{
		source:     source,
		blocks:     []BlockElement{{Kind: RootKind}},
		openBlocks: []int{0},
	}
}

func (p *blockParser) parse() []BlockElement {
	for p.offset < len(p.source) {
		p.parseLine()
	}
	return p.blocks
}

// parseLine processes one line of input:
//
//  1. Walk the open-block stack outermost-in
//     and find the deepest block whose continuation condition holds.
//  2. Starting there, try block-start recognizers in priority order,
//     closing unmatched blocks before appending each new one.
//  3. If nothing started and the tip is a paragraph,
//     absorb the line as a lazy continuation.
//  4. Otherwise close everything deeper than the last match.
//  5. Assign the remaining line content to the tip.
//  6. Consume the line terminator.
func (p *blockParser) parseLine() {
	lastMatch := p.descendOpenBlocks()

	opened := p.openNewBlocks(lastMatch)
	if !opened && !p.parseContinuationLine() {
		p.closeChildrenOf(lastMatch)
	}

	lineEnd := p.peekLine()
	tip := &p.blocks[p.openBlocks[len(p.openBlocks)-1]]

	switch tip.Kind {
	case ParagraphKind:
		// Content was recorded when the line matched or continued.

	case ATXHeadingKind:
		// Trim the closing sequence: trailing whitespace,
		// then trailing hashmarks, then whitespace again.
		contentEnd := lineEnd
		trimTrailing := func(match func(byte) bool) {
			for contentEnd.Offset > tip.ContentRange.Start.Offset && match(p.source[contentEnd.Offset-1]) {
				contentEnd.Offset--
				contentEnd.Character--
			}
		}
		isSpace := func(b byte) bool { return b == ' ' || b == '\t' }
		trimTrailing(isSpace)
		trimTrailing(func(b byte) bool { return b == '#' })
		trimTrailing(isSpace)
		tip.ContentRange.End = contentEnd
		p.setPosition(lineEnd)

	case SetextHeadingKind:
		// The underline line was consumed when the paragraph converted.

	case FencedCodeBlockKind:
		if !opened {
			// Skip capture on the opening-fence line;
			// the fence and info string are not content.
			start := p.codeContentStart(tip.fenceIndent)
			tip.Lines = append(tip.Lines, Range{Start: start, End: lineEnd})
		}
		p.consumeLine()

	case IndentedCodeBlockKind:
		start := p.codeContentStart(codeBlockIndentLimit)
		tip.Lines = append(tip.Lines, Range{Start: start, End: lineEnd})
		p.consumeLine()

	case RootKind, BlockQuoteKind:
		if !p.isAtLineEnd() {
			start := p.position()
			p.consumeLine()
			end := p.position()
			p.appendChild(BlockElement{
				Kind:  ParagraphKind,
				Lines: []Range{{Start: start, End: end}},
			})
		}

	default:
		panic("unknown block kind " + tip.Kind.String())
	}

	p.consumeLineEnd()
}

// descendOpenBlocks walks the open-block stack from the outermost block,
// consuming each block's marker and surrounding whitespace,
// and returns the stack index of the deepest block that matched.
// The root always matches, so the result is never negative.
func (p *blockParser) descendOpenBlocks() int {
	for i := 0; i < len(p.openBlocks); i++ {
		if i == 0 {
			p.contentBase = p.position()
			p.contentBaseColumn = p.column
		}
		p.consumeSpaces()

		matches := false
		switch b := &p.blocks[p.openBlocks[i]]; b.Kind {
		case RootKind:
			matches = true

		case BlockQuoteKind:
			if c, _ := p.peek(); c == '>' && !p.isIndented() {
				p.consumeColumns(1)
				if c, _ := p.peek(); c == ' ' || c == '\t' {
					p.consumeColumns(1)
				}
				p.contentBase = p.position()
				p.contentBaseColumn = p.column
				matches = true
			}

		case ParagraphKind:
			matches = !p.isAtLineEnd()

		case ATXHeadingKind, SetextHeadingKind:
			// Headings occupy exactly one line.

		case FencedCodeBlockKind:
			if !p.isIndented() && isCodeFenceClose(p.restOfLine(), b.fenceChar, b.fenceLength) {
				// The closing fence belongs to the block but ends it:
				// consume the whole line and report no match,
				// so the fallback close after the last match closes the fence.
				p.consumeLine()
			} else {
				matches = true
			}

		case IndentedCodeBlockKind:
			matches = p.isIndented() || p.isAtLineEnd()

		default:
			panic("unknown block kind " + b.Kind.String())
		}

		if !matches {
			return i - 1
		}
	}
	return len(p.openBlocks) - 1
}

// openNewBlocks tries the block-start recognizers from the last match inward,
// as long as the current block is a container
// (or a paragraph, which yields immediately to any new block start).
// It reports whether any new block was opened.
func (p *blockParser) openNewBlocks(lastMatch int) bool {
	opened := false
	blockIndex := p.openBlocks[lastMatch]
	isParagraph := p.blocks[blockIndex].Kind == ParagraphKind

	for p.blocks[blockIndex].IsContainer() || isParagraph {
		p.consumeSpaces()

		if isParagraph && p.setextUnderline(blockIndex) {
			return true
		}

		newBlock, ok := p.blockStart()
		if !ok {
			break
		}
		if isParagraph {
			// The paragraph yields: the new block replaces it
			// as a child of the paragraph's container.
			lastMatch--
			isParagraph = false
		}
		p.insertChild(lastMatch, newBlock)
		lastMatch = len(p.openBlocks) - 1
		blockIndex = p.openBlocks[lastMatch]
		opened = true
		p.indent = 0
	}
	return opened
}

// blockStart tries each block-start recognizer in priority order
// and returns the first new block recognized at the current position.
func (p *blockParser) blockStart() (BlockElement, bool) {
	if b, ok := p.blockQuoteStart(); ok {
		return b, true
	}
	if b, ok := p.atxHeadingStart(); ok {
		return b, true
	}
	if b, ok := p.codeFenceStart(); ok {
		return b, true
	}
	if b, ok := p.indentedCodeStart(); ok {
		return b, true
	}
	return BlockElement{}, false
}

func (p *blockParser) blockQuoteStart() (BlockElement, bool) {
	c, _ := p.peek()
	if p.isIndented() || c != '>' {
		return BlockElement{}, false
	}
	p.offset++
	p.character++
	p.column++
	p.tabLeftovers = 0
	if c, _ := p.peek(); c == ' ' || c == '\t' {
		p.consumeColumns(1)
	}
	p.contentBase = p.position()
	p.contentBaseColumn = p.column
	return BlockElement{Kind: BlockQuoteKind}, true
}

func (p *blockParser) atxHeadingStart() (BlockElement, bool) {
	c, _ := p.peek()
	if p.isIndented() || c != '#' {
		return BlockElement{}, false
	}
	level := p.consumeHashes()

	c, ok := p.peek()
	if level > 6 || (ok && c != ' ' && c != '\t' && c != '\n' && c != '\r') {
		// Not a heading after all ("#foo", "####### foo").
		// Restore the position; the hashmarks are paragraph text.
		p.offset -= level
		p.character -= level
		p.column -= level
		return BlockElement{}, false
	}

	p.consumeSpaces()
	pos := p.position()
	return BlockElement{
		Kind:         ATXHeadingKind,
		ContentRange: Range{Start: pos, End: pos},
	}, true
}

func (p *blockParser) codeFenceStart() (BlockElement, bool) {
	c, _ := p.peek()
	if p.isIndented() || (c != '`' && c != '~') {
		return BlockElement{}, false
	}
	length, ok := parseCodeFenceOpen(p.restOfLine())
	if !ok {
		return BlockElement{}, false
	}
	fenceIndent := p.indent
	p.consumeLine()
	return BlockElement{
		Kind:        FencedCodeBlockKind,
		fenceChar:   c,
		fenceLength: length,
		fenceIndent: fenceIndent,
	}, true
}

func (p *blockParser) indentedCodeStart() (BlockElement, bool) {
	tip := &p.blocks[p.openBlocks[len(p.openBlocks)-1]]
	if tip.Kind == ParagraphKind || !p.isIndented() || p.isAtLineEnd() {
		// An indented chunk cannot interrupt a paragraph.
		return BlockElement{}, false
	}
	return BlockElement{Kind: IndentedCodeBlockKind}, true
}

// setextUnderline checks whether the remaining line is a setext underline
// for the open paragraph at blockIndex and, if so,
// converts that paragraph in place into a setext heading
// spanning the paragraph's lines.
func (p *blockParser) setextUnderline(blockIndex int) bool {
	if p.isIndented() {
		return false
	}
	level := parseSetextUnderline(p.restOfLine())
	if level == 0 {
		return false
	}
	para := &p.blocks[blockIndex]
	*para = BlockElement{
		Kind:  SetextHeadingKind,
		Level: level,
		ContentRange: Range{
			Start: para.Lines[0].Start,
			End:   para.Lines[len(para.Lines)-1].End,
		},
	}
	p.consumeLine()
	return true
}

// parseContinuationLine absorbs the remaining line into the tip paragraph,
// if there is one and the line has content left.
// This implements lazy continuation:
// the line reached here after failing a container's marker match,
// yet it still extends the paragraph.
func (p *blockParser) parseContinuationLine() bool {
	tip := &p.blocks[p.openBlocks[len(p.openBlocks)-1]]
	if tip.Kind != ParagraphKind || p.isAtLineEnd() {
		return false
	}
	start := p.position()
	end := p.peekLine()
	tip.Lines = append(tip.Lines, Range{Start: start, End: end})
	p.setPosition(end)
	return true
}

// closeChildrenOf truncates the open-block stack
// so that the block at stack index i is the deepest open block.
func (p *blockParser) closeChildrenOf(i int) {
	p.openBlocks = p.openBlocks[:i+1]
}

// insertChild closes everything below stack index parent
// and appends child under it.
func (p *blockParser) insertChild(parent int, child BlockElement) {
	p.closeChildrenOf(parent)
	p.appendChild(child)
}

func (p *blockParser) appendChild(child BlockElement) {
	if tip := &p.blocks[p.openBlocks[len(p.openBlocks)-1]]; !tip.IsContainer() {
		panic("markdown: internal error: appending a child to a " + tip.Kind.String())
	}
	p.openBlocks = append(p.openBlocks, len(p.blocks))
	p.blocks = append(p.blocks, child)
}

func (p *blockParser) peek() (byte, bool) {
	if p.offset < len(p.source) {
		return p.source[p.offset], true
	}
	return 0, false
}

// restOfLine returns the bytes from the current position
// up to (not including) the line terminator or end of input.
func (p *blockParser) restOfLine() []byte {
	return p.source[p.offset:p.peekLine().Offset]
}

// consumeColumns advances the parser by count display columns.
// A tab byte's offset is spent only once its full display width
// has been accounted for, possibly across multiple calls;
// the remainder is carried in tabLeftovers.
func (p *blockParser) consumeColumns(count int) {
	for count > 0 {
		if p.tabLeftovers > 0 {
			consume := count
			if p.tabLeftovers < consume {
				consume = p.tabLeftovers
			}
			count -= consume
			p.tabLeftovers -= consume
			p.column += consume
			if p.tabLeftovers == 0 {
				p.offset++
				p.character++
			}
			continue
		}
		b, ok := p.peek()
		switch {
		case !ok:
			return
		case b == '\t':
			p.tabLeftovers = tabStopSize - p.column%tabStopSize
		default:
			p.offset++
			if !isContinuationByte(b) {
				p.character++
				p.column++
				count--
			}
		}
	}
}

// consumeSpaces consumes the run of spaces and tabs at the current position,
// expanding tabs to the next tab stop,
// and accumulates the consumed width into indent.
// A partially consumed tab is finished first.
func (p *blockParser) consumeSpaces() {
	oldColumn := p.column
	if p.tabLeftovers > 0 {
		p.column += p.tabLeftovers
		p.tabLeftovers = 0
		p.offset++
		p.character++
	}
loop:
	for p.offset < len(p.source) {
		switch p.source[p.offset] {
		case ' ':
			p.offset++
			p.character++
			p.column++
		case '\t':
			p.offset++
			p.character++
			p.column += tabStopSize - p.column%tabStopSize
		default:
			break loop
		}
	}
	p.indent += p.column - oldColumn
}

// consumeHashes consumes the run of '#' at the current position
// and returns its length.
func (p *blockParser) consumeHashes() int {
	p.tabLeftovers = 0
	start := p.offset
	for {
		b, ok := p.peek()
		if !ok || b != '#' {
			break
		}
		p.offset++
		p.character++
		p.column++
	}
	return p.offset - start
}

// peekLine returns the position of the current line's terminator
// (or end of input) without advancing the parser.
func (p *blockParser) peekLine() Position {
	pos := p.position()
	for pos.Offset < len(p.source) {
		b := p.source[pos.Offset]
		if b == '\n' || b == '\r' {
			break
		}
		pos.Offset++
		if !isContinuationByte(b) {
			pos.Character++
		}
	}
	return pos
}

// consumeLine advances the parser to the current line's terminator.
func (p *blockParser) consumeLine() {
	p.tabLeftovers = 0
	for {
		b, ok := p.peek()
		if !ok || b == '\n' || b == '\r' {
			return
		}
		p.offset++
		if !isContinuationByte(b) {
			p.character++
		}
	}
}

// consumeLineEnd advances past "\n", "\r", or "\r\n",
// incrementing the line counter and resetting the per-line counters.
// The parser must be positioned at a line terminator or at end of input;
// anything else is a bug in the state machine,
// and continuing would corrupt every subsequent offset.
func (p *blockParser) consumeLineEnd() {
	p.tabLeftovers = 0
	p.indent = 0
	p.column = 0
	b, ok := p.peek()
	switch {
	case !ok:
	case b == '\n' || b == '\r':
		p.offset++
		p.line++
		p.character = 0
		if c, ok := p.peek(); b == '\r' && ok && c == '\n' {
			p.offset++
		}
	default:
		panic(fmt.Sprintf("markdown: internal error: line %d: expected line terminator or end of input, got %q", p.line, b))
	}
}

// codeContentStart returns the start position for a code-block content line:
// the position after the innermost container's marker,
// advanced past at most strip display columns of whitespace.
// A tab straddling the strip boundary stays in the content.
func (p *blockParser) codeContentStart(strip int) Position {
	pos := p.contentBase
	col := p.contentBaseColumn
	limit := p.contentBaseColumn + strip
	for pos.Offset < len(p.source) {
		switch p.source[pos.Offset] {
		case ' ':
			if col+1 > limit {
				return pos
			}
			col++
		case '\t':
			next := col + tabStopSize - col%tabStopSize
			if next > limit {
				return pos
			}
			col = next
		default:
			return pos
		}
		pos.Offset++
		pos.Character++
	}
	return pos
}

func (p *blockParser) position() Position {
	return Position{Line: p.line, Character: p.character, Offset: p.offset}
}

func (p *blockParser) setPosition(pos Position) {
	p.line = pos.Line
	p.character = pos.Character
	p.offset = pos.Offset
}

func (p *blockParser) isIndented() bool {
	return p.indent >= codeBlockIndentLimit
}

func (p *blockParser) isAtLineEnd() bool {
	b, ok := p.peek()
	return !ok || b == '\n' || b == '\r'
}

// parseCodeFenceOpen attempts to parse an opening [code fence]
// from the beginning of the line remainder.
// It returns the fence length,
// reporting failure if the run is shorter than three characters
// or a backtick fence's info string contains a backtick.
// parseCodeFenceOpen assumes that the caller has checked the indent
// and that rest begins with '`' or '~'.
//
// [code fence]: https://spec.commonmark.org/0.30/#code-fence
func parseCodeFenceOpen(rest []byte) (length int, ok bool) {
	char := rest[0]
	for length < len(rest) && rest[length] == char {
		length++
	}
	if length < 3 {
		return 0, false
	}
	if char == '`' {
		for _, b := range rest[length:] {
			if b == '`' {
				return 0, false
			}
		}
	}
	return length, true
}

// isCodeFenceClose reports whether the line remainder is a closing fence
// for an open fence of the given character and length:
// a run of at least length copies of char,
// followed by nothing but spaces and tabs.
func isCodeFenceClose(rest []byte, char byte, length int) bool {
	i := 0
	for i < len(rest) && rest[i] == char {
		i++
	}
	if i < length {
		return false
	}
	for ; i < len(rest); i++ {
		if rest[i] != ' ' && rest[i] != '\t' {
			return false
		}
	}
	return true
}

// parseSetextUnderline reports the heading level
// of a [setext heading underline]
// (1 for '=', 2 for '-', 0 if the remainder is not an underline):
// a run of a single marker character followed only by spaces and tabs.
//
// [setext heading underline]: https://spec.commonmark.org/0.30/#setext-heading-underline
func parseSetextUnderline(rest []byte) (level int) {
	if len(rest) == 0 {
		return 0
	}
	char := rest[0]
	if char != '=' && char != '-' {
		return 0
	}
	i := 0
	for i < len(rest) && rest[i] == char {
		i++
	}
	for ; i < len(rest); i++ {
		if rest[i] != ' ' && rest[i] != '\t' {
			return 0
		}
	}
	if char == '=' {
		return 1
	}
	return 2
}
