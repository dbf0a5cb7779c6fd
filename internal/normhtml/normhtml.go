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

// Package normhtml normalizes rendered HTML
// so that tests can compare renderer output
// without depending on insignificant whitespace
// or attribute ordering.
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var textEscaper = bytereplacer.New(
	"&", "&amp;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Normalize rewrites an HTML fragment into a canonical form:
// whitespace between block-level tags is dropped,
// runs of whitespace outside <pre> collapse to a single space,
// attributes are sorted by name,
// and text is re-escaped consistently.
func Normalize(fragment []byte) []byte {
	tok := html.NewTokenizerFragment(bytes.NewReader(fragment), "div")
	var out []byte
	last := html.StartTagToken
	lastTag := ""
	inPre := false
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return out
		case html.TextToken:
			data := tok.Text()
			if !inPre {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
				if isBlockTag(lastTag) {
					switch last {
					case html.StartTagToken:
						data = bytes.TrimLeftFunc(data, unicode.IsSpace)
					case html.EndTagToken:
						data = bytes.TrimSpace(data)
					}
				}
			}
			out = append(out, textEscaper.Replace(bytes.Clone(data))...)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tok.TagName()
			tag := string(name)
			if tag == "pre" {
				inPre = true
			}
			if isBlockTag(tag) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = append(out, '<')
			out = append(out, tag...)
			if hasAttr {
				out = appendSortedAttrs(out, tok)
			}
			out = append(out, '>')
			lastTag = tag
		case html.EndTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if tag == "pre" {
				inPre = false
			} else if isBlockTag(tag) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = append(out, "</"...)
			out = append(out, tag...)
			out = append(out, '>')
			lastTag = tag
		case html.CommentToken:
			out = append(out, tok.Raw()...)
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

func appendSortedAttrs(out []byte, tok *html.Tokenizer) []byte {
	type attribute struct {
		key   string
		value string
	}
	var attrs []attribute
	for {
		k, v, more := tok.TagAttr()
		attrs = append(attrs, attribute{string(k), string(v)})
		if !more {
			break
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].key < attrs[j].key })
	for _, attr := range attrs {
		out = append(out, ' ')
		out = append(out, attr.key...)
		if attr.value != "" {
			out = append(out, `="`...)
			out = append(out, html.EscapeString(attr.value)...)
			out = append(out, '"')
		}
	}
	return out
}

var blockTags = func() map[string]bool {
	tags := []atom.Atom{
		atom.Blockquote, atom.Body, atom.Div, atom.Dd, atom.Dl, atom.Dt,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Hr, atom.Li, atom.Ol, atom.P, atom.Pre, atom.Section,
		atom.Table, atom.Tbody, atom.Td, atom.Th, atom.Thead, atom.Tr,
		atom.Ul,
	}
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t.String()] = true
	}
	return m
}()

func isBlockTag(tag string) bool {
	return blockTags[tag]
}
