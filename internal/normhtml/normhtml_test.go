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

package normhtml

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		fragment string
		want     string
	}{
		{"<p>a  \t b</p>", "<p>a b</p>"},
		{"<p>a  \t\nb</p>", "<p>a b</p>"},
		{" <p>a  b</p>", "<p>a b</p>"},
		{"<p>a  b</p> ", "<p>a b</p>"},
		{"\n\t<p>\n\t\ta  b\t\t</p>\n\t", "<p>a b</p>"},
		{"<i>a  b</i> ", "<i>a b</i> "},
		{"<br />", "<br>"},
		{"<pre><code>a  b\n</code></pre>", "<pre><code>a  b\n</code></pre>"},
		{`<a title="bar" HREF="foo">x</a>`, `<a href="foo" title="bar">x</a>`},
		{"&forall;&amp;&gt;&lt;&quot;", "∀&amp;&gt;&lt;&quot;"},
		{"<blockquote>\n<p>hi</p>\n</blockquote>", "<blockquote><p>hi</p></blockquote>"},
	}
	for _, test := range tests {
		if got := Normalize([]byte(test.fragment)); string(got) != test.want {
			t.Errorf("Normalize(%q) = %q; want %q", test.fragment, got, test.want)
		}
	}
}
