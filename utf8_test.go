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

import "testing"

func TestIsContinuationByte(t *testing.T) {
	tests := []struct {
		b    byte
		want bool
	}{
		{0x00, false},
		{'a', false},
		{0x7f, false},
		{0x80, true},
		{0xbf, true},
		{0xc2, false},
		{0xe2, false},
		{0xf0, false},
		{0xff, false},
	}
	for _, test := range tests {
		if got := isContinuationByte(test.b); got != test.want {
			t.Errorf("isContinuationByte(%#02x) = %t; want %t", test.b, got, test.want)
		}
	}

	// Every non-leading byte of a multi-byte sequence classifies true,
	// every leading byte false.
	for _, s := range []string{"é", "€", "\U0001f600"} {
		for i := 0; i < len(s); i++ {
			if got, want := isContinuationByte(s[i]), i > 0; got != want {
				t.Errorf("isContinuationByte(%q[%d]) = %t; want %t", s, i, got, want)
			}
		}
	}
}
