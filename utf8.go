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

// isContinuationByte reports whether b is a non-leading byte
// of a multi-byte UTF-8 sequence,
// that is, whether its two high bits are 10.
// The codepoint counter advances only on leading bytes.
func isContinuationByte(b byte) bool {
	return b&0xc0 == 0x80
}
