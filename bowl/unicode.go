// This file is part of bowl - https://github.com/bowl-run/bowl
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bowl

import "unicode/utf8"

// decodeRune decodes the rune starting at b[0], returning it and its width
// in bytes. Strings are arbitrary byte sequences, not guaranteed valid
// UTF-8 (a string cell's contents come from a native module or the host,
// not from a validated text layer), so an invalid leading byte decodes as
// a single byte with ok=false rather than being silently folded into the
// replacement rune the way a plain range-over-string would.
func decodeRune(b []byte) (r rune, size int, ok bool) {
	r, size = utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return rune(b[0]), 1, false
	}
	return r, size, true
}
