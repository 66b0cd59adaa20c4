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

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func (w *errWriter) writeString(s string) {
	w.Write([]byte(s))
}

// Show returns v's human-readable textual form (§4.2, C2). Round-tripping
// through a tokenizer is not required.
func (h *Heap) Show(v Ref) string {
	var b strings.Builder
	_ = h.Dump(&b, v)
	return b.String()
}

// ValueDebug prints v's Show form to stderr prefixed with label, gated by
// the heap's configured verbosity (§6, bowl_value_debug). It is meant for
// ad hoc tracing while developing a primitive, not for a primitive's own
// control flow.
func (h *Heap) ValueDebug(label string, v Ref) {
	if h.settings.Verbosity <= 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "bowl: %s: %s\n", label, h.Show(v))
}

// Dump writes v's human-readable textual form to w.
func (h *Heap) Dump(w io.Writer, v Ref) error {
	ew := newErrWriter(w)
	h.dump(ew, v)
	return ew.err
}

func (h *Heap) dump(w *errWriter, v Ref) {
	if v == Null {
		w.writeString("()")
		return
	}
	switch h.Type(v) {
	case SymbolType:
		w.Write(h.stringBytes(v))
	case StringType:
		dumpQuotedString(w, h.stringBytes(v))
	case NumberType:
		w.writeString(strconv.FormatFloat(h.numberValue(v), 'g', -1, 64))
	case BooleanType:
		if h.booleanValue(v) {
			w.writeString("true")
		} else {
			w.writeString("false")
		}
	case ListType:
		h.dumpList(w, v)
	case VectorType:
		h.dumpVector(w, v)
	case MapType:
		h.dumpMap(w, v)
	case FunctionType:
		fmt.Fprintf(w, "#<function %d>", h.functionIndex(v))
	case LibraryType:
		fmt.Fprintf(w, "#<library %s>", h.libraryPath(v))
	case ExceptionType:
		w.writeString("#<exception ")
		h.dump(w, h.exceptionMessage(v))
		if cause := h.exceptionCause(v); cause != Null {
			w.writeString(" caused by ")
			h.dump(w, cause)
		}
		w.writeString(">")
	}
}

func (h *Heap) dumpList(w *errWriter, v Ref) {
	w.writeString("(")
	for cur := v; cur != Null; cur = h.listTail(cur) {
		h.dump(w, h.listHead(cur))
		if h.listTail(cur) != Null {
			w.writeString(" ")
		}
	}
	w.writeString(")")
}

func (h *Heap) dumpVector(w *errWriter, v Ref) {
	w.writeString("[")
	n := h.vectorLength(v)
	for i := int64(0); i < n; i++ {
		h.dump(w, h.vectorGet(v, i))
		if i < n-1 {
			w.writeString(" ")
		}
	}
	w.writeString("]")
}

func (h *Heap) dumpMap(w *errWriter, v Ref) {
	w.writeString("{")
	first := true
	h.mapEach(v, func(k, val Ref) {
		if !first {
			w.writeString(", ")
		}
		first = false
		h.dump(w, k)
		w.writeString(": ")
		h.dump(w, val)
	})
	w.writeString("}")
}

// dumpQuotedString applies the escaping rules pinned in §4.2: double
// quotes, \n, \t, \", \\, \xNN for other non-printable bytes, \uNNNN for
// non-ASCII runes.
func dumpQuotedString(w *errWriter, b []byte) {
	w.writeString(`"`)
	for len(b) > 0 {
		r, size, ok := decodeRune(b)
		b = b[size:]
		if !ok {
			fmt.Fprintf(w, `\x%02x`, r)
			continue
		}
		switch r {
		case '\n':
			w.writeString(`\n`)
		case '\t':
			w.writeString(`\t`)
		case '"':
			w.writeString(`\"`)
		case '\\':
			w.writeString(`\\`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(w, `\x%02x`, r)
			case r < 0x80:
				w.Write([]byte(string(r)))
			default:
				fmt.Fprintf(w, `\u%04x`, r)
			}
		}
	}
	w.writeString(`"`)
}
