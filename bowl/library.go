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

import "github.com/pkg/errors"

// nativeHandle is an opaque OS loader handle (a dlopen handle on Unix, an
// HMODULE on Windows), stored in a library cell as a plain integer so the
// byte arena never holds a real pointer (§4.7).
type nativeHandle uintptr

// platformLoader is implemented per-OS in library_unix.go / library_windows.go.
type platformLoader interface {
	open(path string) (nativeHandle, error)
	symbol(h nativeHandle, name string) (uintptr, error)
	close(h nativeHandle) error
	call(fnptr uintptr, fr *Frame, library Ref) Ref // returns an exception Ref, or Null on success
}

var loader platformLoader

// Library opens (or returns the already-loaded cell for) the native module
// at path (§4.7). The process-wide registry is keyed by the exact string
// passed in; paths are not normalized, so two different spellings of the
// same file are separate registry entries.
func (h *Heap) Library(fr *Frame, path string) Result {
	if ref, ok := h.libraries[path]; ok {
		return Result{Value: ref}
	}

	var handle nativeHandle
	err := errNoPlatformLoader
	if loader != nil {
		handle, err = loader.open(path)
	}
	if err != nil {
		msg, ferr := h.FormatException(fr, "failed to load library %q: %v", path, err)
		if ferr != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}

	initSym, err := loader.symbol(handle, "bowl_module_initialize")
	if err != nil {
		loader.close(handle)
		msg, ferr := h.FormatException(fr, "library %q exports no bowl_module_initialize: %v", path, err)
		if ferr != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}

	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)

	cellRes := h.newLibraryCell(&sub, handle, path)
	if cellRes.Failure {
		loader.close(handle)
		return cellRes
	}
	sub.Registers[0] = cellRes.Value
	h.libraries[path] = sub.Registers[0]

	if exc := loader.call(initSym, &sub, sub.Registers[0]); exc != Null {
		delete(h.libraries, path)
		loader.close(handle)
		return Result{Failure: true, Value: exc}
	}

	return Result{Value: sub.Registers[0]}
}

func (h *Heap) newLibraryCell(fr *Frame, handle nativeHandle, path string) Result {
	b := []byte(path)
	res := h.Allocate(fr, LibraryType, int64(len(b)))
	if res.Failure {
		return res
	}
	ref := res.Value
	putU64(h.from, ref+offLibraryHandle, uint64(handle))
	putU64(h.from, ref+offLibraryLength, uint64(len(b)))
	copy(h.from[ref+offLibraryBytes:ref+offLibraryBytes+Ref(len(b))], b)
	return Result{Value: ref}
}

func (h *Heap) libraryHandle(ref Ref) nativeHandle {
	return nativeHandle(getU64(h.from, ref+offLibraryHandle))
}

func (h *Heap) setLibraryHandle(ref Ref, handle nativeHandle) {
	putU64(h.from, ref+offLibraryHandle, uint64(handle))
}

func (h *Heap) libraryNameLength(ref Ref) int64 {
	return int64(getU64(h.from, ref+offLibraryLength))
}

func (h *Heap) libraryPath(ref Ref) string {
	n := h.libraryNameLength(ref)
	return string(h.from[ref+offLibraryBytes : ref+offLibraryBytes+Ref(n)])
}

// LibraryIsLoaded reports whether path has a live entry in the process-wide
// library registry (the Go-side equivalent of bowl_library_is_loaded).
func (h *Heap) LibraryIsLoaded(path string) bool {
	_, ok := h.libraries[path]
	return ok
}

// StringToCString returns ref's bytes with a trailing NUL appended, the
// Go-side equivalent of bowl_string_to_null_terminated. Go strings carry no
// terminator of their own; this exists so a native module call crossing
// the cgo boundary in library_unix.go / library_windows.go has a
// byte slice it can hand to C.CString (or pass by pointer directly)
// without a second copy inside the loader.
func (h *Heap) StringToCString(ref Ref) []byte {
	b := h.stringBytes(ref)
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// finalizeLibrary invokes bowl_module_finalize against an unreachable
// library cell (identified by its pre-collection Ref) and closes its
// native handle, per §4.3/§4.7. An exception returned by
// bowl_module_finalize, or a failure to close the handle, is only logged
// through h.log; no exception value (ExceptionFinalizationFailure included)
// is raised for it, and collection always completes.
func (h *Heap) finalizeLibrary(path string, oldRef Ref) {
	handle := nativeHandle(getU64(h.from, oldRef+offLibraryHandle))

	if finSym, err := loader.symbol(handle, "bowl_module_finalize"); err == nil {
		sub := NewInheritingFrame(&h.staticFrame)
		h.Link(&sub)
		// The swap into to-space hasn't happened yet at this point in
		// collect(), so oldRef still addresses the intact cell in h.from
		// for the duration of this synchronous call.
		if exc := loader.call(finSym, &sub, oldRef); exc != Null {
			h.log.Warningf("bowl_module_finalize for %q returned an exception", path)
		}
		h.Unlink(&sub)
	}

	if err := loader.close(handle); err != nil {
		h.log.Errorf("closing native handle for %q failed: %v", path, err)
	}
}

var errNoPlatformLoader = errors.New("bowl: no native module loader registered for this platform")
