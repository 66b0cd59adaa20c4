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

//go:build linux || darwin

package bowl

/*
#include <dlfcn.h>
#include <stdlib.h>

static void* bowl_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}
static void* bowl_dlsym(void* h, const char* name) {
	return dlsym(h, name);
}
static int bowl_dlclose(void* h) {
	return dlclose(h);
}

// bowl_module_initialize and bowl_module_finalize both share the signature
// BowlValue (*)(BowlStack frame, BowlValue library): frame is an opaque
// pointer, library is a 64-bit reference, and the return is an exception
// reference or 0 for success.
typedef long long (*bowl_module_fn)(void*, long long);

static long long bowl_call_module_fn(void* fn, void* frame, long long library) {
	return ((bowl_module_fn)fn)(frame, library);
}
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"
)

type unixLoader struct{}

func init() {
	loader = unixLoader{}
}

func (unixLoader) open(path string) (nativeHandle, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.bowl_dlopen(cpath)
	if h == nil {
		return 0, errors.Errorf("dlopen failed for %q", path)
	}
	return nativeHandle(uintptr(h)), nil
}

func (unixLoader) symbol(h nativeHandle, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	sym := C.bowl_dlsym(unsafe.Pointer(uintptr(h)), cname)
	if sym == nil {
		return 0, errors.Errorf("dlsym found no symbol %q", name)
	}
	return uintptr(sym), nil
}

func (unixLoader) close(h nativeHandle) error {
	if C.bowl_dlclose(unsafe.Pointer(uintptr(h))) != 0 {
		return errors.New("dlclose failed")
	}
	return nil
}

func (unixLoader) call(fnptr uintptr, fr *Frame, library Ref) Ref {
	ret := C.bowl_call_module_fn(unsafe.Pointer(fnptr), unsafe.Pointer(fr), C.longlong(library))
	return Ref(ret)
}
