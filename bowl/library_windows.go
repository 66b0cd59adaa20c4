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
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type windowsLoader struct{}

func init() {
	loader = windowsLoader{}
}

func (windowsLoader) open(path string) (nativeHandle, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, errors.Wrapf(err, "LoadLibrary failed for %q", path)
	}
	return nativeHandle(h), nil
}

func (windowsLoader) symbol(h nativeHandle, name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(h), name)
	if err != nil {
		return 0, errors.Wrapf(err, "GetProcAddress found no symbol %q", name)
	}
	return addr, nil
}

func (windowsLoader) close(h nativeHandle) error {
	return windows.FreeLibrary(windows.Handle(h))
}

// call invokes a module's initialize/finalize entry point via the stdcall
// thunk syscall.Syscall exposes, matching the two-argument
// BowlValue (*)(BowlStack, BowlValue) signature shared by both (§4.7, §6).
func (windowsLoader) call(fnptr uintptr, fr *Frame, library Ref) Ref {
	ret, _, _ := syscall.Syscall(fnptr, 2, uintptr(unsafe.Pointer(fr)), uintptr(library), 0)
	return Ref(ret)
}
