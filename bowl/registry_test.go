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

package bowl_test

import (
	"fmt"
	"testing"

	"github.com/bowl-run/bowl/bowl"
)

func TestRegisterAllBindsEveryEntry(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	var dictionary bowl.Ref
	fr := bowl.NewEmptyFrame(nil)
	fr.Dictionary = &dictionary
	h.Link(&fr)
	defer h.Unlink(&fr)

	dres := h.Map(&fr, bowl.DefaultMapCapacity)
	if dres.Failure {
		t.Fatalf("Map failed: %s", h.Show(dres.Value))
	}
	dictionary = dres.Value

	entries := []bowl.RegisterEntry{
		{Name: "double", FnIndex: 0},
		{Name: "negate", FnIndex: 1},
	}
	res := h.RegisterAll(&fr, bowl.Null, entries)
	if res.Failure {
		t.Fatalf("RegisterAll failed: %s", h.Show(res.Value))
	}

	if got := h.MapLength(dictionary); got != 2 {
		t.Fatalf("dictionary length = %d, want 2", got)
	}

	sentinel := h.Sentinel()
	doubleSym := mustSymbol(t, h, &fr, "double")
	fn := h.GetOrElse(dictionary, doubleSym, sentinel)
	if fn == sentinel {
		t.Fatalf("expected 'double' to be registered")
	}
	if h.Type(fn) != bowl.FunctionType {
		t.Fatalf("expected a function value, got %s", h.Type(fn))
	}
}

// RegisterAll must keep its library argument pinned in a GC-visible root of
// its own across every RegisterFunction call, not just re-pass a bare Go
// local: registering enough entries to outgrow the heap's initial arena
// forces at least one real collection partway through the loop, which
// would otherwise leave every entry registered after that point (and the
// final returned value) bound to a stale, moved library cell.
func TestRegisterAllPinsLibraryAcrossCollections(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	var dictionary bowl.Ref
	fr := bowl.NewEmptyFrame(nil)
	fr.Dictionary = &dictionary
	h.Link(&fr)
	defer h.Unlink(&fr)

	dres := h.Map(&fr, bowl.DefaultMapCapacity)
	if dres.Failure {
		t.Fatalf("Map failed: %s", h.Show(dres.Value))
	}
	dictionary = dres.Value

	// Stand in for a loaded native module: RegisterFunction/RegisterAll
	// never inspect library's type, only carry it through, so a plain
	// heap-allocated string is enough to exercise the pinning discipline
	// without a real compiled module.
	fr.Registers[0] = mustString(t, h, &fr, "kernel.so")

	const n = 2000
	entries := make([]bowl.RegisterEntry, n)
	for i := range entries {
		entries[i] = bowl.RegisterEntry{Name: fmt.Sprintf("fn%d", i), FnIndex: int64(i)}
	}

	res := h.RegisterAll(&fr, fr.Registers[0], entries)
	if res.Failure {
		t.Fatalf("RegisterAll failed: %s", h.Show(res.Value))
	}
	if !h.Equals(res.Value, fr.Registers[0]) {
		t.Fatalf("RegisterAll's returned library drifted from the pinned original: %s vs %s",
			h.Show(res.Value), h.Show(fr.Registers[0]))
	}

	sentinel := h.Sentinel()
	for _, name := range []string{"fn0", "fn1", fmt.Sprintf("fn%d", n-1)} {
		sym := mustSymbol(t, h, &fr, name)
		fn := h.GetOrElse(dictionary, sym, sentinel)
		if fn == sentinel {
			t.Fatalf("entry %q missing from dictionary", name)
		}
		if !h.Equals(h.FunctionLibrary(fn), fr.Registers[0]) {
			t.Errorf("function %q bound to a stale library ref: %s", name, h.Show(h.FunctionLibrary(fn)))
		}
	}
}

func mustSymbol(t *testing.T, h *bowl.Heap, fr *bowl.Frame, s string) bowl.Ref {
	t.Helper()
	res := h.Symbol(fr, []byte(s))
	if res.Failure {
		t.Fatalf("Symbol(%q) failed: %s", s, h.Show(res.Value))
	}
	return res.Value
}
