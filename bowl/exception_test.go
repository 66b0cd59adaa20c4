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
	"strings"
	"testing"

	"github.com/bowl-run/bowl/bowl"
)

func TestFormatExceptionMessage(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	ref, err := h.FormatException(&fr, "bad argument %d to %s", 2, "double")
	if err != nil {
		t.Fatalf("FormatException errored: %v", err)
	}
	if h.Type(ref) != bowl.ExceptionType {
		t.Fatalf("expected an exception value, got %s", h.Type(ref))
	}
	if got := h.Show(ref); !strings.Contains(got, "bad argument 2 to double") {
		t.Errorf("Show(exception) = %q, want it to contain the formatted message", got)
	}
}

func TestReraiseChainsCause(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	inner, err := h.FormatException(&fr, "original failure")
	if err != nil {
		t.Fatalf("FormatException errored: %v", err)
	}
	fr.Registers[0] = inner

	outer := h.Reraise(&fr, fr.Registers[0], "wrapped: %s", "context")
	got := h.Show(outer)
	if !strings.Contains(got, "wrapped: context") || !strings.Contains(got, "original failure") {
		t.Errorf("Show(reraised) = %q, want both messages present", got)
	}
}
