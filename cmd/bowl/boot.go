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

package main

import (
	"fmt"

	"github.com/bowl-run/bowl/bowl"
)

// runBootImage loads path into a fresh top-level frame's datastack register
// and reports what it found. The boot image's file format and the
// interpreter loop that would dispatch its contents through the dictionary
// are both out of scope for the core (§1); this is the minimal demonstration
// of the loading surface the core does expose.
func runBootImage(h *bowl.Heap, path string) error {
	var datastack bowl.Ref
	fr := bowl.NewEmptyFrame(nil)
	fr.Datastack = &datastack
	h.Link(&fr)
	defer h.Unlink(&fr)

	res := h.LoadBootImage(&fr, path)
	if res.Failure {
		return fmt.Errorf("loading boot image %q: %s", path, h.Show(res.Value))
	}
	datastack = res.Value

	fmt.Printf("bowl: loaded %q: %s\n", path, h.Show(datastack))
	return nil
}
