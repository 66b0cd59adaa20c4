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
	"flag"
	"fmt"
	"os"

	_ "github.com/tliron/commonlog/simple"

	"github.com/bowl-run/bowl/bowl"
	"github.com/bowl-run/bowl/internal/diag"
)

var (
	bootImage     = flag.String("boot", "", "load the boot image from `filename`")
	kernelLibrary = flag.String("kernel", "", "load the kernel native module from `filename`")
	verbosity     = flag.Int("v", 0, "log verbosity, 0 = silent")
	debug         = flag.Bool("debug", false, "print exceptions with their full cause chain")
)

func atExit(h *bowl.Heap, err error) {
	if err == nil {
		return
	}
	if !*debug {
		fmt.Fprintf(os.Stderr, "bowl: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "bowl: %+v\n", err)
	os.Exit(1)
}

func main() {
	flag.Parse()

	var err error
	var h *bowl.Heap
	defer func() { atExit(h, err) }()

	opts := []bowl.Option{
		bowl.WithSettings(bowl.Settings{
			BootImagePath: *bootImage,
			KernelLibrary: *kernelLibrary,
			Verbosity:     *verbosity,
		}),
	}
	if *verbosity == 0 {
		opts = append(opts, bowl.WithLogger(diag.Nop{}))
	}

	h, err = bowl.NewHeapWithOptions(opts...)
	if err != nil {
		return
	}

	if *kernelLibrary != "" {
		fr := bowl.NewEmptyFrame(nil)
		h.Link(&fr)
		res := h.Library(&fr, *kernelLibrary)
		h.Unlink(&fr)
		if res.Failure {
			err = fmt.Errorf("loading kernel library: %s", h.Show(res.Value))
			return
		}
	}

	if *bootImage == "" {
		fmt.Fprintln(os.Stderr, "bowl: no -boot image given; nothing to run")
		return
	}
	err = runBootImage(h, *bootImage)
}
