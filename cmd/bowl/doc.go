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

// The bowl command is a minimal demonstration front end for the
// github.com/bowl-run/bowl/bowl runtime core: it configures a heap, loads an
// optional kernel native module, loads a boot image, and reports what it
// found. It is not a tokenizer or a REPL; those remain external
// collaborators of the core (§1).
//
// Usage:
//
//	-boot filename
//		load the boot image from filename
//	-kernel filename
//		load the kernel native module from filename
//	-v int
//		log verbosity, 0 = silent
//	-debug
//		print exceptions with their full cause chain
package main
