// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package probe

import (
	"strconv"
	"strings"
)

// UndefinedArch labels a processor architecture that could not be resolved.
const UndefinedArch = "Undefined"

// unameBitness maps `uname -m` machine names to the architecture bit width.
var unameBitness = map[string]uint16{
	"alpha": 64, "arc": 32, "arm": 32, "aarch64_be": 64, "aarch64": 64,
	"armv8b": 32, "armv8l": 32, "blackfin": 32, "c6x": 32, "cris": 32,
	"frv": 32, "h8300": 32, "hexagon": 32, "ia64": 64, "m32r": 32,
	"m68k": 32, "metag": 32, "microblaze": 32, "mips": 32, "mips64": 64,
	"mn10300": 32, "nios2": 32, "openrisc": 32, "parisc": 32, "parisc64": 64,
	"ppc": 32, "ppc64": 64, "ppcle": 32, "ppc64le": 64, "s390": 32,
	"s390x": 64, "score": 32, "sh": 32, "sh64": 64, "sparc": 32,
	"sparc64": 64, "tile": 64, "unicore32": 32, "i386": 32, "i486": 32,
	"i586": 32, "i686": 32, "x86_64": 64, "x64": 64, "xtensa": 32,
	"arm64": 64, "amd64": 64, "riscv32": 32, "riscv64": 64, "loongarch64": 64,
}

// windowsArchLabels maps Win32_Processor.Architecture codes to labels.
var windowsArchLabels = map[int]string{
	0:  "x86",
	1:  "MIPS",
	2:  "Alpha",
	3:  "PowerPC",
	4:  "ARM",
	5:  "Itanium",
	6:  "ia64",
	9:  "x64",
	12: "ARM64",
}

// BitWidth returns the bit width of a `uname -m` machine name, 0 if unknown.
func BitWidth(machine string) uint16 {
	return unameBitness[strings.TrimSpace(machine)]
}

// WindowsArchLabel returns the label of a Win32_Processor architecture code.
func WindowsArchLabel(code string) string {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return UndefinedArch
	}
	if label, ok := windowsArchLabels[n]; ok {
		return label
	}
	return UndefinedArch
}

// bitWidthFromLabel reads Win32_OperatingSystem.OSArchitecture, e.g. "64-bit".
func bitWidthFromLabel(label string) uint16 {
	switch {
	case strings.Contains(label, "64"):
		return 64
	case strings.Contains(label, "32"):
		return 32
	default:
		return 0
	}
}
