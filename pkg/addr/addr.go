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

package addr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MACLen is the length of a hardware address in bytes.
	MACLen = 6
	// IPv4Len is the length of an IPv4 address in bytes.
	IPv4Len = 4
	// IPv6Len is the length of an IPv6 address in bytes.
	IPv6Len = 16

	// IPv4Bits is the maximum IPv4 prefix length.
	IPv4Bits = 32
	// IPv6Bits is the maximum IPv6 prefix length.
	IPv6Bits = 128

	hextets = 8
)

// ErrMalformed reports that one or more tokens of an address could not be
// decoded and were replaced by zero.
var ErrMalformed = errors.New("malformed address")

// MAC is a 48-bit hardware address.
type MAC [MACLen]byte

// IPv4 is an IPv4 address in network byte order.
type IPv4 [IPv4Len]byte

// IPv6 is an IPv6 address in network byte order.
type IPv6 [IPv6Len]byte

// ParseMAC decodes a colon-delimited hexadecimal hardware address.
// Tokens beyond the sixth are ignored and missing tokens stay zero.
func ParseMAC(s string) (MAC, error) {
	var m MAC
	bad := splitInto(m[:], s, ":", 16)
	return m, malformed("mac", s, bad)
}

// ParseIPv4 decodes a dotted-decimal IPv4 address.
func ParseIPv4(s string) (IPv4, error) {
	var ip IPv4
	bad := splitInto(ip[:], s, ".", 10)
	return ip, malformed("ipv4", s, bad)
}

// IPv4FromBytes copies a 4-byte buffer into an IPv4 address.
// Buffers of any other length yield the zero address and ErrMalformed.
func IPv4FromBytes(b []byte) (IPv4, error) {
	var ip IPv4
	if len(b) != IPv4Len {
		return ip, fmt.Errorf("%w: ipv4 buffer of %d bytes", ErrMalformed, len(b))
	}
	copy(ip[:], b)
	return ip, nil
}

// ParseIPv6 decodes the textual form of an IPv6 address, including
// zero-compression ("::"), an optional zone suffix ("%eth0") and an embedded
// dotted IPv4 tail ("::ffff:192.0.2.1").
//
// The string is split around the first "::"; the hextets on either side are
// parsed and the omitted middle is filled with 8-(left+right) zero hextets.
// Without "::" up to 8 hextets are read directly and empty tokens are zero.
func ParseIPv6(s string) (IPv6, error) {
	var ip IPv6
	if i := strings.IndexByte(s, '%'); i >= 0 {
		s = s[:i]
	}

	var segments []string
	if i := strings.Index(s, "::"); i >= 0 {
		left := nonEmpty(strings.Split(s[:i], ":"))
		right := nonEmpty(strings.Split(s[i+2:], ":"))
		right = expandDottedTail(right)
		left = expandDottedTail(left)

		fill := hextets - len(left) - len(right)
		if fill < 0 {
			fill = 0
		}
		segments = make([]string, 0, hextets)
		segments = append(segments, left...)
		for j := 0; j < fill; j++ {
			segments = append(segments, "0")
		}
		segments = append(segments, right...)
	} else {
		segments = expandDottedTail(strings.Split(s, ":"))
	}

	var bad []int
	for idx, seg := range segments {
		if idx >= hextets {
			break
		}
		if seg == "" {
			continue
		}
		v, err := strconv.ParseUint(seg, 16, 16)
		if err != nil {
			bad = append(bad, idx)
			continue
		}
		ip[2*idx] = byte(v >> 8)
		ip[2*idx+1] = byte(v)
	}
	return ip, malformed("ipv6", s, bad)
}

// PrefixFromMask counts the leading one bits of a mask in big-endian order.
// Counting stops at the first zero bit.
func PrefixFromMask(mask []byte) uint8 {
	var n uint8
	for _, b := range mask {
		if b == 0xff {
			n += 8
			continue
		}
		for bit := 7; bit >= 0 && b&(1<<uint(bit)) != 0; bit-- {
			n++
		}
		break
	}
	return n
}

// PrefixFromDotted counts the leading one bits of a dotted-decimal mask such
// as "255.255.255.0".
func PrefixFromDotted(s string) (uint8, error) {
	m, err := ParseIPv4(s)
	return PrefixFromMask(m[:]), err
}

// MaskFromPrefix expands a prefix length into a mask of bits/8 bytes.
// Prefixes larger than bits are clamped.
func MaskFromPrefix(prefix, bits int) []byte {
	if prefix > bits {
		prefix = bits
	}
	if prefix < 0 {
		prefix = 0
	}
	mask := make([]byte, bits/8)
	for i := range mask {
		switch {
		case prefix >= 8:
			mask[i] = 0xff
			prefix -= 8
		case prefix > 0:
			mask[i] = byte(0xff << uint(8-prefix))
			prefix = 0
		}
	}
	return mask
}

// String returns the lowercase colon-delimited form, e.g. "00:1a:2b:3c:4d:5e".
func (m MAC) String() string {
	var b strings.Builder
	for i, v := range m {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}

// String returns the dotted-decimal form.
func (ip IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

// String returns the canonical RFC 5952 form: lowercase hextets without
// leading zeros, the longest run of two or more zero hextets replaced by "::".
func (ip IPv6) String() string {
	var words [hextets]uint16
	for i := range words {
		words[i] = uint16(ip[2*i])<<8 | uint16(ip[2*i+1])
	}

	// longest zero run, first one wins on ties
	bestStart, bestLen := -1, 0
	for i := 0; i < hextets; {
		if words[i] != 0 {
			i++
			continue
		}
		j := i
		for j < hextets && words[j] == 0 {
			j++
		}
		if j-i > bestLen {
			bestStart, bestLen = i, j-i
		}
		i = j
	}
	if bestLen < 2 {
		bestStart = -1
	}

	var b strings.Builder
	for i := 0; i < hextets; i++ {
		if i == bestStart {
			b.WriteString("::")
			i += bestLen - 1
			continue
		}
		if i > 0 && i != bestStart+bestLen {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(words[i]), 16))
	}
	return b.String()
}

// IsZero reports whether all address bytes are zero.
func (ip IPv4) IsZero() bool { return ip == IPv4{} }

// IsZero reports whether all address bytes are zero.
func (ip IPv6) IsZero() bool { return ip == IPv6{} }

// MarshalText implements encoding.TextMarshaler.
func (m MAC) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MAC) UnmarshalText(b []byte) error {
	v, err := ParseMAC(string(b))
	*m = v
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (ip IPv4) MarshalText() ([]byte, error) { return []byte(ip.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (ip *IPv4) UnmarshalText(b []byte) error {
	v, err := ParseIPv4(string(b))
	*ip = v
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (ip IPv6) MarshalText() ([]byte, error) { return []byte(ip.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (ip *IPv6) UnmarshalText(b []byte) error {
	v, err := ParseIPv6(string(b))
	*ip = v
	return err
}

// splitInto parses up to len(dst) tokens of s in the given base.
// It returns the positions that failed to parse.
func splitInto(dst []byte, s, sep string, base int) []int {
	var bad []int
	for i, tok := range strings.Split(s, sep) {
		if i >= len(dst) {
			break
		}
		v, err := strconv.ParseUint(strings.TrimSpace(tok), base, 8)
		if err != nil {
			bad = append(bad, i)
			continue
		}
		dst[i] = byte(v)
	}
	return bad
}

// expandDottedTail rewrites a trailing dotted IPv4 token into two hextets.
func expandDottedTail(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}
	last := segments[len(segments)-1]
	if !strings.Contains(last, ".") {
		return segments
	}
	v4, err := ParseIPv4(last)
	if err != nil {
		return segments
	}
	out := append([]string{}, segments[:len(segments)-1]...)
	return append(out,
		strconv.FormatUint(uint64(v4[0])<<8|uint64(v4[1]), 16),
		strconv.FormatUint(uint64(v4[2])<<8|uint64(v4[3]), 16),
	)
}

func nonEmpty(tokens []string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func malformed(kind, s string, bad []int) error {
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s %q (tokens %v)", ErrMalformed, kind, s, bad)
}
