// Package addr converts hardware and network addresses between their textual
// and binary forms.
//
// Decoding is lossy by contract: a malformed token decodes to zero for its
// position and decoding continues. The returned value is always usable; the
// error only reports that at least one token was replaced.
//
//	mac, err := addr.ParseMAC("00:1a:2b:3c:4d:5e")
//	ip6, err := addr.ParseIPv6("2001:db8::1")
//	prefix := addr.PrefixFromMask([]byte{255, 255, 255, 0}) // 24
//
// Masks are carried as prefix lengths (count of leading one bits), never as
// dotted masks.
package addr
