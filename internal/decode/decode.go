// Package decode implements the lenient base64-alphabet decoder behind the
// live preview.
//
// This is intentionally not a conformant base64 implementation. It never
// fails, it does not require padding, and it treats '=' as an ordinary
// zero-value symbol rather than as a terminator. A rune outside the alphabet
// contributes no bits but still advances the bit cursor by six, so a stray
// character never shifts the symbols after it. Both properties exist so the
// preview stays stable while input is half-typed or pasted in pieces.
//
// Display is not a fixed point: feeding its output back in reinterprets the
// replacement markers and trimmed text as a fresh base64-alphabet stream, so
// Display(Display(x)) generally differs from Display(x). That is expected,
// not a defect.
package decode

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// DiagnosticFunc receives each input rune that falls outside the base64
// alphabet. It is advisory only and must not block; the decode continues
// regardless of what it does.
type DiagnosticFunc func(r rune)

var (
	diagMu sync.RWMutex
	diag   DiagnosticFunc = func(r rune) {
		fmt.Fprintf(os.Stderr, "invalid char: %q\n", r)
	}
)

// SetDiagnostic replaces the hook that receives invalid runes and returns
// the previous hook. Passing nil silences diagnostics.
func SetDiagnostic(fn DiagnosticFunc) DiagnosticFunc {
	diagMu.Lock()
	defer diagMu.Unlock()

	prev := diag
	diag = fn
	return prev
}

func reportInvalid(r rune) {
	diagMu.RLock()
	fn := diag
	diagMu.RUnlock()

	if fn != nil {
		fn(r)
	}
}

// symbolValue maps one rune to its 6-bit symbol value. ok is false for runes
// outside the alphabet.
func symbolValue(r rune) (v byte, ok bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return byte(r - 'A'), true
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 26, true
	case r >= '0' && r <= '9':
		return byte(r-'0') + 52, true
	case r == '+':
		return 62, true
	case r == '/':
		return 63, true
	case r == '=':
		// Padding is an ordinary zero-value symbol here, not a
		// terminator.
		return 0, true
	default:
		return 0, false
	}
}

// Raw decodes text as a base64-alphabet stream into raw bytes.
//
// The result is always ceil(runes*6/8) bytes, zero-initialized, regardless
// of content. Every rune advances the bit cursor by six; a valid symbol ORs
// its six bits in at the cursor, an invalid rune leaves its bit positions
// zero and is reported to the diagnostic hook. Raw never fails.
func Raw(text string) []byte {
	totalBits := utf8.RuneCountInString(text) * 6
	size := totalBits / 8
	if totalBits%8 != 0 {
		size++
	}
	buf := make([]byte, size)

	bit := 0
	for _, r := range text {
		v, ok := symbolValue(r)
		if !ok {
			reportInvalid(r)
			bit += 6
			continue
		}

		idx := bit / 8
		rem := bit % 8
		if rem > 2 {
			// The six bits straddle a byte boundary.
			buf[idx] |= v >> (rem - 2)
			buf[idx+1] |= v << (10 - rem)
		} else {
			buf[idx] |= v << (2 - rem)
		}
		bit += 6
	}

	return buf
}

// Display decodes text and reconstructs a printable string for the preview.
//
// The decoded buffer is first stripped of trailing zero bytes. The trim is
// content-blind: padding artifacts from '=' or trailing invalid runes and
// genuine trailing NULs in the payload are indistinguishable at this point,
// and both are removed. The remaining bytes are decoded as UTF-8 with each
// maximal invalid subpart replaced by a single U+FFFD, then every rune that
// is not an ASCII graphic character or a plain space is replaced with
// U+FFFD, one marker per rune. Display never fails.
func Display(text string) string {
	buf := Raw(text)

	for len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}

	var b strings.Builder
	b.Grow(len(buf))
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			// One marker per maximal invalid subpart: a truncated
			// multibyte sequence collapses to a single U+FFFD, a
			// run of stray bytes to one each.
			b.WriteRune(utf8.RuneError)
			buf = buf[invalidLen(buf):]
			continue
		}
		if printable(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(utf8.RuneError)
		}
		buf = buf[size:]
	}
	return b.String()
}

// invalidLen returns the length of the maximal invalid subpart at the start
// of buf: the leading byte plus however many following bytes form a valid
// prefix of one UTF-8 sequence. Only called when buf does not start with a
// complete valid sequence, so the result is always shorter than a full one.
func invalidLen(buf []byte) int {
	var need int
	var lo, hi byte

	switch b0 := buf[0]; {
	case b0 >= 0xc2 && b0 <= 0xdf:
		need, lo, hi = 2, 0x80, 0xbf
	case b0 == 0xe0:
		need, lo, hi = 3, 0xa0, 0xbf
	case b0 >= 0xe1 && b0 <= 0xec:
		need, lo, hi = 3, 0x80, 0xbf
	case b0 == 0xed:
		// Beyond 0x9f would encode a surrogate.
		need, lo, hi = 3, 0x80, 0x9f
	case b0 >= 0xee && b0 <= 0xef:
		need, lo, hi = 3, 0x80, 0xbf
	case b0 == 0xf0:
		need, lo, hi = 4, 0x90, 0xbf
	case b0 >= 0xf1 && b0 <= 0xf3:
		need, lo, hi = 4, 0x80, 0xbf
	case b0 == 0xf4:
		// Beyond 0x8f would encode past U+10FFFF.
		need, lo, hi = 4, 0x80, 0x8f
	default:
		// Stray continuation byte or a byte UTF-8 never uses.
		return 1
	}

	n := 1
	for i := 1; i < need && i < len(buf); i++ {
		if buf[i] < lo || buf[i] > hi {
			break
		}
		lo, hi = 0x80, 0xbf
		n++
	}
	return n
}

// InvalidCount returns how many runes of text fall outside the alphabet.
// It does not fire the diagnostic hook.
func InvalidCount(text string) int {
	n := 0
	for _, r := range text {
		if _, ok := symbolValue(r); !ok {
			n++
		}
	}
	return n
}

// printable reports whether r may appear in the preview verbatim: ASCII
// graphic characters and the plain space.
func printable(r rune) bool {
	return (r >= '!' && r <= '~') || r == ' '
}
