package gpi

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeArgv converts the simulator's native argument vector into
// strings. Simulators hand over raw bytes in whatever encoding the
// host locale produced; undecodable bytes must not abort startup, so
// they are embedded with a reversible percent escape.
func DecodeArgv(argv [][]byte) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = DecodeArg(arg)
	}
	return out
}

// DecodeArg decodes one argument. Invalid bytes become "%XX"; a literal
// '%' becomes "%25" so escaped and literal text stay distinguishable.
// EncodeArg inverts the transformation exactly.
func DecodeArg(arg []byte) string {
	var b strings.Builder
	b.Grow(len(arg))
	for i := 0; i < len(arg); {
		r, size := utf8.DecodeRune(arg[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			fmt.Fprintf(&b, "%%%02X", arg[i])
			i++
		case r == '%':
			b.WriteString("%25")
			i++
		default:
			b.Write(arg[i : i+size])
			i += size
		}
	}
	return b.String()
}

// EncodeArg recovers the original byte sequence from a decoded
// argument.
func EncodeArg(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+3 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				out = append(out, byte(v))
				i += 3
				continue
			}
		}
		out = append(out, s[i])
		i++
	}
	return out
}
