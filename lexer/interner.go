package lexer

// Interner is the flat byte pool backing every identifier and string
// literal payload produced by the lexer. Tokens reference their text
// by (offset, length)
// into Bytes rather than holding a Go string directly, so that the
// preprocessor and parser can compare payloads by slicing the same
// backing array instead of allocating per comparison.
type Interner struct {
	Bytes []byte
	index map[string]int32
}

// NewInterner returns an empty Interner ready for use.
func NewInterner() *Interner {
	return &Interner{
		index: make(map[string]int32),
	}
}

// Intern appends s to the pool, reusing the existing range if s was
// already interned, and returns the (offset, length) pair a Token can
// carry in its PayloadOff/PayloadLen fields.
func (in *Interner) Intern(s string) (off, length int32) {
	if existing, ok := in.index[s]; ok {
		return existing, int32(len(s))
	}
	off = int32(len(in.Bytes))
	in.Bytes = append(in.Bytes, s...)
	in.index[s] = off
	return off, int32(len(s))
}

// String returns the text at the given (offset, length), as produced
// by an earlier call to Intern.
func (in *Interner) String(off, length int32) string {
	return string(in.Bytes[off : off+length])
}
