package cli

import (
	"bufio"
	"io"

	"quickquiz/internal/session"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// keyReader decodes raw terminal bytes into session keys. It also accepts
// line-buffered input, so "\r\n" counts as a single Enter.
type keyReader struct {
	r *bufio.Reader
}

func newKeyReader(in io.Reader) *keyReader {
	return &keyReader{r: bufio.NewReader(in)}
}

func (k *keyReader) Next() (session.Key, error) {
	b, err := k.r.ReadByte()
	if err != nil {
		return session.Key{}, err
	}

	switch {
	case b == keyCtrlC:
		return session.Key{Kind: session.KeyInterrupt}, nil
	case b == '\r':
		if k.r.Buffered() > 0 {
			if next, _ := k.r.Peek(1); len(next) == 1 && next[0] == '\n' {
				_, _ = k.r.ReadByte()
			}
		}
		return session.Key{Kind: session.KeyEnter}, nil
	case b == '\n':
		return session.Key{Kind: session.KeyEnter}, nil
	case b == keyEscape:
		return k.escape(), nil
	case b >= '1' && b <= '9':
		return session.Key{Kind: session.KeyDigit, Digit: int(b - '0')}, nil
	case b < 0x20 || b == 0x7f:
		return session.Key{Kind: session.KeyNone}, nil
	}

	if err := k.r.UnreadByte(); err != nil {
		return session.Key{}, err
	}
	r, _, err := k.r.ReadRune()
	if err != nil {
		return session.Key{}, err
	}
	return session.Key{Kind: session.KeyRune, Rune: r}, nil
}

// escape reads the rest of an arrow key sequence. A bare ESC with nothing
// buffered behind it is ignored instead of blocking for more input.
func (k *keyReader) escape() session.Key {
	if k.r.Buffered() < 2 {
		return session.Key{Kind: session.KeyNone}
	}
	seq, _ := k.r.Peek(2)
	if seq[0] != '[' && seq[0] != 'O' {
		return session.Key{Kind: session.KeyNone}
	}
	_, _ = k.r.Discard(2)

	switch seq[1] {
	case 'A':
		return session.Key{Kind: session.KeyUp}
	case 'B':
		return session.Key{Kind: session.KeyDown}
	case 'C':
		return session.Key{Kind: session.KeyRight}
	case 'D':
		return session.Key{Kind: session.KeyLeft}
	default:
		return session.Key{Kind: session.KeyNone}
	}
}
