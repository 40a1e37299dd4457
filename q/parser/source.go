package parser

// TokenSource is an ordered, randomly addressable sequence of classified
// tokens. Indexes at or past Len yield an EOF token.
type TokenSource interface {
	Len() int
	At(i int) Token
}

// TokenSlice is a TokenSource backed by a slice.
type TokenSlice []Token

func (s TokenSlice) Len() int {
	return len(s)
}

func (s TokenSlice) At(i int) Token {
	if i < 0 || i >= len(s) {
		return s.eof()
	}
	return s[i]
}

func (s TokenSlice) eof() Token {
	if len(s) == 0 {
		return Token{Kind: TokenEOF}
	}
	end := s[len(s)-1].Span.End
	return Token{Kind: TokenEOF, Span: Span{Start: end, End: end}}
}

// Lookahead is the read-only view of the token stream given to error
// strategies. k is 1-based: LT(1) is the current token.
type Lookahead interface {
	LT(k int) Token
	LA(k int) TokenKind
}

// cursor is the parser's forward-only read position in a TokenSource.
type cursor struct {
	src TokenSource
	pos int
}

func (c *cursor) LT(k int) Token {
	if k < 1 {
		k = 1
	}
	return c.src.At(c.pos + k - 1)
}

func (c *cursor) LA(k int) TokenKind {
	return c.LT(k).Kind
}

func (c *cursor) consume() Token {
	tok := c.LT(1)
	if c.pos < c.src.Len() && tok.Kind != TokenEOF {
		c.pos++
	}
	return tok
}

// last returns the most recently consumed token.
func (c *cursor) last() (Token, bool) {
	if c.pos == 0 {
		return Token{}, false
	}
	return c.src.At(c.pos - 1), true
}
