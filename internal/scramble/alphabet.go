package scramble

// DefaultAlphabet is the filler set used for unresolved positions: uppercase
// letters, digits and a handful of symbols.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890@#$%&*"

// Alphabet is an immutable set of filler characters shared by all sessions.
type Alphabet struct {
	runes []rune
}

// NewAlphabet builds an alphabet from the runes of s. Duplicates are kept, so
// a repeated rune is proportionally more likely to be drawn.
func NewAlphabet(s string) Alphabet {
	return Alphabet{runes: []rune(s)}
}

// Len returns the number of candidate runes.
func (a Alphabet) Len() int { return len(a.runes) }

func (a Alphabet) String() string { return string(a.runes) }

func (a Alphabet) at(i int) rune { return a.runes[i] }
