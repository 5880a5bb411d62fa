package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is an explicit line break.
	Newline

	// Ident represents an identifier token.
	Ident
	// Keyword is a vocabulary glyph; see Token.Category.
	Keyword
	// Number is a run of ASCII digits and/or numeral glyphs.
	Number
	// String is a quoted literal, quotes included.
	String
	// Unknown is any character no other rule claims.
	Unknown

	LFence   // 【
	RFence   // 】
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
	LTitle   // 《
	RTitle   // 》
	LShell   // 〔
	RShell   // 〕

	Comma // , ， 、 ; ；
	Colon // : ：
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	Newline:  "Newline",
	Ident:    "Ident",
	Keyword:  "Keyword",
	Number:   "Number",
	String:   "String",
	Unknown:  "Unknown",
	LFence:   "LFence",
	RFence:   "RFence",
	LParen:   "LParen",
	RParen:   "RParen",
	LBracket: "LBracket",
	RBracket: "RBracket",
	LBrace:   "LBrace",
	RBrace:   "RBrace",
	LTitle:   "LTitle",
	RTitle:   "RTitle",
	LShell:   "LShell",
	RShell:   "RShell",
	Comma:    "Comma",
	Colon:    "Colon",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsOpen reports whether k opens a delimited group.
func (k Kind) IsOpen() bool {
	switch k {
	case LFence, LParen, LBracket, LBrace, LTitle, LShell:
		return true
	default:
		return false
	}
}

// IsClose reports whether k closes a delimited group.
func (k Kind) IsClose() bool {
	switch k {
	case RFence, RParen, RBracket, RBrace, RTitle, RShell:
		return true
	default:
		return false
	}
}

// delimiter role names as they appear in vocabulary tables
var openKinds = map[string]Kind{
	"fence":   LFence,
	"paren":   LParen,
	"bracket": LBracket,
	"brace":   LBrace,
	"title":   LTitle,
	"shell":   LShell,
}

var closeKinds = map[string]Kind{
	"fence":   RFence,
	"paren":   RParen,
	"bracket": RBracket,
	"brace":   RBrace,
	"title":   RTitle,
	"shell":   RShell,
}

var separatorKinds = map[string]Kind{
	"comma": Comma,
	"colon": Colon,
}

// DelimiterKind maps a delimiter role from a vocabulary table to a token kind.
func DelimiterKind(role string, open bool) (Kind, bool) {
	if open {
		k, ok := openKinds[role]
		return k, ok
	}
	k, ok := closeKinds[role]
	return k, ok
}

// SeparatorKind maps a separator role ("comma", "colon") to a token kind.
func SeparatorKind(role string) (Kind, bool) {
	k, ok := separatorKinds[role]
	return k, ok
}
