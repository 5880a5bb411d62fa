package token

// Category is the semantic role of a keyword glyph.
type Category uint8

const (
	CatNone Category = iota
	CatImport
	CatFunction
	CatComponent
	CatInterface
	CatRoot
	CatState
	CatText
	CatList
	CatObject
	CatStyle
	CatDoc
	CatAssign
	CatYield
	CatCompose
)

var categoryNames = [...]string{
	CatNone:      "none",
	CatImport:    "import",
	CatFunction:  "function",
	CatComponent: "component",
	CatInterface: "interface",
	CatRoot:      "root",
	CatState:     "state",
	CatText:      "text",
	CatList:      "list",
	CatObject:    "object",
	CatStyle:     "style",
	CatDoc:       "documentation",
	CatAssign:    "assign",
	CatYield:     "yield",
	CatCompose:   "compose",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "category(?)"
}

// LookupCategory возвращает категорию по имени из словаря.
func LookupCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if i == int(CatNone) {
			continue
		}
		if n == name {
			return Category(i), true
		}
	}
	return CatNone, false
}

// IsDeclaration reports whether the category starts a fenced block.
func (c Category) IsDeclaration() bool {
	switch c {
	case CatFunction, CatComponent, CatInterface:
		return true
	default:
		return false
	}
}
