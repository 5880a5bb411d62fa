package emit

import (
	"strings"
	"unicode"
)

// Имена, которые нельзя отдать пользователю как есть. main переименовывается
// во всех целях: точку входа строит эмиттер, а пользовательский main
// вызывается из неё.
var (
	goReserved = wordSet(`break case chan const continue default defer else fallthrough
		for func go goto if import interface map package range return select struct
		switch type var any nil rt math main init`)

	rustKeywords = wordSet(`as async await break const continue crate dyn else enum extern
		false fn for if impl in let loop match mod move mut pub ref return self Self
		static struct super trait true type unsafe use where while abstract become box
		do final macro override priv try typeof unsized virtual yield`)
	rustReserved = wordSet(`rt main __init std`)
	rustNoRaw    = wordSet(`self Self super crate`)

	llvmReserved = wordSet(`main __init`)
)

func wordSet(s string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		m[w] = true
	}
	return m
}

// identifier replaces everything that is not a letter, digit or underscore.
func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func goName(s string) string {
	// goPlaceholder+N() принадлежит эмиттеру
	name := strings.ReplaceAll(identifier(s), goPlaceholder, goPlaceholder+"_")
	if goReserved[name] {
		name += "_"
	}
	return name
}

func rustName(s string) string {
	name := identifier(s)
	switch {
	case rustReserved[name], rustNoRaw[name]:
		return name + "_"
	case rustKeywords[name]:
		return "r#" + name
	}
	return name
}

// llvmName keeps the name readable; llir quotes what LLVM can't take bare.
func llvmName(s string) string {
	if llvmReserved[s] || strings.HasPrefix(s, "rt_") {
		return s + "_"
	}
	return s
}
