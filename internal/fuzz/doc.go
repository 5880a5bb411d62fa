// Package fuzztests holds Go fuzz harnesses for the front half of the
// compiler (source -> lexer -> parser) and for the numeral codec. They guard
// against panics, hangs and broken spans on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, вызов CLI.
package fuzztests
