package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1001
	LexInvalidUTF8        Code = 1002

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectOpen       Code = 2002
	SynExpectClose      Code = 2003
	SynMissingFence     Code = 2004
	SynExpectIdentifier Code = 2005
	SynExpectColon      Code = 2006
	SynUnexpectedEOF    Code = 2007
	SynSkippedToken     Code = 2008

	// Числовые литералы
	NumInfo        Code = 3000
	NumDecodeError Code = 3001
	NumBadLiteral  Code = 3002

	// Генерация кода
	EmtInfo            Code = 4000
	EmtUnsupportedNode Code = 4001
	EmtUnknownTarget   Code = 4002

	// Ввод-вывод
	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	IOVocabError     Code = 5003
	IOManifestError  Code = 5004

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
	ObsPhase   Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnterminatedString: "Unterminated string literal",
		LexInvalidUTF8:        "Invalid UTF-8 sequence",
		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Unexpected token",
		SynExpectOpen:         "Expected opening delimiter",
		SynExpectClose:        "Expected closing delimiter",
		SynMissingFence:       "Missing closing fence glyph",
		SynExpectIdentifier:   "Expected identifier",
		SynExpectColon:        "Expected colon",
		SynUnexpectedEOF:      "Unexpected end of input",
		SynSkippedToken:       "Unsupported token skipped in expression position",
		NumInfo:               "Numeral information",
		NumDecodeError:        "Malformed vector numeral",
		NumBadLiteral:         "Malformed numeric literal",
		EmtInfo:               "Emission information",
		EmtUnsupportedNode:    "Node has no rendering rule for the target",
		EmtUnknownTarget:      "Unknown emission target",
		IOLoadFileError:       "I/O load file error",
		IOWriteFileError:      "I/O write file error",
		IOVocabError:          "Vocabulary table error",
		IOManifestError:       "Project manifest error",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
		ObsPhase:              "Pipeline phase",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NUM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
