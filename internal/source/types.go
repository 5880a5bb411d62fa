package source

// FileID is the index of a file within its FileSet.
type FileID uint32

// FileFlags records how content was obtained and normalized.
type FileFlags uint8

const (
	// FileVirtual: добавлен из памяти (тест, stdin, компиляция строки).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	// FileNormalizedNFC marks content rewritten to Unicode NFC on load.
	FileNormalizedNFC
)

// Has reports whether every bit of flag is set.
func (f FileFlags) Has(flag FileFlags) bool { return f&flag == flag }

// File is one loaded source: normalized content plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // байтовые смещения начала строк
	Hash    [32]byte // sha256 нормализованного содержимого
	Flags   FileFlags
}

// LineCol is a 1-based position; Col counts runes, not bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
