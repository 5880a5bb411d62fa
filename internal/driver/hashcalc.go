package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"

	"fuhao/internal/compiler"
	"fuhao/internal/emit"
	"fuhao/internal/symtab"
)

// Digest is a SHA-256 value used as a cache key.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// VocabDigest fingerprints every entry of t, so a changed vocabulary never
// hits results compiled with the old one.
func VocabDigest(t *symtab.Table) Digest {
	h := sha256.New()
	var buf [8]byte
	for _, e := range t.Entries() {
		_, _ = h.Write([]byte(string(e.Glyph)))
		_, _ = h.Write([]byte{byte(e.Role), byte(e.Category), byte(e.Kind)})
		_, _ = h.Write([]byte(e.Expansion))
		_, _ = h.Write([]byte(string(e.Partner)))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.Value))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e.Tolerance))
		_, _ = h.Write(buf[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest covers the options that change a compile result. The tracer
// and the observer do not.
func optionsDigest(opts compiler.Options) Digest {
	tgt := opts.Target
	if tgt == "" {
		tgt = emit.TargetGo
	}
	s := string(tgt) +
		"|debug=" + strconv.FormatBool(opts.Debug) +
		"|map=" + strconv.FormatBool(opts.SourceMap) +
		"|strict=" + strconv.FormatBool(opts.Strict) +
		"|path=" + opts.Path +
		"|max=" + strconv.Itoa(opts.MaxDiagnostics) +
		"|indent=" + strconv.Itoa(opts.IndentWidth) +
		"|tabs=" + strconv.FormatBool(opts.UseTabs)
	return sha256.Sum256([]byte(s))
}

// CacheKey identifies the result of compiling content with opts under vocab.
func CacheKey(content []byte, opts compiler.Options, vocab Digest) Digest {
	return combineDigest(sha256.Sum256(content), optionsDigest(opts), vocab)
}
