package fuzztests

import (
	"testing"
	"time"

	"fuhao/internal/diag"
	"fuhao/internal/lexer"
	"fuhao/internal/parser"
	"fuhao/internal/source"
	"fuhao/internal/symtab"
	"fuhao/internal/testkit"
)

// parseTimeout: больше этого парсер считается зависшим.
const parseTimeout = 5 * time.Second

func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	syms := symtab.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.fh", input))
		bag := diag.NewBag(128)
		reporter := diag.BagReporter{Bag: bag}

		var res parser.Result
		done := make(chan struct{})
		go func() {
			defer close(done)
			res = parser.ParseFile(file, lexer.New(file, syms, lexer.Options{Reporter: reporter}), parser.Options{Reporter: reporter})
		}()
		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang: input (%d bytes): %q", len(input), truncateForLog(input, 200))
		}

		if res.Err != nil {
			if res.Program != nil {
				t.Fatalf("program returned together with error %v", res.Err)
			}
			return
		}
		if err := testkit.CheckSpanInvariants(res.Program, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// truncateForLog обрезает вход для сообщений
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
