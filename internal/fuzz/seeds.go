package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"fuhao/internal/driver"
)

const maxSeedBytes = 64 << 10

// glyphSeeds покрывают каждую конструкцию языка и типичные поломки.
var glyphSeeds = []string{
	"",
	"引【ui】\n文【\"Hello\"】\n◈四十二\n",
	"注【docs】\n函【add(a, b) 态【c ← a】 sum(a, b) 函】",
	"组【Card(title)\n  样【div color: \"red\"】\n组】",
	"界主【\n  文【\"Hello\"】\n  ◈四十二\n界】",
	"界【Shell 界【Inner 文【x】 界】 界】",
	"象【a: 1, \"b c\": [x, y]】",
	"态【n ← 四十二, m】",
	"「世界」 ◈三点一四 ◈负七 ◈一〇〇",
	"文【\"unterminated\n",
	"函【f() 1",
	"界主【\n文【\"x\"】\n】",
	"象【a 1】",
	"~ \xff\xfe 【】】【",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range glyphSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != driver.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
