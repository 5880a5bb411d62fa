package driver

import (
	"context"

	"fuhao/internal/compiler"
	"fuhao/internal/source"
)

// CompileFile loads path (BOM, CRLF and NFC normalised) and compiles it. The
// error is only about reading the file; compile failures live in the result.
func CompileFile(ctx context.Context, c *compiler.Compiler, path string, opts compiler.Options) (compiler.Result, error) {
	content, err := loadSource(path)
	if err != nil {
		return compiler.Result{}, err
	}
	if opts.Path == "" {
		opts.Path = path
	}
	return c.CompileContext(ctx, string(content), opts), nil
}

func loadSource(path string) ([]byte, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return fs.Get(id).Content, nil
}
