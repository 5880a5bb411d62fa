package driver

import (
	"errors"

	"github.com/samber/do"

	"fuhao/internal/compiler"
	"fuhao/internal/symtab"
	"fuhao/internal/trace"
)

// SessionConfig selects the services a Session wires together.
type SessionConfig struct {
	VocabularyDir string // пусто: встроенный словарь
	CacheDir      string // пусто: $XDG_CACHE_HOME/fuhao
	NoCache       bool
	Tracer        trace.Tracer // nil: trace.Nop
}

// Session owns the services shared by the commands of one process: the
// vocabulary, the compiler over it, the caches and the tracer.
type Session struct {
	injector *do.Injector

	Symbols  *symtab.Table
	Vocab    Digest
	Compiler *compiler.Compiler
	Cache    *DiskCache // nil при NoCache
	Memo     *ResultCache
	Tracer   trace.Tracer
}

// NewInjector registers the session providers. Services are built lazily on
// first invocation.
func NewInjector(cfg SessionConfig) *do.Injector {
	i := do.New()
	do.ProvideValue(i, cfg)
	do.Provide(i, func(i *do.Injector) (*symtab.Table, error) {
		return LoadVocabulary(do.MustInvoke[SessionConfig](i).VocabularyDir)
	})
	do.Provide(i, func(i *do.Injector) (*compiler.Compiler, error) {
		syms, err := do.Invoke[*symtab.Table](i)
		if err != nil {
			return nil, err
		}
		return compiler.New(syms), nil
	})
	do.Provide(i, func(i *do.Injector) (*DiskCache, error) {
		cfg := do.MustInvoke[SessionConfig](i)
		switch {
		case cfg.NoCache:
			return nil, nil
		case cfg.CacheDir != "":
			return NewDiskCache(cfg.CacheDir)
		default:
			return OpenDiskCache("fuhao")
		}
	})
	do.Provide(i, func(*do.Injector) (*ResultCache, error) {
		return NewResultCache(64), nil
	})
	do.Provide(i, func(i *do.Injector) (trace.Tracer, error) {
		if t := do.MustInvoke[SessionConfig](i).Tracer; t != nil {
			return t, nil
		}
		return trace.Nop, nil
	})
	return i
}

// NewSession resolves every service. A vocabulary error is fatal; a cache
// directory that cannot be created only disables the disk cache.
func NewSession(cfg SessionConfig) (*Session, error) {
	i := NewInjector(cfg)
	c, err := do.Invoke[*compiler.Compiler](i)
	if err != nil {
		return nil, err
	}
	cache, err := do.Invoke[*DiskCache](i)
	if err != nil {
		cache = nil
	}
	return &Session{
		injector: i,
		Symbols:  c.Symbols(),
		Vocab:    VocabDigest(c.Symbols()),
		Compiler: c,
		Cache:    cache,
		Memo:     do.MustInvoke[*ResultCache](i),
		Tracer:   do.MustInvoke[trace.Tracer](i),
	}, nil
}

// Close flushes the tracer and shuts the injector down. The tracer is only
// flushed: whoever created it closes it.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	return errors.Join(s.Tracer.Flush(), s.injector.Shutdown())
}
