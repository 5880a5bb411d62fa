// Package runtime is the support library imported by generated Go programs
// as rt. It keeps the UI tree built by a program and renders it as text.
package runtime

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
)

// Field is one key of an Object; order follows the source.
type Field struct {
	Key   string
	Value any
}

type Object []Field

// Get returns the first value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Element is a styled element: a tag with its properties.
type Element struct {
	Tag   string
	Props Object
}

// Fragment is several values composed into one.
type Fragment []any

var (
	modulesMu sync.Mutex
	modules   = map[string]struct{}{}
)

// Import registers runtime modules requested by the program.
func Import(names ...string) any {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	for _, n := range names {
		modules[n] = struct{}{}
	}
	return nil
}

// Imported lists registered modules in sorted order.
func Imported() []string {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	out := make([]string, 0, len(modules))
	for n := range modules {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Obj builds an Object from key/value pairs. A trailing key without a value
// gets nil.
func Obj(kv ...any) Object {
	out := make(Object, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		f := Field{Key: fmt.Sprint(kv[i])}
		if i+1 < len(kv) {
			f.Value = kv[i+1]
		}
		out = append(out, f)
	}
	return out
}

// Styled wraps tag and props into an Element. Props that are not an Object
// are kept under "value".
func Styled(tag any, props any) Element {
	el := Element{Tag: fmt.Sprint(tag)}
	switch p := props.(type) {
	case nil:
	case Object:
		el.Props = p
	default:
		el.Props = Object{{Key: "value", Value: p}}
	}
	return el
}

// Compose flattens nested fragments and drops nils; a single value is
// returned as is.
func Compose(parts ...any) any {
	var out Fragment
	for _, p := range parts {
		switch p := p.(type) {
		case nil:
		case Fragment:
			out = append(out, p...)
		default:
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return slices.Clip(out)
}

// Run calls the root interface and renders its result to stdout.
func Run(root func() any) {
	if err := Render(os.Stdout, root()); err != nil {
		fmt.Fprintln(os.Stderr, "fuhao runtime:", err)
		os.Exit(1)
	}
}
