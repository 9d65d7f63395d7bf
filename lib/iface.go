// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/cc/v4"
)

const (
	// ModuleName is the import name of the produced native module.
	ModuleName = "py21cmfast.c_21cmfast"

	// TranslationUnit is the top level C file of the library.
	TranslationUnit = "GenerateICs.c"
)

// Header files registered as the foreign interface, in registration order.
var interfaceHeaders = []string{"21cmFAST.h", "Globals.h"}

// Header is a C header registered verbatim.
type Header struct {
	Name string
	Text string
}

// Interface is the foreign interface of the C library: the declarations
// callers may use and the translation unit implementing them.
type Interface struct {
	Headers []Header
	Unit    string
}

// ReadInterface reads the interface headers from dir.
func ReadInterface(dir string) (*Interface, error) {
	r := &Interface{Unit: TranslationUnit}
	for _, nm := range interfaceHeaders {
		b, err := os.ReadFile(filepath.Join(dir, nm))
		if err != nil {
			return nil, fmt.Errorf("reading interface header: %w", err)
		}

		r.Headers = append(r.Headers, Header{Name: nm, Text: string(b)})
	}
	return r, nil
}

// Declarations returns the registered header texts, concatenated in
// registration order.
func (n *Interface) Declarations() string {
	var b strings.Builder
	for _, v := range n.Headers {
		b.WriteString(v.Text)
		if !strings.HasSuffix(v.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Source returns the C source of the module: the LOG_LEVEL macro ahead of the
// library translation unit.
func (n *Interface) Source(level LogLevel) string {
	return fmt.Sprintf("#define LOG_LEVEL %d\n\n#include %q\n", int(level), n.Unit)
}

// SymbolKind classifies a declared name.
type SymbolKind int

const (
	_ SymbolKind = iota
	Function
	Typedef
	Variable
)

func (k SymbolKind) String() string {
	switch k {
	case Function:
		return "func"
	case Typedef:
		return "type"
	case Variable:
		return "var"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is a name declared by the interface headers.
type Symbol struct {
	Name string
	Kind SymbolKind
	Pos  string // file:line:col
}

// Symbols parses the interface headers and returns the declared names in
// declaration order. cfg is typically obtained from cc.NewConfig.
func (n *Interface) Symbols(cfg *cc.Config) (r []Symbol, err error) {
	sources := []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
	}
	for _, v := range n.Headers {
		sources = append(sources, cc.Source{Name: v.Name, Value: v.Text})
	}
	ast, err := cc.Translate(cfg, sources)
	if err != nil {
		return nil, errorf("interface headers: %v", err)
	}

	headers := map[string]struct{}{}
	for _, v := range n.Headers {
		headers[v.Name] = struct{}{}
	}
	add := func(d *cc.Declarator) {
		pos := d.Position()
		if _, ok := headers[pos.Filename]; !ok { // <predefined>, <builtin>
			return
		}

		s := Symbol{Name: d.Name(), Kind: Variable, Pos: pos.String()}
		switch {
		case d.IsTypename():
			s.Kind = Typedef
		case d.Type().Kind() == cc.Function:
			s.Kind = Function
		}
		r = append(r, s)
	}
	for l := ast.TranslationUnit; l != nil; l = l.TranslationUnit {
		ed := l.ExternalDeclaration
		switch ed.Case {
		case cc.ExternalDeclarationFuncDef: // FunctionDefinition
			add(ed.FunctionDefinition.Declarator)
		case cc.ExternalDeclarationDecl: // Declaration
			if ed.Declaration.Case != cc.DeclarationDecl {
				break
			}

			for l := ed.Declaration.InitDeclaratorList; l != nil; l = l.InitDeclaratorList {
				add(l.InitDeclarator.Declarator)
			}
		}
	}
	return r, nil
}
