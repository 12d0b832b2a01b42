package ast

import (
	"bytes"
	"strings"

	"github.com/inkwell-tools/inkwell/token"
)

// Attribute is an outer attribute such as #[external] or
// #[cfg(feature = "ink-profiling")]. The bracketed content is kept verbatim.
type Attribute struct {
	Hash token.Position // position of "#"
	Text string         // content between the brackets
	Rb   token.Position // position of "]"
}

func (a *Attribute) Pos() token.Position { return a.Hash }
func (a *Attribute) End() token.Position { return a.Rb.Advance(1) }
func (a *Attribute) String() string      { return "#[" + a.Text + "]" }

// Name returns the leading path of the attribute, e.g. "external" for
// #[external] and "cfg" for #[cfg(feature = "x")].
func (a *Attribute) Name() string {
	text := a.Text
	for i, ch := range text {
		if ch == '(' || ch == ' ' || ch == '=' {
			return text[:i]
		}
	}
	return text
}

// Use is a use declaration. The imported path is kept as raw text.
type Use struct {
	UsePos token.Position // position of "use"
	Path   string         // raw path text, e.g. "stylus_sdk::{evm, msg}"
	Semi   token.Position // position of ";"
}

func (x *Use) itemNode() {}

func (x *Use) Pos() token.Position { return x.UsePos }
func (x *Use) End() token.Position { return x.Semi.Advance(1) }
func (x *Use) String() string      { return "use " + x.Path + ";" }

// StructField is one field declaration inside a struct item.
type StructField struct {
	Attrs   []string // raw field attribute text, e.g. "entrypoint"
	Public  bool
	NamePos token.Position
	Name    string
	Type    string // raw type text
}

// Struct is a struct item declaration.
type Struct struct {
	Attrs     []*Attribute
	Public    bool
	StructPos token.Position // position of "struct"
	Name      string
	Fields    []StructField
	Rbrace    token.Position
}

func (x *Struct) itemNode() {}

func (x *Struct) Pos() token.Position {
	if len(x.Attrs) > 0 {
		return x.Attrs[0].Pos()
	}
	return x.StructPos
}

func (x *Struct) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Struct) String() string {
	var out bytes.Buffer
	for _, attr := range x.Attrs {
		out.WriteString(attr.String())
		out.WriteString("\n")
	}
	if x.Public {
		out.WriteString("pub ")
	}
	out.WriteString("struct ")
	out.WriteString(x.Name)
	out.WriteString(" {\n")
	for _, f := range x.Fields {
		for _, attr := range f.Attrs {
			out.WriteString("    #[")
			out.WriteString(attr)
			out.WriteString("]\n")
		}
		out.WriteString("    ")
		if f.Public {
			out.WriteString("pub ")
		}
		out.WriteString(f.Name)
		out.WriteString(": ")
		out.WriteString(f.Type)
		out.WriteString(",\n")
	}
	out.WriteString("}")
	return out.String()
}

// Receiver describes the self parameter of a method.
type Receiver struct {
	Reference bool // &self or &mut self
	Mutable   bool // &mut self
}

func (r Receiver) String() string {
	switch {
	case r.Reference && r.Mutable:
		return "&mut self"
	case r.Reference:
		return "&self"
	default:
		return "self"
	}
}

// FnParam is one non-self parameter of a function.
type FnParam struct {
	NamePos token.Position
	Name    string
	Type    string // raw type text
}

// Fn is a function item, either free-standing or inside an impl block.
type Fn struct {
	Attrs    []*Attribute
	Public   bool
	FnPos    token.Position // position of "fn"
	NamePos  token.Position
	Name     string
	Receiver *Receiver // nil for associated functions without self
	Params   []FnParam
	RetType  string // raw return type text; empty when none
	Body     *Block
}

func (x *Fn) itemNode() {}

func (x *Fn) Pos() token.Position {
	if len(x.Attrs) > 0 {
		return x.Attrs[0].Pos()
	}
	return x.FnPos
}

func (x *Fn) End() token.Position { return x.Body.End() }

// Signature returns the function signature text without attributes or body.
func (x *Fn) Signature() string {
	var out bytes.Buffer
	if x.Public {
		out.WriteString("pub ")
	}
	out.WriteString("fn ")
	out.WriteString(x.Name)
	out.WriteString("(")
	parts := make([]string, 0, len(x.Params)+1)
	if x.Receiver != nil {
		parts = append(parts, x.Receiver.String())
	}
	for _, p := range x.Params {
		parts = append(parts, p.Name+": "+p.Type)
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if x.RetType != "" {
		out.WriteString(" -> ")
		out.WriteString(x.RetType)
	}
	return out.String()
}

// HasAttr returns true if the function carries an attribute with the
// given name.
func (x *Fn) HasAttr(name string) bool {
	for _, attr := range x.Attrs {
		if attr.Name() == name {
			return true
		}
	}
	return false
}

func (x *Fn) String() string {
	var out bytes.Buffer
	for _, attr := range x.Attrs {
		out.WriteString(attr.String())
		out.WriteString("\n")
	}
	out.WriteString(x.Signature())
	out.WriteString(" ")
	out.WriteString(x.Body.String())
	return out.String()
}

// Impl is an impl block, optionally implementing a trait
// ("impl Token" or "impl Router for Token").
type Impl struct {
	Attrs   []*Attribute
	ImplPos token.Position
	Trait   string // raw trait path text; empty when inherent
	Name    string // type name the block implements
	Fns     []*Fn
	Consts  []*ConstItem
	Raws    []string // raw member text (associated types and the like)
	Rbrace  token.Position
}

func (x *Impl) itemNode() {}

func (x *Impl) Pos() token.Position {
	if len(x.Attrs) > 0 {
		return x.Attrs[0].Pos()
	}
	return x.ImplPos
}

func (x *Impl) End() token.Position { return x.Rbrace.Advance(1) }

// HasAttr returns true if the impl block carries an attribute with the
// given name.
func (x *Impl) HasAttr(name string) bool {
	for _, attr := range x.Attrs {
		if attr.Name() == name {
			return true
		}
	}
	return false
}

func (x *Impl) String() string {
	var out bytes.Buffer
	for _, attr := range x.Attrs {
		out.WriteString(attr.String())
		out.WriteString("\n")
	}
	out.WriteString("impl ")
	if x.Trait != "" {
		out.WriteString(x.Trait)
		out.WriteString(" for ")
	}
	out.WriteString(x.Name)
	out.WriteString(" {\n")
	for _, raw := range x.Raws {
		out.WriteString(indent(raw))
		out.WriteString("\n")
	}
	for _, c := range x.Consts {
		out.WriteString(indent(c.String()))
		out.WriteString("\n")
	}
	for i, fn := range x.Fns {
		if i > 0 || len(x.Consts) > 0 {
			out.WriteString("\n")
		}
		out.WriteString(indent(fn.String()))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// ConstItem is a const declaration, at the top level or inside an impl
// block. Selector-style constants ("const SELECTOR: [u8; 4] = ...") drive
// part of the entry-point discovery heuristic.
type ConstItem struct {
	Attrs    []*Attribute
	Public   bool
	ConstPos token.Position
	Name     string
	Type     string // raw type text
	Value    Expr
	Semi     token.Position
}

func (x *ConstItem) itemNode() {}

func (x *ConstItem) Pos() token.Position {
	if len(x.Attrs) > 0 {
		return x.Attrs[0].Pos()
	}
	return x.ConstPos
}

func (x *ConstItem) End() token.Position { return x.Semi.Advance(1) }

func (x *ConstItem) String() string {
	var out bytes.Buffer
	for _, attr := range x.Attrs {
		out.WriteString(attr.String())
		out.WriteString("\n")
	}
	if x.Public {
		out.WriteString("pub ")
	}
	out.WriteString("const ")
	out.WriteString(x.Name)
	out.WriteString(": ")
	out.WriteString(x.Type)
	out.WriteString(" = ")
	out.WriteString(x.Value.String())
	out.WriteString(";")
	return out.String()
}

// MacroItem is a top-level macro invocation such as sol_storage! { ... } or
// sol! { ... }. The body is kept as raw source text including delimiters.
type MacroItem struct {
	Attrs   []*Attribute
	PathPos token.Position
	Path    string // macro path before "!", e.g. "sol_storage"
	Body    string // raw body text including the outer delimiters
	EndPos  token.Position
}

func (x *MacroItem) itemNode() {}

func (x *MacroItem) Pos() token.Position {
	if len(x.Attrs) > 0 {
		return x.Attrs[0].Pos()
	}
	return x.PathPos
}

func (x *MacroItem) End() token.Position { return x.EndPos }

func (x *MacroItem) String() string {
	var out bytes.Buffer
	for _, attr := range x.Attrs {
		out.WriteString(attr.String())
		out.WriteString("\n")
	}
	out.WriteString(x.Path)
	out.WriteString("!")
	out.WriteString(x.Body)
	return out.String()
}

// RawItem is a verbatim chunk of source for item kinds the analyzer does not
// model structurally (enums, traits, mod blocks, type aliases, statics).
// Keeping the raw text lets instrumented output reproduce the whole file.
type RawItem struct {
	From   token.Position
	Text   string
	EndPos token.Position
}

func (x *RawItem) itemNode() {}

func (x *RawItem) Pos() token.Position { return x.From }
func (x *RawItem) End() token.Position { return x.EndPos }
func (x *RawItem) String() string      { return x.Text }

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}
