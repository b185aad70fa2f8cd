// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the Kestrel abstract syntax tree (spec.md §3).
// Following the "tagged variants over inheritance" idiom spec.md §9 calls
// for (and which the teacher package already applies throughout
// pkg/corset/ast — one concrete struct per Node variant implementing a
// shared interface), every node is a small struct carrying its own Span
// directly, rather than indirecting through a side-table source map: this
// is a direct reading of spec.md §3's "every AST node carries a span."
package ast

import "github.com/kestrel-lang/kestrelc/pkg/source"

// Node is implemented by every AST element and exposes its source span.
type Node interface {
	NodeSpan() source.Span
}

// Loc is embedded by every concrete Node to provide its Span field and
// satisfy the Node interface without repeating the accessor everywhere.
type Loc struct {
	Span source.Span
}

// NodeSpan returns the span of source text this node was parsed from.
func (b Loc) NodeSpan() source.Span {
	return b.Span
}

// Visibility marks whether an item is visible outside its declaring module
// (spec.md §3: "pub"/"export").
type Visibility uint8

const (
	// Private items are only visible within their own module.
	Private Visibility = iota
	// Exported items are visible to importing modules.
	Exported
)

// File is the root of a parsed Kestrel source file: an ordered list of
// top-level items (spec.md §3 "Root is an ordered list of top-level items").
type File struct {
	Loc
	Items []Item
}

// Item is implemented by every top-level declaration: Function, Struct, or
// Import.
type Item interface {
	Node
	itemNode()
}

// TypeKind enumerates the closed set of Kestrel types (spec.md §3).
type TypeKind uint8

const (
	// TUnit is the zero-size unit type "()" .
	TUnit TypeKind = iota
	// TInt is the signed 64-bit integer type "int".
	TInt
	// TBool is the boolean type "bool".
	TBool
	// TString is the (pointer,length) string type "string".
	TString
	// TNamed refers to a user-defined struct by (possibly qualified) name.
	TNamed
	// TRef is a reference type "&T" or "&mut T".
	TRef
)

// Type is a closed sum type over Kestrel's type variants (spec.md §3).
// Two types are equal iff structurally equal (Equal, below).
type Type struct {
	Kind TypeKind
	// Path holds the (possibly qualified) name when Kind == TNamed, e.g.
	// []string{"product", "Product"} for "product::Product".
	Path []string
	// Inner is the referent type when Kind == TRef.
	Inner *Type
	// Mutable marks a "&mut T" reference when Kind == TRef.
	Mutable bool
}

// Unit, Int, Bool, and String are the non-parametric primitive types.
var (
	Unit   = Type{Kind: TUnit}
	Int    = Type{Kind: TInt}
	Bool   = Type{Kind: TBool}
	String = Type{Kind: TString}
)

// Named constructs a TNamed type from a (possibly qualified) path.
func Named(path ...string) Type {
	return Type{Kind: TNamed, Path: path}
}

// Ref constructs a "&T" or "&mut T" reference type.
func Ref(inner Type, mutable bool) Type {
	return Type{Kind: TRef, Inner: &inner, Mutable: mutable}
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case TNamed:
		if len(t.Path) != len(other.Path) {
			return false
		}

		for i := range t.Path {
			if t.Path[i] != other.Path[i] {
				return false
			}
		}

		return true
	case TRef:
		return t.Mutable == other.Mutable && t.Inner.Equal(*other.Inner)
	default:
		return true
	}
}

// String renders the type using Kestrel surface syntax, for diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case TUnit:
		return "()"
	case TInt:
		return "int"
	case TBool:
		return "bool"
	case TString:
		return "string"
	case TNamed:
		out := t.Path[0]
		for _, p := range t.Path[1:] {
			out += "::" + p
		}

		return out
	case TRef:
		if t.Mutable {
			return "&mut " + t.Inner.String()
		}

		return "&" + t.Inner.String()
	default:
		return "?"
	}
}
