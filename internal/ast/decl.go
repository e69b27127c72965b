package ast

import (
	"zenc/internal/source"
)

// DeclKind enumerates top-level declarations.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclStruct
	DeclEnum
	DeclFunc
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclFunc:
		return "fn"
	default:
		return "invalid"
	}
}

// Decl is a top-level declaration header; the payload holds the kind-specific
// body.
type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Name    source.StringID
	Payload PayloadID
}

// TypeParam declares one generic parameter.
type TypeParam struct {
	Name source.StringID
	Span source.Span
}

// FieldDef is a struct field declaration.
type FieldDef struct {
	Name source.StringID
	Type TypeExprID
	Span source.Span
}

// VariantDef is one enum variant; Payload is NoTypeExprID for bare tags.
type VariantDef struct {
	Name    source.StringID
	Payload TypeExprID
	Span    source.Span
}

// ParamDef is a function parameter declaration.
type ParamDef struct {
	Name source.StringID
	Type TypeExprID
	Span source.Span
}

// StructDeclData is the payload of a DeclStruct.
type StructDeclData struct {
	TypeParams []TypeParam
	Fields     []FieldDef
}

// EnumDeclData is the payload of a DeclEnum.
type EnumDeclData struct {
	TypeParams []TypeParam
	Variants   []VariantDef
}

// FuncDeclData is the payload of a DeclFunc. Owner, when valid, makes the
// function an inherent method of the owner type; the implicit self parameter
// is Params[0].
type FuncDeclData struct {
	TypeParams []TypeParam
	Owner      TypeExprID
	Params     []ParamDef
	Result     TypeExprID
	Body       StmtID
}
