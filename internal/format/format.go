// Package format holds the declarative registry of supported source file layouts.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/financelama/internal/common"
)

// Canonical fields in mapping order. A Format's Columns list has exactly one
// entry per field, in this order.
const (
	FieldDay = iota
	FieldInfo
	FieldOrderer
	FieldReason
	FieldOrdererAccount
	FieldOrdererBank
	FieldValue
)

// CanonicalFields names the mapped fields in mapping order.
var CanonicalFields = []string{
	"day", "info", "orderer", "reason", "orderer_account", "orderer_bank", "value",
}

// Kind selects the reader used for a format.
type Kind string

const (
	// KindDelimited is a delimited text export read through the column mapping.
	KindDelimited Kind = "delimited"
	// KindOFX is an OFX/QFX statement; its fields are fixed by the OFX schema.
	KindOFX Kind = "ofx"
)

// Supported text encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO88591    = "iso-8859-1"
)

// AccountSource says where a format's account identifier comes from.
type AccountSource struct {
	// Literal, when set, is used as the account for every row.
	Literal string `yaml:"literal"`
	// Cut truncates the header token at its first occurrence.
	Cut string `yaml:"cut"`
	// Column is the index of the token in the first header line.
	Column int `yaml:"column"`
}

// Discriminator identifies a format by one token of the file's first line.
type Discriminator struct {
	Value  string `yaml:"value"`
	Column int    `yaml:"column"`
}

// Format describes one source layout.
type Format struct {
	Name          string        `yaml:"name"`
	Kind          Kind          `yaml:"kind"`
	Encoding      string        `yaml:"encoding"`
	DateLayout    string        `yaml:"date_layout"`
	Delimiter     string        `yaml:"delimiter"`
	Account       AccountSource `yaml:"account"`
	Discriminator Discriminator `yaml:"discriminator"`
	// Columns maps each canonical field to the source columns joined into it.
	Columns [][]string `yaml:"columns"`
	// HeaderRow is the 0-based line holding the column names.
	HeaderRow    int  `yaml:"header_row"`
	DecimalComma bool `yaml:"decimal_comma"`
}

// Comma returns the delimiter as a rune.
func (f *Format) Comma() rune {
	r, _ := utf8.DecodeRuneInString(f.Delimiter)
	return r
}

// Validate checks the format for completeness. Every problem is reported as a
// ConfigurationError so it surfaces before any file is processed.
func (f *Format) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &common.ConfigurationError{Reason: "format without name"}
	}
	if f.Kind == "" {
		f.Kind = KindDelimited
	}

	switch f.Kind {
	case KindOFX:
		return nil
	case KindDelimited:
	default:
		return &common.ConfigurationError{Format: f.Name, Reason: fmt.Sprintf("unknown kind %q", f.Kind)}
	}

	if len(f.Columns) != len(CanonicalFields) {
		return &common.ConfigurationError{
			Format: f.Name,
			Reason: fmt.Sprintf("mapping has %d entries, want %d (%s)",
				len(f.Columns), len(CanonicalFields), strings.Join(CanonicalFields, ", ")),
		}
	}
	for _, field := range []int{FieldDay, FieldValue} {
		if len(f.Columns[field]) == 0 {
			return &common.ConfigurationError{
				Format: f.Name,
				Reason: fmt.Sprintf("field %s needs at least one source column", CanonicalFields[field]),
			}
		}
	}
	if utf8.RuneCountInString(f.Delimiter) != 1 {
		return &common.ConfigurationError{Format: f.Name, Reason: fmt.Sprintf("delimiter %q must be a single character", f.Delimiter)}
	}
	if f.Comma() == '"' || f.Comma() == '\n' || f.Comma() == '\r' {
		return &common.ConfigurationError{Format: f.Name, Reason: fmt.Sprintf("delimiter %q is not allowed", f.Delimiter)}
	}
	if f.DateLayout == "" {
		return &common.ConfigurationError{Format: f.Name, Reason: "missing date layout"}
	}
	if f.Discriminator.Value == "" {
		return &common.ConfigurationError{Format: f.Name, Reason: "missing discriminator"}
	}
	if f.HeaderRow < 0 || f.Discriminator.Column < 0 || f.Account.Column < 0 {
		return &common.ConfigurationError{Format: f.Name, Reason: "negative row or column index"}
	}

	switch strings.ToLower(f.Encoding) {
	case "":
		f.Encoding = EncodingUTF8
	case EncodingUTF8, EncodingWindows1252, EncodingISO88591:
		f.Encoding = strings.ToLower(f.Encoding)
	default:
		return &common.ConfigurationError{Format: f.Name, Reason: fmt.Sprintf("unsupported encoding %q", f.Encoding)}
	}

	return nil
}

// AccountFrom derives the account identifier from the first header line.
func (f *Format) AccountFrom(header []string) string {
	if f.Account.Literal != "" {
		return f.Account.Literal
	}
	if f.Account.Column >= len(header) {
		return ""
	}
	token := header[f.Account.Column]
	if f.Account.Cut != "" {
		token, _, _ = strings.Cut(token, f.Account.Cut)
	}
	return strings.TrimSpace(token)
}

// Matches reports whether the first header line carries this format's discriminator.
func (f *Format) Matches(header []string) bool {
	if f.Discriminator.Column >= len(header) {
		return false
	}
	return strings.TrimSpace(header[f.Discriminator.Column]) == f.Discriminator.Value
}
