package gqlclient

import (
	"fmt"
	"io"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// File is an attachment sent with the GraphQL multipart request
// convention.
type File struct {
	// Key is the variable the file is bound to. It is set by
	// Operation.File and Document.File.
	Key string
	// Type is the GraphQL scalar the file is matched against, usually
	// "Upload". It is not transmitted.
	Type     string
	Filename string
	// MIMEType defaults to a guess based on Filename.
	MIMEType string
	Body     io.Reader
}

// QuerySource is anything that resolves to a GraphQL document and its
// attached files.
type QuerySource interface {
	QueryString() (string, error)
	Files() []File
}

type fileSet []File

func (fs *fileSet) put(key string, f File) {
	f.Key = key
	for i := range *fs {
		if (*fs)[i].Key == key {
			(*fs)[i] = f
			return
		}
	}
	*fs = append(*fs, f)
}

type Operation struct {
	query string
	vars  map[string]interface{}
	files fileSet
}

func NewOperation(query string) *Operation {
	return &Operation{query: query}
}

func (op *Operation) Var(k string, v interface{}) {
	if op.vars == nil {
		op.vars = make(map[string]interface{})
	}
	op.vars[k] = v
}

// File attaches f under the variable k. Files are sent in the order they
// were first attached.
func (op *Operation) File(k string, f File) {
	op.files.put(k, f)
}

func (op *Operation) QueryString() (string, error) {
	return op.query, nil
}

func (op *Operation) Files() []File {
	return op.files
}

// Document is a parsed query document. It is serialized with the gqlparser
// formatter when sent.
type Document struct {
	doc   *ast.QueryDocument
	files fileSet
}

func NewDocument(doc *ast.QueryDocument) *Document {
	return &Document{doc: doc}
}

// ParseDocument parses query. Only the syntax is checked, there is no
// schema to validate against.
func ParseDocument(query string) (*Document, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return nil, fmt.Errorf("failed to parse GraphQL document: %w", gqlErr)
	}
	return NewDocument(doc), nil
}

func (d *Document) File(k string, f File) {
	d.files.put(k, f)
}

func (d *Document) QueryString() (string, error) {
	if d.doc == nil {
		return "", fmt.Errorf("gqlclient: empty document")
	}
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(d.doc)
	return sb.String(), nil
}

func (d *Document) Files() []File {
	return d.files
}
