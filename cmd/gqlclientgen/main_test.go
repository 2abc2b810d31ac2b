package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
scalar Upload

type Query {
	ping: String
}

type Mutation {
	send(file: Upload!, comment: String): Boolean
}
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_Upload(t *testing.T) {
	schema := writeTemp(t, "schema.graphqls", testSchema)
	query := writeTemp(t, "send.graphql", `mutation send($file: Upload!, $comment: String) {
	send(file: $file, comment: $comment)
}`)

	f, err := generate([]string{schema}, []string{query}, "api")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "package api")
	assert.Contains(t, out, "file gqlclient.File")
	assert.Contains(t, out, `op.Var("file", nil)`)
	assert.Contains(t, out, `op.File("file", file)`)
	assert.Contains(t, out, `op.Var("comment", comment)`)
	assert.Contains(t, out, "client.Execute(ctx, op, &respData)")
}

func TestGenerate_InvalidSchema(t *testing.T) {
	schema := writeTemp(t, "schema.graphqls", "type Query {")
	_, err := generate([]string{schema}, nil, "api")
	assert.Error(t, err)
}

func TestGenerate_UploadList(t *testing.T) {
	schema := writeTemp(t, "schema.graphqls", `
scalar Upload

type Query {
	ping: String
}

type Mutation {
	sendAll(files: [Upload!]!): Boolean
}
`)
	query := writeTemp(t, "send.graphql", `mutation sendAll($files: [Upload!]!) {
	sendAll(files: $files)
}`)

	assert.Panics(t, func() {
		generate([]string{schema}, []string{query}, "api")
	})
}
