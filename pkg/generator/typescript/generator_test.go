package typescript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
)

func fixtureIR() ir.IR {
	var user ir.Meta
	user.AddRef(ir.SchemaRef{Name: ir.DateRef, Attribute: field("createdAt", true)})
	user.AddRef(ir.SchemaRef{Name: "Status", Attribute: field("status", false)})

	return ir.IR{
		Source: "specs/openapi.yaml",
		Title:  "Gateway",
		Schemas: []ir.Schema{
			{Name: "Status", Spec: ir.Enum([]string{"active", "blocked"})},
			{
				Name: "User",
				Spec: ir.Object([]ir.Prop{
					{Name: "id", Required: true, Type: ir.Plain(ir.PlainString)},
					{Name: "createdAt", Required: true, Type: ir.Plain(ir.PlainDateTime)},
					{Name: "status", Type: ir.Ref("Status")},
				}, nil),
				Meta: user,
			},
			{Name: "Note", Spec: ir.Object([]ir.Prop{{Name: "text", Required: true, Type: ir.Plain(ir.PlainString)}}, nil)},
		},
	}
}

func tsTarget(dir string) config.Target {
	return config.Target{Type: config.TargetTypeScript, OutDir: dir, RuntimeImport: "../../runtime"}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateWritesModels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewTypeScriptGenerator(nil).Generate(tsTarget(dir), fixtureIR()))

	assert.Equal(t, `// Code generated by openapi-gen from specs/openapi.yaml. DO NOT EDIT.

export enum Status {
    active = 'active',
    blocked = 'blocked',
}
`, readFile(t, filepath.Join(dir, "Status.ts")))

	assert.Equal(t, `// Code generated by openapi-gen from specs/openapi.yaml. DO NOT EDIT.

import { Status } from './Status';

export type User = {
    id: string;
    createdAt: Date;
    status?: Status;
};

export const parseUser = (json: any): User => ({
    ...json,
    createdAt: new Date(json.createdAt),
});
`, readFile(t, filepath.Join(dir, "User.ts")))

	assert.Equal(t, `// Code generated by openapi-gen from specs/openapi.yaml. DO NOT EDIT.

import { identity, Identity } from '../../runtime';

export type Note = {
    text: string;
};

export const parseNote = identity as Identity<Note>;
`, readFile(t, filepath.Join(dir, "Note.ts")))
}

func TestGenerateWritesIndexInDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewTypeScriptGenerator(nil).Generate(tsTarget(dir), fixtureIR()))

	assert.Equal(t, `// Code generated by openapi-gen from specs/openapi.yaml. DO NOT EDIT.
//
// Gateway

export { Status } from './Status';
export type { User } from './User';
export { parseUser } from './User';
export type { Note } from './Note';
export { parseNote } from './Note';
`, readFile(t, filepath.Join(dir, config.IndexFile)))
}

func TestGenerateReconcilesDirectory(t *testing.T) {
	dir := t.TempDir()
	target := tsTarget(dir)
	target.IgnoredFiles = []string{"custom.ts"}
	for _, name := range []string{"Old.ts", "custom.ts", "User.ts", config.IndexFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0o644))
	}

	require.NoError(t, NewTypeScriptGenerator(nil).Generate(target, fixtureIR()))

	assert.NoFileExists(t, filepath.Join(dir, "Old.ts"))
	assert.Equal(t, "stale", readFile(t, filepath.Join(dir, "custom.ts")))
	assert.NotEqual(t, "stale", readFile(t, filepath.Join(dir, "User.ts")))
	assert.NotEqual(t, "stale", readFile(t, filepath.Join(dir, config.IndexFile)))
}

func TestGenerateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	gen := NewTypeScriptGenerator(nil)
	require.NoError(t, gen.Generate(tsTarget(dir), fixtureIR()))
	first := map[string]string{}
	for _, name := range []string{"Status.ts", "User.ts", "Note.ts", config.IndexFile} {
		first[name] = readFile(t, filepath.Join(dir, name))
	}

	require.NoError(t, gen.Generate(tsTarget(dir), fixtureIR()))
	for name, content := range first {
		assert.Equal(t, content, readFile(t, filepath.Join(dir, name)), name)
	}
}
