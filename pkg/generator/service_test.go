package generator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/openapi-gen/pkg/config"
	"github.com/blimu-dev/openapi-gen/pkg/ir"
	"github.com/blimu-dev/openapi-gen/pkg/openapi"
)

const gatewayFixture = `openapi: 3.0.3
info:
  title: Gateway
  description: Public gateway API
  version: "1"
paths:
  /users:
    get:
      operationId: listUsers
      summary: List users
      tags: [users]
      responses:
        "200":
          description: ok
  /users/{id}:
    delete:
      operationId: deleteUser
      tags: [users]
      x-permissions: [users.delete]
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "204":
          description: gone
components:
  schemas:
    Status:
      type: string
      enum: [active, blocked]
    User:
      type: object
      required: [id, createdAt]
      properties:
        id:
          type: string
        createdAt:
          type: string
          format: date-time
        status:
          $ref: '#/components/schemas/Status'
        tags:
          type: array
          items:
            $ref: '#/components/schemas/Tag'
    Tag:
      type: object
      properties:
        label:
          type: string
        weight:
          type: number
        pinned:
          type: boolean
    Admin:
      allOf:
        - $ref: '#/components/schemas/User'
    Owner:
      $ref: '#/components/schemas/User'
`

func writeSpec(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func gatewayConfig(spec, base string) *config.Config {
	return &config.Config{Documents: []config.Document{{
		Name: "GATEWAY",
		Spec: spec,
		Targets: []config.Target{
			{Type: config.TargetGo, OutDir: filepath.Join(base, "go"), PackageName: "openapi", WithRouters: true, BasePath: "/v1"},
			{Type: config.TargetTypeScript, OutDir: filepath.Join(base, "ts"), RuntimeImport: "../../runtime"},
		},
	}}}
}

func readAll(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}

func TestBuildIRFromDocument(t *testing.T) {
	doc := loadFixture(t, gatewayFixture)
	result, err := buildIR(doc, discardLogger())
	require.NoError(t, err)

	names := make([]string, len(result.Schemas))
	for i, s := range result.Schemas {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Status", "User", "Tag", "Admin", "Owner"}, names)
	assert.Equal(t, "Gateway", result.Title)

	// a single-member allOf resolves exactly like a direct reference
	admin, owner := result.Schemas[3], result.Schemas[4]
	assert.Equal(t, ir.Ref("User"), admin.Spec)
	assert.Equal(t, owner.Spec, admin.Spec)
	assert.Equal(t, owner.Meta, admin.Meta)

	assert.Equal(t, []string{"deleteUser", "listUsers"}, requestNames(result.Requests))
}

func TestServiceGeneratesBothTargets(t *testing.T) {
	dir := t.TempDir()
	cfg := gatewayConfig(writeSpec(t, dir, gatewayFixture), filepath.Join(dir, "out"))

	require.NoError(t, NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, ""))

	goFiles := readAll(t, filepath.Join(dir, "out", "go"))
	assert.ElementsMatch(t, []string{"Status.go", "User.go", "Tag.go", "Admin.go", "Owner.go", "routers.go"}, keys(goFiles))
	assert.Contains(t, goFiles["Admin.go"], "type Admin = User")
	assert.Contains(t, goFiles["routers.go"], "DeleteUser() ContextHandler")

	tsFiles := readAll(t, filepath.Join(dir, "out", "ts"))
	assert.ElementsMatch(t, []string{"Status.ts", "User.ts", "Tag.ts", "Admin.ts", "Owner.ts", "index.ts"}, keys(tsFiles))
	assert.Contains(t, tsFiles["Tag.ts"], "export const parseTag = identity as Identity<Tag>;")
	assert.Contains(t, tsFiles["User.ts"], "tags: json.tags != null ? json.tags.map(parseTag) : undefined,")
	assert.Contains(t, tsFiles["Admin.ts"], "export const parseAdmin = (json: any): Admin => parseUser(json);")
}

func TestServiceKeepsExtraTagsOnReferenceFields(t *testing.T) {
	dir := t.TempDir()
	spec := strings.Replace(gatewayFixture,
		"        status:\n          $ref: '#/components/schemas/Status'\n",
		"        status:\n          $ref: '#/components/schemas/Status'\n          x-extra-tags:\n            validate: required\n          x-permissions: [users.read]\n", 1)
	require.NotEqual(t, gatewayFixture, spec)
	cfg := gatewayConfig(writeSpec(t, dir, spec), filepath.Join(dir, "out"))

	require.NoError(t, NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, ""))

	goFiles := readAll(t, filepath.Join(dir, "out", "go"))
	assert.Contains(t, goFiles["User.go"], "Status Status `json:\"status,omitempty\" validate:\"required\" permissions:\"users.read\"`")
}

func TestServiceRemovesStaleFilesAndIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out")
	cfg := gatewayConfig(writeSpec(t, dir, gatewayFixture), base)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "go"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "ts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "go", "Old.go"), []byte("package openapi\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "ts", "Old.ts"), []byte("export {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "go", "User.go"), []byte("stale"), 0o644))

	svc := NewService(discardLogger())
	require.NoError(t, svc.GenerateFromConfig(context.Background(), cfg, ""))
	assert.NoFileExists(t, filepath.Join(base, "go", "Old.go"))
	assert.NoFileExists(t, filepath.Join(base, "ts", "Old.ts"))

	firstGo, firstTS := readAll(t, filepath.Join(base, "go")), readAll(t, filepath.Join(base, "ts"))
	assert.NotEqual(t, "stale", firstGo["User.go"])

	require.NoError(t, svc.GenerateFromConfig(context.Background(), cfg, ""))
	assert.Equal(t, firstGo, readAll(t, filepath.Join(base, "go")))
	assert.Equal(t, firstTS, readAll(t, filepath.Join(base, "ts")))
}

func TestServiceStopsOnUnsupportedSchema(t *testing.T) {
	dir := t.TempDir()
	spec := strings.Replace(gatewayFixture, "    Owner:\n", "    Broken:\n      description: nothing to resolve\n    Owner:\n", 1)
	cfg := gatewayConfig(writeSpec(t, dir, spec), filepath.Join(dir, "out"))

	err := NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, "")
	var unsupported *openapi.UnsupportedSchemaError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
	assert.Equal(t, "Broken", unsupported.Schema)
	assert.NoDirExists(t, filepath.Join(dir, "out", "ts"))
}

func TestServiceReportsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	spec := strings.Replace(gatewayFixture, "  title: Gateway\n", "", 1)
	cfg := gatewayConfig(writeSpec(t, dir, spec), filepath.Join(dir, "out"))

	err := NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, "")
	var invalid *openapi.ValidationError
	assert.True(t, errors.As(err, &invalid), "got %v", err)
}

func TestServiceRejectsUnknownTargetsAndDocuments(t *testing.T) {
	dir := t.TempDir()
	cfg := gatewayConfig(writeSpec(t, dir, gatewayFixture), filepath.Join(dir, "out"))

	err := NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, "OTHER")
	assert.ErrorContains(t, err, `document "OTHER" not found`)

	cfg.Documents[0].Targets = []config.Target{{Type: "python", OutDir: filepath.Join(dir, "py")}}
	err = NewService(discardLogger()).GenerateFromConfig(context.Background(), cfg, "GATEWAY")
	assert.ErrorContains(t, err, "unsupported target type: python (available: go, typescript)")
}

func TestRegistryTypes(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, []string{"go", "typescript"}, svc.GetRegistry().GetAvailableTypes())
	_, ok := svc.GetRegistry().Get("python")
	assert.False(t, ok)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
