package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"offplan-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Имена схем. Версия передается отдельно.
const (
	EstatyListing       = "EstatyListing"
	EstatyProperty      = "EstatyProperty"
	SyncTaskEvent       = "SyncTaskEvent"
	SyncResultsEvent    = "SyncResultsEvent"
	ContentCreatedEvent = "ContentCreatedEvent"

	V1 = "1.0.0"
)

// схемы регистрируются под этим префиксом, чтобы URL ресурса был абсолютным
const resourcePrefix = "https://offplan-service.local/schemas/"

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemas.SchemasFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemas.SchemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(resourcePrefix+path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	for _, path := range paths {
		schema, err := compiler.Compile(resourcePrefix + path)
		if err != nil {
			log.Fatalf("failed to compile schema %s: %v", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			log.Printf("WARNING: schema %s has an unexpected path layout. Skipping.", path)
			continue
		}
		compiledSchemas[key] = schema
	}
}

// generateKeyFromPath преобразует путь вида "events/sync-task/v1.json" в "SyncTaskEvent/1.0.0",
// а "estaty/property/v1.json" в "EstatyProperty/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, ".json"), "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	if parts[0] != "events" {
		name.WriteString(caser.String(parts[0]))
	}
	for _, p := range strings.Split(parts[1], "-") {
		name.WriteString(caser.String(p))
	}
	if parts[0] == "events" {
		name.WriteString("Event")
	}

	version := strings.TrimPrefix(parts[2], "v") + ".0.0"
	return fmt.Sprintf("%s/%s", name.String(), version)
}

// Validate проверяет JSON-документ по схеме name/version
func Validate(name, version string, body []byte) error {
	key := fmt.Sprintf("%s/%s", name, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' version '%s' not found", name, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("document is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// ValidateEvent проверяет тело сообщения брокера по схеме события
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	return Validate(eventType, eventVersion, body)
}
