package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKeyword marks schemas that stray outside the supported subset.
var ErrUnsupportedKeyword = errors.New("unsupported schema keyword")

// Feature schemas are intentionally flat. The subset keeps validation
// predictable and the error messages readable for suppliers.
var allowedKeywords = map[string]struct{}{
	"$schema":              {},
	"$id":                  {},
	"type":                 {},
	"properties":           {},
	"required":             {},
	"items":                {},
	"enum":                 {},
	"const":                {},
	"default":              {},
	"title":                {},
	"description":          {},
	"format":               {},
	"additionalProperties": {},
}

func validateSchemaSubset(schema map[string]any) error {
	return validateSchemaNode(schema, "")
}

func validateSchemaNode(node map[string]any, path string) error {
	if node == nil {
		return nil
	}
	for key, value := range node {
		if strings.HasPrefix(key, "x-") {
			continue
		}
		if _, ok := allowedKeywords[key]; !ok {
			return fmt.Errorf("%w: %s at %s", ErrUnsupportedKeyword, key, path)
		}

		switch key {
		case "properties":
			props, ok := value.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: properties at %s", ErrUnsupportedKeyword, path)
			}
			for name, child := range props {
				childSchema, ok := child.(map[string]any)
				if !ok {
					return fmt.Errorf("%w: properties/%s at %s", ErrUnsupportedKeyword, name, path)
				}
				if err := validateSchemaNode(childSchema, joinPath(path, "properties", name)); err != nil {
					return err
				}
			}
		case "items":
			switch typed := value.(type) {
			case map[string]any:
				if err := validateSchemaNode(typed, joinPath(path, "items")); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: items at %s", ErrUnsupportedKeyword, path)
			}
		}
	}
	return nil
}

func joinPath(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		trimmed = append(trimmed, part)
	}
	if len(trimmed) == 0 {
		return ""
	}
	return strings.Join(trimmed, "/")
}
