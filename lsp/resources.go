package lsp

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"go.lsp.dev/protocol"
	"gopkg.in/yaml.v3"
)

//go:embed resources/primitives.yaml
var builtinResources []byte

// ResourceItem is one completion item described in a resource file.
type ResourceItem struct {
	Label            string `yaml:"label"`
	Detail           string `yaml:"detail,omitempty"`
	Documentation    string `yaml:"documentation,omitempty"`
	InsertText       string `yaml:"insert_text,omitempty"`
	InsertTextFormat string `yaml:"insert_text_format,omitempty"`
}

// Resources are the completion items that do not come from the document.
type Resources struct {
	Primitive []ResourceItem `yaml:"primitive"`
}

// LoadResources returns the built-in primitives (when builtin is set) with
// the items of the file at path appended. An empty path loads nothing extra.
func LoadResources(path string, builtin bool) (*Resources, error) {
	res := &Resources{}

	if builtin {
		if err := yaml.Unmarshal(builtinResources, res); err != nil {
			return nil, fmt.Errorf("built-in resources: %w", err)
		}
	}

	if path == "" {
		return res, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var extra Resources
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res.Primitive = append(res.Primitive, extra.Primitive...)

	return res, nil
}

// CompletionItems converts the primitives to completion items.
func (r *Resources) CompletionItems() []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(r.Primitive))

	for _, p := range r.Primitive {
		item := protocol.CompletionItem{
			Label:      p.Label,
			Kind:       protocol.CompletionItemKindFunction,
			Detail:     p.Detail,
			InsertText: p.InsertText,
		}

		if p.Detail == "statement" || p.Detail == "expression" {
			item.Kind = protocol.CompletionItemKindKeyword
		}

		if p.InsertTextFormat == "snippet" {
			item.InsertTextFormat = protocol.InsertTextFormatSnippet
		}

		if p.Documentation != "" {
			item.Documentation = protocol.MarkupContent{
				Kind:  protocol.Markdown,
				Value: p.Documentation,
			}
		}

		items = append(items, item)
	}

	return items
}
