package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/pkg/audit"
)

// extractSchema parses every JSON-LD script block into a SchemaObject,
// valid or not, plus every microdata itemscope (nested ones included)
// whose itemtype ends in one of microdataTypes. Schema objects
// are arbitrary nested JSON with no fixed shape worth a dedicated parsing
// library in the pack, so this is hand-rolled over encoding/json.
func extractSchema(doc *goquery.Document) []audit.SchemaObject {
	var objects []audit.SchemaObject
	objects = append(objects, extractJSONLD(doc)...)
	objects = append(objects, extractMicrodata(doc)...)
	return objects
}

func extractJSONLD(doc *goquery.Document) []audit.SchemaObject {
	var objects []audit.SchemaObject

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			objects = append(objects, audit.SchemaObject{
				Valid:  false,
				Errors: []string{fmt.Sprintf("invalid JSON-LD: %v", err)},
			})
			return
		}

		for _, obj := range flattenJSONLD(parsed) {
			objects = append(objects, jsonLDToSchemaObject(obj))
		}
	})

	return objects
}

// flattenJSONLD handles both a single object and a top-level @graph array
// of objects, the two shapes real sites emit.
func flattenJSONLD(parsed any) []map[string]any {
	switch v := parsed.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []map[string]any
			for _, g := range graph {
				if m, ok := g.(map[string]any); ok {
					out = append(out, m)
				}
			}
			return out
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func jsonLDToSchemaObject(m map[string]any) audit.SchemaObject {
	obj := audit.SchemaObject{Raw: m, Valid: true}

	typeVal, ok := m["@type"]
	if !ok {
		obj.Valid = false
		obj.Errors = append(obj.Errors, "missing @type")
		return obj
	}

	switch t := typeVal.(type) {
	case string:
		obj.Type = t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				obj.Type = s
			}
		}
	}
	if obj.Type == "" {
		obj.Valid = false
		obj.Errors = append(obj.Errors, "@type is not a recognizable string")
	}

	return obj
}

// microdataTypes maps the schema.org itemtype URL suffix to the short
// type name used elsewhere (matching JSON-LD's @type convention).
var microdataTypes = []string{"FAQPage", "Article", "Organization", "HowTo", "Product", "Review"}

func extractMicrodata(doc *goquery.Document) []audit.SchemaObject {
	var objects []audit.SchemaObject

	doc.Find("[itemscope][itemtype]").Each(func(_ int, s *goquery.Selection) {
		itemtype, _ := s.Attr("itemtype")
		typeName := ""
		for _, t := range microdataTypes {
			if strings.HasSuffix(itemtype, t) {
				typeName = t
				break
			}
		}
		if typeName == "" {
			return
		}

		props := map[string]any{}
		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			name, _ := p.Attr("itemprop")
			if name == "" {
				return
			}
			if content, ok := p.Attr("content"); ok {
				props[name] = content
			} else {
				props[name] = strings.TrimSpace(p.Text())
			}
		})

		objects = append(objects, audit.SchemaObject{
			Type:  typeName,
			Valid: len(props) > 0,
			Raw:   props,
		})
	})

	return objects
}
