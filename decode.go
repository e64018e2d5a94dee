package dcf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// Format is the syntax of an assumptions file.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatHJSON Format = "hjson"
)

// FormatOf guesses the format of a file from its extension. YAML is the default.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".hjson":
		return FormatHJSON
	default:
		return FormatYAML
	}
}

// DecodeInput reads a form from r.
func DecodeInput(r io.Reader, format Format) (Input, error) {
	var in Input
	data, err := io.ReadAll(r)
	if err != nil {
		return in, fmt.Errorf("reading input: %w", err)
	}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return in, fmt.Errorf("format error in json input: %w", err)
		}
	case FormatHJSON:
		// hjson is decoded generically then re-encoded, so that Field decoding
		// follows the JSON rules.
		var doc map[string]interface{}
		if err := hjson.Unmarshal(data, &doc); err != nil {
			return in, fmt.Errorf("format error in hjson input: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return in, fmt.Errorf("format error in hjson input: %w", err)
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return in, fmt.Errorf("format error in hjson input: %w", err)
		}
	case FormatYAML:
		if err := yaml.UnmarshalStrict(data, &in); err != nil {
			return in, fmt.Errorf("format error in yaml input: %w", err)
		}
	default:
		return in, fmt.Errorf("unsupported input format %q", format)
	}
	return in, nil
}

// ExtractInput builds a form out of an arbitrary JSON document (for instance
// a financial data dump) using one JSONPath expression per form field.
//
// paths maps form field names (see FieldNames, plus "company") to JSONPath
// expressions such as "$.financials.revenue". A path that resolves to a list
// uses its first element.
func ExtractInput(doc interface{}, paths map[string]string) (Input, error) {
	var in Input
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := paths[name]
		val, err := jsonpath.Get(path, doc)
		if err != nil {
			return in, fmt.Errorf("error evaluating %q for %q: %w", path, name, err)
		}
		// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
		// by this call I keep the first one if any
		if list, ok := val.([]interface{}); ok {
			if len(list) == 0 {
				return in, fmt.Errorf("error evaluating %q for %q: no match", path, name)
			}
			val = list[0]
		}
		switch val.(type) {
		case string, float64, json.Number, nil:
		default:
			return in, fmt.Errorf("error evaluating %q for %q: not a scalar: %v", path, name, val)
		}
		if err := in.Set(name, string(fieldOf(val))); err != nil {
			return in, err
		}
	}
	return in, nil
}

// DecodeDocument reads a JSON document for ExtractInput.
func DecodeDocument(r io.Reader) (interface{}, error) {
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("format error in json document: %w", err)
	}
	return doc, nil
}

// ParsePaths parses "field=$.json.path" specifications.
func ParsePaths(specs []string) (map[string]string, error) {
	paths := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid path specification %q, expected field=$.path", spec)
		}
		paths[name] = path
	}
	return paths, nil
}

// EncodeInput writes every field of the form, empty ones included, in form
// order. It is meant to produce a file to fill in. HJSON is written as JSON,
// which it is a superset of.
func EncodeInput(w io.Writer, in Input, format Format) error {
	values := in.fields()
	switch format {
	case FormatYAML:
		doc := yaml.MapSlice{{Key: "company", Value: in.Company}}
		for _, name := range FieldNames() {
			doc = append(doc, yaml.MapItem{Key: name, Value: string(*values[name])})
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding yaml input: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON, FormatHJSON:
		var obj jsonObjectWriter
		obj.Append("company", in.Company)
		for _, name := range FieldNames() {
			obj.Append(name, string(*values[name]))
		}
		raw, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding json input: %w", err)
		}
		var b bytes.Buffer
		if err := json.Indent(&b, raw, "", "  "); err != nil {
			return fmt.Errorf("encoding json input: %w", err)
		}
		b.WriteByte('\n')
		_, err = b.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unsupported input format %q", format)
	}
}
