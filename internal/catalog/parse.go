package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one raw catalog entry read from a file.
type Record struct {
	Kind Kind
	// Row is the 1-based CSV line or YAML line of the entry.
	Row  int
	Data map[string]any
}

// RowError describes why one row was not imported. Row 0 marks a
// file-level failure.
type RowError struct {
	File    string `json:"file"`
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	var b strings.Builder
	b.WriteString(e.File)
	if e.Row > 0 {
		fmt.Fprintf(&b, ":%d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	return b.String()
}

// ParseYAML reads a YAML (or JSON) catalog. The document is either a list
// of records of the given kind, a single record, or a mapping from
// collection name to record list.
func ParseYAML(r io.Reader, kind Kind) ([]Record, []RowError, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil, nil
	}
	root := doc.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		if kind == KindUnknown {
			return nil, nil, fmt.Errorf("parse yaml: cannot tell the catalog kind; name the file after it or pass --kind")
		}
		recs, errs := sequence(root, kind)
		return recs, errs, nil
	case yaml.MappingNode:
		if bundleKinds(root) {
			var recs []Record
			var errs []RowError
			for i := 0; i+1 < len(root.Content); i += 2 {
				k := Kind(root.Content[i].Value)
				r, e := sequence(root.Content[i+1], k)
				recs = append(recs, r...)
				errs = append(errs, e...)
			}
			return recs, errs, nil
		}
		if kind == KindUnknown {
			return nil, nil, fmt.Errorf("parse yaml: cannot tell the catalog kind; name the file after it or pass --kind")
		}
		rec, err := record(root, kind)
		if err != nil {
			return nil, []RowError{{Row: root.Line, Message: err.Error()}}, nil
		}
		return []Record{rec}, nil, nil
	}
	return nil, nil, fmt.Errorf("parse yaml: expected a list or mapping at line %d", root.Line)
}

// bundleKinds reports whether every key of the mapping is a collection name.
func bundleKinds(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for i := 0; i < len(n.Content); i += 2 {
		if Kind(n.Content[i].Value).definition() == "" {
			return false
		}
	}
	return true
}

func sequence(n *yaml.Node, kind Kind) ([]Record, []RowError) {
	if n.Kind != yaml.SequenceNode {
		return nil, []RowError{{Row: n.Line, Field: string(kind), Message: "expected a list of records"}}
	}
	var recs []Record
	var errs []RowError
	for _, item := range n.Content {
		rec, err := record(item, kind)
		if err != nil {
			errs = append(errs, RowError{Row: item.Line, Message: err.Error()})
			continue
		}
		recs = append(recs, rec)
	}
	return recs, errs
}

func record(n *yaml.Node, kind Kind) (Record, error) {
	if n.Kind != yaml.MappingNode {
		return Record{}, fmt.Errorf("expected a mapping")
	}
	var data map[string]any
	if err := n.Decode(&data); err != nil {
		return Record{}, err
	}
	return Record{Kind: kind, Row: n.Line, Data: data}, nil
}

const listSeparator = "|"

var (
	listFields = map[string]bool{
		"terms": true, "gravities": true, "materiaTipo": true, "manifestations": true,
		"objectTypes": true, "modes": true, "capitalSins": true, "vows": true,
		"spiritualMeans": true, "personTypeIds": true, "activityIds": true,
		"condicionanteIds": true, "circumstances": true,
	}
	numberFields = map[string]bool{
		"mortalThresholdUnits": true, "unitPerTap": true, "manualWeightOverride": true,
	}
	boolFields = map[string]bool{
		"canAggregateToMortal": true, "isDisabled": true,
	}
)

// ParseCSV reads a CSV catalog whose header row names the record fields.
// List cells are "|"-separated; opposed virtues are written kind:name;
// the reset cycle uses the resetCycle, resetEvery and resetUnit columns.
// Malformed rows are reported and skipped.
func ParseCSV(r io.Reader, kind Kind) ([]Record, []RowError, error) {
	if kind == KindUnknown {
		return nil, nil, fmt.Errorf("parse csv: cannot tell the catalog kind; name the file after it or pass --kind")
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var recs []Record
	var errs []RowError
	row := 1
	for {
		cells, err := cr.Read()
		row++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, RowError{Row: row, Message: err.Error()})
			continue
		}
		if blank(cells) {
			continue
		}
		if len(cells) > len(header) {
			errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("%d cells but only %d columns", len(cells), len(header))})
			continue
		}
		data, field, err := csvRecord(header, cells)
		if err != nil {
			errs = append(errs, RowError{Row: row, Field: field, Message: err.Error()})
			continue
		}
		recs = append(recs, Record{Kind: kind, Row: row, Data: data})
	}
	return recs, errs, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func csvRecord(header, cells []string) (map[string]any, string, error) {
	data := make(map[string]any)
	reset := make(map[string]any)
	for i, raw := range cells {
		cell := strings.TrimSpace(raw)
		if cell == "" {
			continue
		}
		field := header[i]
		switch {
		case field == "resetCycle":
			reset["kind"] = cell
		case field == "resetUnit":
			reset["unit"] = cell
		case field == "resetEvery":
			n, err := strconv.Atoi(cell)
			if err != nil {
				return nil, field, fmt.Errorf("not an integer: %q", cell)
			}
			reset["every"] = n
		case field == "opposedVirtues":
			var virtues []any
			for _, v := range splitList(cell) {
				k, name, ok := strings.Cut(v, ":")
				if !ok {
					return nil, field, fmt.Errorf("expected kind:name, got %q", v)
				}
				virtues = append(virtues, map[string]any{"kind": strings.TrimSpace(k), "name": strings.TrimSpace(name)})
			}
			data[field] = virtues
		case listFields[field]:
			var items []any
			for _, v := range splitList(cell) {
				items = append(items, v)
			}
			data[field] = items
		case numberFields[field]:
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, field, fmt.Errorf("not a number: %q", cell)
			}
			data[field] = f
		case boolFields[field]:
			b, err := strconv.ParseBool(cell)
			if err != nil {
				return nil, field, fmt.Errorf("not a boolean: %q", cell)
			}
			data[field] = b
		default:
			data[field] = cell
		}
	}
	if len(reset) > 0 {
		data["resetCycle"] = reset
	}
	return data, "", nil
}

func splitList(cell string) []string {
	var out []string
	for _, p := range strings.Split(cell, listSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
