package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/magis/internal/store"
	"github.com/dotcommander/magis/internal/types"
)

// Options controls an import run.
type Options struct {
	// Kind overrides the kind detected from each file path.
	Kind Kind
	// DryRun validates without writing to the store.
	DryRun bool
}

// Result summarises an import run. Rows that fail are reported in Errors
// and do not stop the rest of the import.
type Result struct {
	Files    int          `json:"files"`
	Imported map[Kind]int `json:"imported"`
	Updated  int          `json:"updated"`
	Errors   []RowError   `json:"errors,omitempty"`
	DryRun   bool         `json:"dryRun,omitempty"`
}

// Total returns the number of records written (or, in a dry run, accepted).
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Imported {
		n += c
	}
	return n
}

// Importer loads catalog files into the store.
type Importer struct {
	store     *store.Store
	validator *Validator
	log       *zap.Logger
}

// NewImporter returns an importer writing to st.
func NewImporter(st *store.Store, log *zap.Logger) (*Importer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Importer{store: st, validator: v, log: log}, nil
}

type sourced struct {
	Record
	file string
}

// Import parses, validates and saves every record in files. Records
// without an id replace an existing item of the same kind and name, so
// re-importing a file does not duplicate the catalog.
func (im *Importer) Import(files []File, opts Options) (*Result, error) {
	res := &Result{Imported: make(map[Kind]int), DryRun: opts.DryRun}

	var records []sourced
	for _, f := range files {
		kind := f.Kind
		if opts.Kind != KindUnknown {
			kind = opts.Kind
		}
		recs, rowErrs, err := readFile(f, kind)
		res.Files++
		if err != nil {
			res.Errors = append(res.Errors, RowError{File: f.RelPath, Message: err.Error()})
			continue
		}
		for _, e := range rowErrs {
			e.File = f.RelPath
			res.Errors = append(res.Errors, e)
		}
		for _, r := range recs {
			records = append(records, sourced{Record: r, file: f.RelPath})
		}
	}

	order := make(map[Kind]int)
	for i, k := range Kinds() {
		order[k] = i
	}
	sort.SliceStable(records, func(i, j int) bool { return order[records[i].Kind] < order[records[j].Kind] })

	names, err := im.existingNames()
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		fieldErrs, err := im.validator.Validate(r.Kind, r.Data)
		if err != nil {
			res.Errors = append(res.Errors, RowError{File: r.file, Row: r.Row, Message: err.Error()})
			continue
		}
		if len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				res.Errors = append(res.Errors, RowError{File: r.file, Row: r.Row, Field: fe.Field, Message: fe.Message})
			}
			continue
		}

		byName := names[r.Kind]
		if id, _ := r.Data["id"].(string); id == "" {
			if name, _ := r.Data["name"].(string); byName[nameKey(name)] != "" {
				r.Data["id"] = byName[nameKey(name)]
				res.Updated++
			}
		}

		id, err := im.save(r.Kind, r.Data, opts.DryRun)
		if err != nil {
			res.Errors = append(res.Errors, RowError{File: r.file, Row: r.Row, Message: err.Error()})
			continue
		}
		if name, _ := r.Data["name"].(string); name != "" {
			byName[nameKey(name)] = id
		}
		res.Imported[r.Kind]++
	}

	im.log.Info("catalog import finished",
		zap.Int("files", res.Files),
		zap.Int("imported", res.Total()),
		zap.Int("errors", len(res.Errors)),
		zap.Bool("dry_run", opts.DryRun))
	return res, nil
}

func readFile(f File, kind Kind) ([]Record, []RowError, error) {
	if _, err := ValidateFilePath(f.Path); err != nil {
		return nil, nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.RelPath, err)
	}
	defer fh.Close()

	switch f.Format {
	case FormatCSV:
		return ParseCSV(fh, kind)
	case FormatYAML:
		return ParseYAML(fh, kind)
	}
	return nil, nil, fmt.Errorf("unsupported format %q", f.Format)
}

func nameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// existingNames indexes the stored catalog by kind and normalized name.
func (im *Importer) existingNames() (map[Kind]map[string]string, error) {
	out := make(map[Kind]map[string]string)
	for _, k := range Kinds() {
		out[k] = make(map[string]string)
	}
	add := func(k Kind, id, name string) { out[k][nameKey(name)] = id }

	sins, err := im.store.Sins()
	if err != nil {
		return nil, err
	}
	for _, s := range sins {
		add(KindSin, s.ID, s.Name)
	}
	obras, err := im.store.BuenasObras()
	if err != nil {
		return nil, err
	}
	for _, b := range obras {
		add(KindBuenaObra, b.ID, b.Name)
	}
	pts, err := im.store.PersonTypes()
	if err != nil {
		return nil, err
	}
	for _, p := range pts {
		add(KindPersonType, p.ID, p.Name)
	}
	acts, err := im.store.Activities()
	if err != nil {
		return nil, err
	}
	for _, a := range acts {
		add(KindActivity, a.ID, a.Name)
	}
	conds, err := im.store.Condicionantes()
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		add(KindCondicionante, c.ID, c.Name)
	}
	return out, nil
}

// save converts a validated record into its entity and stores it,
// returning the stored id.
func (im *Importer) save(kind Kind, data map[string]any, dryRun bool) (string, error) {
	switch kind {
	case KindSin:
		v, err := decode[types.Sin](data)
		if err != nil {
			return "", err
		}
		if dryRun {
			return v.ID, v.Validate()
		}
		v, err = im.store.SaveSin(v)
		return v.ID, err
	case KindBuenaObra:
		v, err := decode[types.BuenaObra](data)
		if err != nil {
			return "", err
		}
		if dryRun {
			return v.ID, v.Validate()
		}
		v, err = im.store.SaveBuenaObra(v)
		return v.ID, err
	case KindPersonType:
		v, err := decode[types.PersonType](data)
		if err != nil || dryRun {
			return v.ID, err
		}
		v, err = im.store.SavePersonType(v)
		return v.ID, err
	case KindActivity:
		v, err := decode[types.Activity](data)
		if err != nil || dryRun {
			return v.ID, err
		}
		v, err = im.store.SaveActivity(v)
		return v.ID, err
	case KindCondicionante:
		v, err := decode[types.Condicionante](data)
		if err != nil || dryRun {
			return v.ID, err
		}
		v, err = im.store.SaveCondicionante(v)
		return v.ID, err
	}
	return "", errors.New("unknown catalog kind")
}

func decode[T any](data map[string]any) (T, error) {
	var v T
	raw, err := yaml.Marshal(data)
	if err != nil {
		return v, fmt.Errorf("encode record: %w", err)
	}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode record: %w", err)
	}
	return v, nil
}
