package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind names the catalog collection a record belongs to.
type Kind string

const (
	KindUnknown       Kind = ""
	KindSin           Kind = "sins"
	KindBuenaObra     Kind = "buenasObras"
	KindPersonType    Kind = "personTypes"
	KindActivity      Kind = "activities"
	KindCondicionante Kind = "condicionantes"
)

// Kinds lists the importable kinds in dependency order: referenced
// entities before the items that reference them.
func Kinds() []Kind {
	return []Kind{KindPersonType, KindActivity, KindCondicionante, KindSin, KindBuenaObra}
}

// definition is the CUE definition validating records of the kind.
func (k Kind) definition() string {
	switch k {
	case KindSin:
		return "#Sin"
	case KindBuenaObra:
		return "#BuenaObra"
	case KindPersonType:
		return "#PersonType"
	case KindActivity:
		return "#Activity"
	case KindCondicionante:
		return "#Condicionante"
	}
	return ""
}

// ParseKind converts a user-supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sin", "sins", "pecados":
		return KindSin, nil
	case "goodwork", "goodworks", "good-work", "good-works", "buenaobra", "buenasobras", "buenas-obras":
		return KindBuenaObra, nil
	case "persontype", "persontypes", "person-type", "person-types":
		return KindPersonType, nil
	case "activity", "activities":
		return KindActivity, nil
	case "condicionante", "condicionantes":
		return KindCondicionante, nil
	}
	return KindUnknown, fmt.Errorf(
		"invalid kind %q: valid kinds are sins, good-works, person-types, activities, condicionantes", s)
}

// kindPattern maps a glob pattern to a Kind. First match wins.
type kindPattern struct {
	Pattern string
	Kind    Kind
}

var kindPatterns = []kindPattern{
	{"**/{sins,pecados}.*", KindSin},
	{"**/{sins,pecados}/**", KindSin},
	{"**/{good-works,goodWorks,buenas-obras,buenasObras}.*", KindBuenaObra},
	{"**/{good-works,goodWorks,buenas-obras,buenasObras}/**", KindBuenaObra},
	{"**/{person-types,personTypes}.*", KindPersonType},
	{"**/{person-types,personTypes}/**", KindPersonType},
	{"**/activities.*", KindActivity},
	{"**/activities/**", KindActivity},
	{"**/condicionantes.*", KindCondicionante},
	{"**/condicionantes/**", KindCondicionante},
}

// DetectKind infers the kind of a catalog file from its path. YAML files
// holding several kinds keyed by collection name return KindUnknown and
// are resolved from their contents.
func DetectKind(path string) Kind {
	p := strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, kp := range kindPatterns {
		if ok, err := doublestar.Match(kp.Pattern, p); err == nil && ok {
			return kp.Kind
		}
	}
	return KindUnknown
}

// Format is the encoding of a catalog file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// DetectFormat returns the file's format from its extension. JSON files
// are read as YAML.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported catalog file %s: expected .yaml, .yml, .json or .csv", path)
}
