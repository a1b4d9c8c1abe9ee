package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
)

type MismatchKind string

const (
	KindType          MismatchKind = "type"
	KindMissingSecond MismatchKind = "missing_in_second"
	KindMissingFirst  MismatchKind = "missing_in_first"
	KindList          MismatchKind = "list"
)

type Mismatch struct {
	Path   string
	Kind   MismatchKind
	Detail string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s at %s: %s", m.Kind, m.Path, m.Detail)
}

// LoadTree читает конфиг как дерево map/slice без схемы.
func LoadTree(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var tree any
	if err := decode(path, data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// CompareStructure сравнивает форму двух деревьев конфигурации: типы,
// набор ключей, пустоту списков. Значения листьев не сравниваются,
// у списков смотрим только первый элемент.
func CompareStructure(a, b any) []Mismatch {
	var out []Mismatch
	compare(a, b, "", &out)
	return out
}

func compare(a, b any, path string, out *[]Mismatch) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		*out = append(*out, Mismatch{Path: path, Kind: KindType, Detail: fmt.Sprintf("%v vs %v", ta, tb)})
		return
	}

	switch av := a.(type) {
	case map[string]any:
		bv := b.(map[string]any)
		for _, k := range sortedKeys(av) {
			if _, ok := bv[k]; !ok {
				*out = append(*out, Mismatch{Path: path, Kind: KindMissingSecond, Detail: k})
				continue
			}
			compare(av[k], bv[k], join(path, k), out)
		}
		for _, k := range sortedKeys(bv) {
			if _, ok := av[k]; !ok {
				*out = append(*out, Mismatch{Path: path, Kind: KindMissingFirst, Detail: k})
			}
		}
	case []any:
		bv := b.([]any)
		switch {
		case len(av) > 0 && len(bv) > 0:
			compare(av[0], bv[0], path+"[0]", out)
		case len(av) != len(bv):
			*out = append(*out, Mismatch{Path: path, Kind: KindList, Detail: fmt.Sprintf("length %d vs %d", len(av), len(bv))})
		}
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
