package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// Options is an option table from a definition file. Top-level keys are dot
// paths ("chart.toolbar.show"); keys of nested tables are literal. YAML and
// JSON tables keep the order keys were written in. TOML tables reach the
// decoder as Go maps, so their keys are applied in sorted order.
//
// Strings in the marked form ###FUNCTION###src###FUNCTION### become raw code.
type Options struct {
	tree *optree.Tree
}

// Tree returns the options as a tree. The zero Options yields an empty tree.
func (o Options) Tree() *optree.Tree {
	if o.tree == nil {
		return optree.New()
	}
	return o.tree
}

// Len returns the number of top-level keys.
func (o Options) Len() int {
	if o.tree == nil {
		return 0
	}
	return o.tree.Root().Len()
}

func (o *Options) set(key string, v optree.Value) error {
	if o.tree == nil {
		o.tree = optree.New()
	}
	return o.tree.Set(key, v)
}

// UnmarshalYAML implements yaml.Unmarshaler, walking the node tree so that
// mapping order survives.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}
	o.tree = optree.New()
	w := newYAMLWalker()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := w.value(node.Content[i+1], key)
		if err != nil {
			return err
		}
		if err := o.set(key, v); err != nil {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, err)
		}
	}
	return nil
}

// maxAliasNodes caps how many nodes the aliases of one option table may
// expand to. Nodes outside aliases are bounded by the document size.
const maxAliasNodes = 10_000

// yamlWalker converts YAML nodes to values. Aliases are expanded in place,
// so it tracks the anchors being expanded (an alias inside its own anchor
// never ends) and the number of nodes they produced.
type yamlWalker struct {
	active  map[*yaml.Node]bool
	aliased int
}

func newYAMLWalker() *yamlWalker {
	return &yamlWalker{active: make(map[*yaml.Node]bool)}
}

func (w *yamlWalker) value(node *yaml.Node, path string) (optree.Value, error) {
	if len(w.active) > 0 {
		if w.aliased++; w.aliased > maxAliasNodes {
			return optree.Value{}, errs.New(errs.ErrCodeInvalidDefinition,
				"line %d: %s: aliases expand to more than %d nodes", node.Line, path, maxAliasNodes)
		}
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return optree.Null(), nil
		}
		return w.value(node.Content[0], path)
	case yaml.AliasNode:
		if node.Alias == nil || w.active[node.Alias] {
			return optree.Value{}, errs.New(errs.ErrCodeInvalidDefinition,
				"line %d: %s: alias *%s refers to itself", node.Line, path, node.Value)
		}
		w.active[node.Alias] = true
		defer delete(w.active, node.Alias)
		return w.value(node.Alias, path)
	case yaml.MappingNode:
		m := optree.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			v, err := w.value(node.Content[i+1], path+"."+key)
			if err != nil {
				return optree.Value{}, err
			}
			m.Set(key, v)
		}
		return optree.MapValue(m), nil
	case yaml.SequenceNode:
		l := optree.NewList()
		for i, item := range node.Content {
			v, err := w.value(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return optree.Value{}, err
			}
			l.Append(v)
		}
		return optree.ListValue(l), nil
	default:
		var raw any
		if err := node.Decode(&raw); err != nil {
			return optree.Value{}, fmt.Errorf("line %d: %s: %w", node.Line, path, err)
		}
		return optree.ValueOf(normalize(raw))
	}
}

// UnmarshalJSON implements json.Unmarshaler, reading the object token by
// token so that key order survives. Numbers keep their integer-ness.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := jsonValue(dec)
	if err != nil {
		return err
	}
	m := v.ToMap()
	if m == nil {
		return fmt.Errorf("options must be an object, got %s", v.Kind())
	}
	o.tree = optree.New()
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		if err := o.set(key, val); err != nil {
			return err
		}
	}
	return nil
}

func jsonValue(dec *json.Decoder) (optree.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return optree.Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := optree.NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return optree.Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return optree.Value{}, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := jsonValue(dec)
				if err != nil {
					return optree.Value{}, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return optree.Value{}, err
			}
			return optree.MapValue(m), nil
		case '[':
			l := optree.NewList()
			for dec.More() {
				v, err := jsonValue(dec)
				if err != nil {
					return optree.Value{}, err
				}
				l.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return optree.Value{}, err
			}
			return optree.ListValue(l), nil
		}
		return optree.Value{}, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return optree.ValueOf(t)
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (o *Options) UnmarshalTOML(data any) error {
	table, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("options must be a table, got %T", data)
	}
	o.tree = optree.New()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := optree.ValueOf(normalize(table[k]))
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if err := o.set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// normalize rewrites decoder output that the option tree does not accept:
// datetimes become RFC 3339 strings and YAML maps with non-string keys get
// their keys stringified.
func normalize(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
