// Package seed loads YAML fixtures and pushes their records into a store.
//
// A fixture lists tables in order, each with an optional key strategy and a
// list of flat records:
//
//	tables:
//	  - name: npcs
//	    strategy: sequential
//	    records:
//	      - {name: Willy the Goblin, health: 67.8, gold: 999}
//
// Field order within each record is kept, so tables created by the first
// record get their columns in the order written.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

// Fixture is a parsed seed file.
type Fixture struct {
	// Tables are seeded in the order listed.
	Tables []Table `yaml:"tables"`
}

// Table holds the records pushed into one table.
type Table struct {
	// Name is the target table.
	Name string `yaml:"name"`

	// Strategy overrides the key strategy when the table is created.
	// Empty means the existing table's strategy, or the caller's default.
	Strategy string `yaml:"strategy,omitempty"`

	// Records are pushed in order.
	Records []Row `yaml:"records"`
}

// Row is one fixture record.
type Row struct {
	Record *record.Record
}

// UnmarshalYAML decodes a flat mapping into an ordered record.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	rec, err := recordFromNode(node)
	if err != nil {
		return err
	}
	r.Record = rec
	return nil
}

// Load reads and parses a seed fixture file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse parses fixture YAML from memory.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid fixture: tables list is required and must be non-empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFixture(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// validateFixture checks that required fields are present and valid.
func validateFixture(f *Fixture) error {
	if len(f.Tables) == 0 {
		return fmt.Errorf("tables list is required and must be non-empty")
	}

	for i, t := range f.Tables {
		if t.Name == "" {
			return fmt.Errorf("tables[%d]: name is required", i)
		}
		if t.Strategy != "" {
			if _, err := schema.ParseStrategy(t.Strategy); err != nil {
				return fmt.Errorf("tables[%d] (%s): %w", i, t.Name, err)
			}
		}
		for j, row := range t.Records {
			if row.Record == nil {
				return fmt.Errorf("tables[%d] (%s): records[%d] is empty", i, t.Name, j)
			}
		}
	}
	return nil
}

// recordFromNode converts a YAML mapping of scalars into a record.
func recordFromNode(node *yaml.Node) (*record.Record, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: record must be a mapping", node.Line)
	}

	rec := record.New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: field names must be scalars", key.Line)
		}
		v, err := valueFromNode(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %q: %w", val.Line, key.Value, err)
		}
		rec.Set(key.Value, v)
	}
	return rec, nil
}

// valueFromNode maps a resolved YAML scalar onto a Value variant.
func valueFromNode(node *yaml.Node) (record.Value, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		return nil, fmt.Errorf("nested mappings are not supported")
	case yaml.SequenceNode:
		return nil, fmt.Errorf("nested sequences are not supported")
	case yaml.ScalarNode:
	default:
		return nil, fmt.Errorf("unsupported YAML node")
	}

	switch node.ShortTag() {
	case "!!null":
		return record.Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return record.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return record.Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return record.Float(f), nil
	case "!!str":
		return record.Text(node.Value), nil
	default:
		return nil, fmt.Errorf("unsupported YAML type %s", node.ShortTag())
	}
}
