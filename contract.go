package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Contract names allow alphanumerics, underscores and hyphens, at most 100
// characters.
var nameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxNameLength = 100

// NamedSchema attaches a name to one TableSchema within a contract.
type NamedSchema struct {
	Name   string
	Schema *TableSchema
}

// Contract is a named, versioned bundle of one or more table schemas: the
// unit consumers request and publish. Contracts are immutable once
// constructed; modifications produce a new instance, so validation results
// stay reproducible and contracts are shareable across concurrent
// validations.
type Contract struct {
	name        string
	version     string
	title       string
	description string
	tags        []string
	schemas     []NamedSchema
	index       map[string]int
}

// ContractOption configures contract metadata at construction.
type ContractOption func(*Contract)

// WithTitle sets the human-readable display title.
func WithTitle(title string) ContractOption {
	return func(c *Contract) { c.title = title }
}

// WithDescription sets the long-form description.
func WithDescription(desc string) ContractOption {
	return func(c *Contract) { c.description = desc }
}

// WithContractTags sets categorization tags.
func WithContractTags(tags ...string) ContractOption {
	return func(c *Contract) { c.tags = append([]string{}, tags...) }
}

// NewContract builds a contract. It fails with a DefinitionError when the
// name violates the naming rules, the version is empty, no schema is given,
// schema names collide, or a schema's foreign key names this contract as its
// resource (self-references must leave the resource empty).
func NewContract(name, version string, schemas []NamedSchema, opts ...ContractOption) (*Contract, error) {
	if err := checkContractName(name); err != nil {
		return nil, err
	}
	if version == "" {
		return nil, defErr(CodeInvalidContract, name, "contract version must not be empty")
	}
	if len(schemas) == 0 {
		return nil, defErr(CodeInvalidContract, name, "contract needs at least one schema")
	}
	c := &Contract{
		name:    name,
		version: version,
		schemas: append([]NamedSchema{}, schemas...),
		index:   make(map[string]int, len(schemas)),
	}
	for i, ns := range c.schemas {
		if ns.Name == "" {
			return nil, defErr(CodeInvalidContract, name, "schema %d has no name", i)
		}
		if ns.Schema == nil {
			return nil, defErr(CodeInvalidContract, ns.Name, "schema is nil")
		}
		if _, dup := c.index[ns.Name]; dup {
			return nil, defErr(CodeInvalidContract, ns.Name, "schema declared twice")
		}
		c.index[ns.Name] = i
		for _, fk := range ns.Schema.foreignKeys {
			if fk.Reference.Resource == name {
				return nil, defErr(CodeInvalidForeignKey, strings.Join(fk.Fields, ","),
					"foreign key resource must not name the contract itself; leave it empty for self-references")
			}
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func checkContractName(name string) error {
	if name == "" {
		return defErr(CodeInvalidContract, "", "contract name must not be empty")
	}
	if len(name) > maxNameLength {
		return defErr(CodeInvalidContract, name, "contract name exceeds %d characters", maxNameLength)
	}
	if !nameRE.MatchString(name) {
		return defErr(CodeInvalidContract, name, "contract name may contain only alphanumerics, underscores and hyphens")
	}
	return nil
}

// Name returns the contract's unique identifier.
func (c *Contract) Name() string { return c.name }

// Version returns the contract version.
func (c *Contract) Version() string { return c.version }

// Title returns the display title, possibly empty.
func (c *Contract) Title() string { return c.title }

// Description returns the long-form description, possibly empty.
func (c *Contract) Description() string { return c.description }

// Tags returns the categorization tags.
func (c *Contract) Tags() []string { return append([]string{}, c.tags...) }

// Schemas returns the named schemas in declaration order.
func (c *Contract) Schemas() []NamedSchema { return append([]NamedSchema{}, c.schemas...) }

// Schema looks up a schema by name.
func (c *Contract) Schema(name string) (*TableSchema, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.schemas[i].Schema, true
}

// WithSchema returns a copy of the contract with the named schema added or
// replaced. The receiver is left untouched.
func (c *Contract) WithSchema(name string, s *TableSchema) (*Contract, error) {
	schemas := c.Schemas()
	if i, ok := c.index[name]; ok {
		schemas[i] = NamedSchema{Name: name, Schema: s}
	} else {
		schemas = append(schemas, NamedSchema{Name: name, Schema: s})
	}
	return NewContract(c.name, c.version,
		schemas,
		WithTitle(c.title),
		WithDescription(c.description),
		WithContractTags(c.tags...),
	)
}

// WithVersion returns a copy of the contract under a new version.
func (c *Contract) WithVersion(version string) (*Contract, error) {
	return NewContract(c.name, version,
		c.Schemas(),
		WithTitle(c.title),
		WithDescription(c.description),
		WithContractTags(c.tags...),
	)
}

// LoadContract reads a contract from a YAML or JSON file, dispatched on the
// file extension.
func LoadContract(path string) (*Contract, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err := codecParseContract(b, false)
		if err != nil {
			return nil, err
		}
		return DecodeContract(doc)
	case ".yaml", ".yml":
		doc, err := codecParseContract(b, true)
		if err != nil {
			return nil, err
		}
		return DecodeContract(doc)
	}
	return nil, fmt.Errorf("load contract %s: only .json, .yaml and .yml are supported", path)
}
