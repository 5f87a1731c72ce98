// Package seeds holds the data seeded by the RBAC bootstrap.
package seeds

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"adpilot/internal/domain/permission"
)

//go:embed rbac_catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Permissions []permissionEntry `yaml:"permissions"`
	Roles       []roleEntry       `yaml:"roles"`
}

type permissionEntry struct {
	Resource    string `yaml:"resource"`
	Action      string `yaml:"action"`
	Description string `yaml:"description"`
}

type roleEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	System      bool     `yaml:"system"`
	Permissions []string `yaml:"permissions"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*permission.Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file, falling back to the embedded one when
// path is empty.
func LoadCatalog(path string) (*permission.Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog. Unknown keys are rejected.
func ParseCatalog(data []byte) (*permission.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	catalog := &permission.Catalog{
		Permissions: make([]permission.PermissionSpec, 0, len(file.Permissions)),
		Roles:       make([]permission.RoleSpec, 0, len(file.Roles)),
	}
	for _, p := range file.Permissions {
		catalog.Permissions = append(catalog.Permissions, permission.PermissionSpec{
			Resource:    p.Resource,
			Action:      p.Action,
			Description: p.Description,
		})
	}
	for _, r := range file.Roles {
		catalog.Roles = append(catalog.Roles, permission.RoleSpec{
			Name:        r.Name,
			Description: r.Description,
			IsSystem:    r.System,
			Permissions: r.Permissions,
		})
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}
