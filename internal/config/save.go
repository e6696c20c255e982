package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AddRegistry appends a registry declaration to the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
// Fails if a registry with the same name is already declared.
func AddRegistry(configPath string, reg RegistryConfig) error {
	if err := ValidateRegistries([]RegistryConfig{reg}); err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	var regNode yaml.Node
	if err := regNode.Encode(reg); err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{Kind: yaml.MappingNode},
			},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: root is not a mapping")
	}
	root := doc.Content[0]

	list := findKey(root, "registries")
	if list == nil {
		list = &yaml.Node{Kind: yaml.SequenceNode}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "registries"},
			list,
		)
	}
	if list.Kind != yaml.SequenceNode {
		// "registries:" with no value parses as null
		*list = yaml.Node{Kind: yaml.SequenceNode}
	}

	for _, item := range list.Content {
		if name := findKey(item, "name"); name != nil && name.Value == reg.Name {
			return fmt.Errorf("registry %s is already declared", reg.Name)
		}
	}
	list.Content = append(list.Content, &regNode)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// findKey returns the value node for key in a mapping node, or nil.
func findKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
