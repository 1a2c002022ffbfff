package profile

import (
	"fmt"

	"github.com/arthur-debert/dotty/pkg/types"
	"gopkg.in/yaml.v3"
)

// Document is the persisted profiles file:
//
//	current_profile: work
//	profiles:
//	  work:
//	    current_target: dots
//	    repositories:
//	      dots:
//	        url: git@example.com:me/dots.git
type Document struct {
	CurrentProfile string   `yaml:"current_profile,omitempty"`
	Profiles       Profiles `yaml:"profiles"`
}

// Profile is one named collection of repositories
type Profile struct {
	Name          string       `yaml:"-"`
	CurrentTarget string       `yaml:"current_target,omitempty"`
	Repositories  Repositories `yaml:"repositories,omitempty"`
}

// RepositoryEntry is a persisted repository
type RepositoryEntry struct {
	Name string `yaml:"-"`
	URL  string `yaml:"url"`
}

// Profiles is a name-keyed mapping kept in document order
type Profiles []Profile

// Repositories is a name-keyed mapping kept in document order
type Repositories []RepositoryEntry

// Index returns the position of name, or -1
func (ps Profiles) Index(name string) int {
	for i, p := range ps {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Names returns profile names in document order
func (ps Profiles) Names() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

// Index returns the position of name, or -1
func (rs Repositories) Index(name string) int {
	for i, r := range rs {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// MarshalYAML renders the profiles as a mapping keyed by name
func (ps Profiles) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range ps {
		value := &yaml.Node{}
		if err := value.Encode(p); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode(p.Name), value)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keyed by profile name
func (ps *Profiles) UnmarshalYAML(value *yaml.Node) error {
	*ps = nil
	return eachPair(value, "profiles", func(name string, v *yaml.Node) error {
		p := Profile{Name: name}
		if !isNull(v) {
			if err := v.Decode(&p); err != nil {
				return fmt.Errorf("profile %q: %w", name, err)
			}
			p.Name = name
		}
		*ps = append(*ps, p)
		return nil
	})
}

// MarshalYAML renders the repositories as a mapping keyed by name
func (rs Repositories) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, r := range rs {
		value := &yaml.Node{}
		if err := value.Encode(r); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode(r.Name), value)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keyed by repository name
func (rs *Repositories) UnmarshalYAML(value *yaml.Node) error {
	*rs = nil
	return eachPair(value, "repositories", func(name string, v *yaml.Node) error {
		r := RepositoryEntry{Name: name}
		if !isNull(v) {
			if err := v.Decode(&r); err != nil {
				return fmt.Errorf("repository %q: %w", name, err)
			}
			r.Name = name
		}
		*rs = append(*rs, r)
		return nil
	})
}

// Validate checks every stored name
func (d *Document) Validate() error {
	for _, p := range d.Profiles {
		if err := types.ValidateName("profile", p.Name); err != nil {
			return err
		}
		for _, r := range p.Repositories {
			if err := types.ValidateName("repository", r.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func keyNode(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// eachPair walks a mapping node in order, rejecting duplicate keys
func eachPair(value *yaml.Node, what string, fn func(key string, v *yaml.Node) error) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", value.Line, what)
	}
	seen := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if seen[key] {
			return fmt.Errorf("line %d: duplicate %s entry %q", value.Content[i].Line, what, key)
		}
		seen[key] = true
		if err := fn(key, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
