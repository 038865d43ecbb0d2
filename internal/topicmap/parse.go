package topicmap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

const (
	keyName    = "Name"
	keyDir     = "Dir"
	keyFile    = "File"
	keyDistros = "Distros"
	keyTopics  = "Topics"
	keyAlias   = "Alias"
)

type parser struct {
	source string
	opts   Options
}

// Parse builds a topic tree from topic map YAML. The input is either a
// stream of group documents or a single document holding a sequence of groups.
func Parse(data []byte, source string, opts Options) (*Tree, error) {
	opts = opts.withDefaults()
	p := &parser{source: source, opts: opts}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var roots []*Entity
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, p.fail(fmt.Sprintf("invalid YAML: %v", err))
		}
		if len(doc.Content) == 0 {
			continue
		}
		node := doc.Content[0]
		switch node.Kind {
		case yaml.MappingNode:
			e, err := p.entity(node, nil, 0)
			if err != nil {
				return nil, err
			}
			roots = append(roots, e)
		case yaml.SequenceNode:
			for _, item := range node.Content {
				e, err := p.entity(item, nil, 0)
				if err != nil {
					return nil, err
				}
				roots = append(roots, e)
			}
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				continue
			}
			return nil, p.fail(fmt.Sprintf("line %d: expected a topic group, got a scalar", node.Line))
		default:
			return nil, p.fail(fmt.Sprintf("line %d: expected a topic group", node.Line))
		}
	}
	if len(roots) == 0 {
		return nil, p.fail("topic map contains no topic groups")
	}
	return newTree(source, roots, opts), nil
}

func (p *parser) fail(msg string) error {
	return ferrors.ConfigError(fmt.Sprintf("Error parsing '%s': %s", p.source, msg)).
		UserAction().
		WithContext("file", p.source).
		Build()
}

func (p *parser) entity(node *yaml.Node, parent *Entity, depth int) (*Entity, error) {
	if node.Kind != yaml.MappingNode {
		return nil, p.fail(fmt.Sprintf("line %d: topic map entries must be mappings", node.Line))
	}
	e := &Entity{parent: parent, depth: depth, line: node.Line}

	var (
		hasDir, hasFile, hasTopics, hasDistros bool
		distrosRaw                             string
		topics                                 *yaml.Node
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if key == keyTopics {
			hasTopics = true
			topics = val
			continue
		}
		if key == keyDistros && val.Kind == yaml.SequenceNode {
			hasDistros = true
			parts := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				parts = append(parts, item.Value)
			}
			distrosRaw = strings.Join(parts, ",")
			continue
		}
		s, err := p.scalar(val, key)
		if err != nil {
			return nil, err
		}
		switch key {
		case keyName:
			e.Name = s
		case keyDir:
			hasDir = true
			e.Dir = s
		case keyFile:
			hasFile = true
			e.File = s
		case keyAlias:
			e.Alias = strings.TrimSpace(s)
		case keyDistros:
			hasDistros = true
			distrosRaw = s
		default:
			e.unknownKeys = append(e.unknownKeys, key)
		}
	}

	switch {
	case hasFile && (hasDir || hasTopics):
		e.kind = KindInvalid
	case hasDir || hasTopics:
		e.kind = KindGroup
	case hasFile && e.Alias != "":
		e.kind = KindAlias
	case hasFile:
		e.kind = KindTopic
	default:
		e.kind = KindInvalid
	}

	// Unfiltered entries inherit the parent's keys; explicit filters narrow them.
	switch {
	case hasDistros:
		e.distros, e.unknownDistros = ResolveDistros(distrosRaw, p.opts.DistroKeys)
		if parent != nil {
			e.distros = e.distros.Intersect(parent.distros)
		}
	case parent != nil:
		e.distros = parent.distros.Clone()
	default:
		e.distros, _ = ResolveDistros("", p.opts.DistroKeys)
	}

	e.derive(p.opts.SourceExtension)

	if e.kind == KindGroup && topics != nil {
		if topics.Kind == yaml.ScalarNode && topics.Tag == "!!null" {
			return e, nil
		}
		if topics.Kind != yaml.SequenceNode {
			return nil, p.fail(fmt.Sprintf("line %d: 'Topics' must be a list", topics.Line))
		}
		for _, item := range topics.Content {
			child, err := p.entity(item, e, depth+1)
			if err != nil {
				return nil, err
			}
			e.children = append(e.children, child)
		}
	}
	return e, nil
}

func (p *parser) scalar(node *yaml.Node, key string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", p.fail(fmt.Sprintf("line %d: '%s' must be a string", node.Line, key))
	}
	if node.Tag == "!!null" {
		return "", nil
	}
	return node.Value, nil
}
