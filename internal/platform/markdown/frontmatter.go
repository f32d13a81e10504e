package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Frontmatter is the YAML block at the top of a note. It keeps the source key
// order and leaves keys it was not asked to touch exactly as parsed.
type Frontmatter struct {
	root *yaml.Node
}

func NewFrontmatter() *Frontmatter {
	return &Frontmatter{root: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// SplitFrontmatter separates the leading frontmatter block from the note body.
// Content without a block yields an empty Frontmatter and the whole content as body.
func SplitFrontmatter(content string) (*Frontmatter, string, error) {
	if !strings.HasPrefix(content, separator) {
		return NewFrontmatter(), content, nil
	}
	rest := strings.TrimPrefix(content, separator)

	var raw, body string
	switch {
	case strings.HasPrefix(rest, separator):
		body = strings.TrimPrefix(rest, separator)
	case rest == "---":
	default:
		idx := strings.Index(rest, "\n---\n")
		switch {
		case idx >= 0:
			raw = rest[:idx]
			body = rest[idx+len("\n---\n"):]
		case strings.HasSuffix(rest, "\n---"):
			raw = strings.TrimSuffix(rest, "\n---")
		default:
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
	}

	fm := NewFrontmatter()
	if strings.TrimSpace(raw) == "" {
		return fm, body, nil
	}
	doc := yaml.Node{}
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fm, body, nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("invalid frontmatter: expected a mapping")
	}
	fm.root = doc.Content[0]
	return fm, body, nil
}

// Get returns the raw scalar text stored under key.
func (f *Frontmatter) Get(key string) (string, bool) {
	idx := f.index(key)
	if idx < 0 {
		return "", false
	}
	value := f.root.Content[idx+1]
	if value.Kind != yaml.ScalarNode {
		return "", false
	}
	return value.Value, true
}

func (f *Frontmatter) Has(key string) bool {
	return f.index(key) >= 0
}

// Set writes a plain scalar, replacing the value in place when the key exists.
func (f *Frontmatter) Set(key, value string) {
	scalar := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if idx := f.index(key); idx >= 0 {
		f.root.Content[idx+1] = scalar
		return
	}
	f.root.Content = append(f.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		scalar,
	)
}

func (f *Frontmatter) Delete(key string) bool {
	idx := f.index(key)
	if idx < 0 {
		return false
	}
	f.root.Content = append(f.root.Content[:idx], f.root.Content[idx+2:]...)
	return true
}

func (f *Frontmatter) Keys() []string {
	keys := make([]string, 0, len(f.root.Content)/2)
	for i := 0; i+1 < len(f.root.Content); i += 2 {
		keys = append(keys, f.root.Content[i].Value)
	}
	return keys
}

func (f *Frontmatter) Len() int {
	return len(f.root.Content) / 2
}

func (f *Frontmatter) index(key string) int {
	for i := 0; i+1 < len(f.root.Content); i += 2 {
		if f.root.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// RenderFrontmatter joins the block and body back into a note. An empty block
// is dropped so the note is left with its body only.
func RenderFrontmatter(fm *Frontmatter, body string) (string, error) {
	if fm == nil || fm.Len() == 0 {
		return body, nil
	}
	raw := bytes.Buffer{}
	enc := yaml.NewEncoder(&raw)
	enc.SetIndent(2)
	if err := enc.Encode(fm.root); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw.Bytes())
	buf.WriteString(separator)
	buf.WriteString(body)
	return buf.String(), nil
}
