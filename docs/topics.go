// Package docs holds the user manual of pcs, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var manual embed.FS

// Index is the topic listing all the others.
const Index = "readme"

// Topic returns the markdown content of a topic.
func Topic(name string) (string, error) {
	content, err := manual.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the content of several topics, in order. "*" expands to
// every topic but the index.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			expanded = All()
		}
		for _, n := range expanded {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// All returns the sorted names of every topic but the index.
func All() []string {
	var topics []string
	entries, _ := fs.ReadDir(manual, ".")
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if !e.IsDir() && name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}
