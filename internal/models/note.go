// Package models defines data structures for the vaultmap engine.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// Note is one indexed vault document. All fields are built once by the
// scanner and never mutated afterwards; Path is unique per invocation.
type Note struct {
	Path         string         `json:"path"`
	Title        string         `json:"title"`
	Tags         []string       `json:"tags,omitempty"`
	Links        []string       `json:"links,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
	Folder       string         `json:"folder"`
	ParentFolder string         `json:"parent_folder"`
}

// ClassProperty is the frontmatter key holding a note's declared class.
const ClassProperty = "class"

// ValueProperties is the allow-list of frontmatter keys whose values count
// toward relationship scoring, in the order reasons are emitted.
var ValueProperties = []string{"type", "status", "area", "project", "topic", "category", "source", "author"}

// Class returns the declared class property lowercased, or "" when absent
// or not a scalar.
func (n Note) Class() string {
	v, ok := n.Properties[ClassProperty]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// ValueSet normalizes a loosely-typed frontmatter value (scalar, list, or
// absent) into a sorted, deduplicated set of lowercase strings. This is the
// single canonical view shared by the scorer and the duplicate detector.
func ValueSet(v any) []string {
	seen := make(map[string]struct{})
	add := func(item any) {
		s := strings.ToLower(strings.TrimSpace(scalarString(item)))
		if s != "" {
			seen[s] = struct{}{}
		}
	}

	switch val := v.(type) {
	case nil:
	case []any:
		for _, item := range val {
			add(item)
		}
	case []string:
		for _, item := range val {
			add(item)
		}
	default:
		add(val)
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// ToSet converts a normalized string slice into a membership set.
func ToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

// Intersect returns the sorted intersection of a slice with a set.
func Intersect(items []string, set map[string]struct{}) []string {
	var shared []string
	for _, s := range items {
		if _, ok := set[s]; ok {
			shared = append(shared, s)
		}
	}
	sort.Strings(shared)
	return shared
}

// SetsEqual reports whether two normalized string slices contain the same
// members, ignoring order.
func SetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := ToSet(b)
	for _, s := range a {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
