// Package parser provides Markdown parsing and content extraction.
package parser

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkdownDoc represents a parsed Markdown document.
type MarkdownDoc struct {
	// Frontmatter metadata (from YAML)
	Frontmatter map[string]any

	// Title extracted from first h1 or frontmatter
	Title string

	// Main content (after frontmatter)
	Content string
}

var (
	h1Regex   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	linkRegex = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	tagRegex  = regexp.MustCompile(`(^|\s)#([a-zA-Z][a-zA-Z0-9/_-]*)`)
)

// ParseMarkdown parses a Markdown document into structured form.
func ParseMarkdown(content string) (*MarkdownDoc, error) {
	doc := &MarkdownDoc{
		Frontmatter: make(map[string]any),
	}

	// Parse frontmatter if present
	remaining := content
	if strings.HasPrefix(content, "---\n") {
		endIdx := strings.Index(content[4:], "\n---")
		if endIdx > 0 {
			frontmatterYAML := content[4 : 4+endIdx]
			remaining = strings.TrimPrefix(content[4+endIdx+4:], "\n")

			if err := yaml.Unmarshal([]byte(frontmatterYAML), &doc.Frontmatter); err != nil {
				// Ignore YAML errors, just use empty frontmatter
				doc.Frontmatter = make(map[string]any)
			}
		}
	}

	doc.Content = remaining
	doc.Title = extractTitle(doc.Frontmatter, remaining)

	return doc, nil
}

// extractTitle gets title from frontmatter or first h1.
func extractTitle(fm map[string]any, content string) string {
	if title, ok := fm["title"].(string); ok && title != "" {
		return title
	}
	if name, ok := fm["name"].(string); ok && name != "" {
		return name
	}

	if match := h1Regex.FindStringSubmatch(content); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}

	return ""
}

// GetFrontmatterString extracts a string from frontmatter.
func (d *MarkdownDoc) GetFrontmatterString(key string) string {
	if v, ok := d.Frontmatter[key].(string); ok {
		return v
	}
	return ""
}

// GetFrontmatterStringSlice extracts a string slice from frontmatter.
func (d *MarkdownDoc) GetFrontmatterStringSlice(key string) []string {
	switch v := d.Frontmatter[key].(type) {
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// ExtractWikiLinks finds [[wiki-style]] links in content.
func ExtractWikiLinks(content string) []string {
	matches := linkRegex.FindAllStringSubmatch(content, -1)

	links := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, match := range matches {
		link := strings.TrimSpace(match[1])
		if link != "" && !seen[link] {
			links = append(links, link)
			seen[link] = true
		}
	}
	return links
}

// ExtractInlineTags finds #tags in content.
func ExtractInlineTags(content string) []string {
	matches := tagRegex.FindAllStringSubmatch(content, -1)

	tags := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, match := range matches {
		tag := strings.ToLower(match[2])
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return tags
}
