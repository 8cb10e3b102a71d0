package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/parser"
)

// ProgressFunc reports scan progress as documents are parsed.
type ProgressFunc func(done, total int)

// Scanner builds the in-memory document index for one vault.
//
// Scanning is the only I/O boundary of the engine: everything downstream
// (scoring, duplicate detection, layout) operates on the returned snapshot.
type Scanner struct {
	fs       afero.Fs
	root     string
	skipDirs map[string]struct{}
	logger   *slog.Logger
	progress ProgressFunc
}

// NewScanner creates a scanner rooted at the vault directory. skipDirs are
// directory names excluded from traversal, matched case-insensitively.
func NewScanner(fs afero.Fs, root string, skipDirs []string, logger *slog.Logger) *Scanner {
	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		skip[strings.ToLower(d)] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		fs:       fs,
		root:     filepath.Clean(root),
		skipDirs: skip,
		logger:   logger,
	}
}

// SetProgress installs an optional progress callback invoked once per
// parsed document.
func (s *Scanner) SetProgress(fn ProgressFunc) {
	s.progress = fn
}

// Root returns the vault root path.
func (s *Scanner) Root() string {
	return s.root
}

// ResolveScope validates a vault-relative scope and returns its absolute
// path. An empty scope means the whole vault.
func (s *Scanner) ResolveScope(scope string) (string, error) {
	if scope == "" || scope == "." {
		return s.root, nil
	}
	if filepath.IsAbs(scope) {
		return "", fmt.Errorf("%w: %s", ErrScopeOutsideVault, scope)
	}

	full := filepath.Join(s.root, filepath.Clean(scope))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrScopeOutsideVault, scope)
	}

	info, err := s.fs.Stat(full)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrScopeNotFound, scope)
	}
	return full, nil
}

// Scan walks the scope and parses every markdown document into a Note.
// Unreadable or malformed documents are skipped, never fatal.
func (s *Scanner) Scan(scope string) ([]models.Note, error) {
	dir, err := s.ResolveScope(scope)
	if err != nil {
		return nil, err
	}

	paths, err := s.collectPaths(dir)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	notes := make([]models.Note, 0, len(paths))
	for i, p := range paths {
		note, err := s.readNote(p)
		if err != nil {
			s.logger.Debug("skipping unreadable document", "path", p, "error", err)
		} else {
			notes = append(notes, note)
		}
		if s.progress != nil {
			s.progress(i+1, len(paths))
		}
	}

	s.logger.Debug("vault scan complete", "scope", scope, "documents", len(notes), "skipped", len(paths)-len(notes))
	return notes, nil
}

// collectPaths gathers markdown file paths under dir, honoring skipDirs.
func (s *Scanner) collectPaths(dir string) ([]string, error) {
	var paths []string
	err := afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// A single unreadable subtree is not fatal.
			s.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			if path != dir {
				if _, skip := s.skipDirs[strings.ToLower(info.Name())]; skip {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// readNote parses one markdown file into a Note.
func (s *Scanner) readNote(path string) (models.Note, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return models.Note{}, err
	}

	doc, err := parser.ParseMarkdown(string(data))
	if err != nil {
		return models.Note{}, err
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	title := doc.Title
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	folder := dirOrEmpty(rel)

	return models.Note{
		Path:         rel,
		Title:        title,
		Tags:         collectTags(doc),
		Links:        collectLinks(doc),
		Properties:   doc.Frontmatter,
		Folder:       folder,
		ParentFolder: dirOrEmpty(folder),
	}, nil
}

func dirOrEmpty(p string) string {
	d := filepath.ToSlash(filepath.Dir(p))
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// collectTags merges frontmatter tags and inline #tags, normalized
// lowercase, first occurrence order preserved.
func collectTags(doc *parser.MarkdownDoc) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(raw string) {
		tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
		if tag != "" && !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}

	for _, t := range doc.GetFrontmatterStringSlice("tags") {
		add(t)
	}
	for _, t := range parser.ExtractInlineTags(doc.Content) {
		add(t)
	}
	return tags
}

// collectLinks extracts wiki links with targets normalized to stems.
func collectLinks(doc *parser.MarkdownDoc) []string {
	var links []string
	seen := make(map[string]bool)
	for _, raw := range parser.ExtractWikiLinks(doc.Content) {
		target := models.NormalizeLinkTarget(raw)
		if target != "" && !seen[target] {
			links = append(links, target)
			seen[target] = true
		}
	}
	return links
}
