// ABOUTME: Core MarkdownStore struct and helpers for file-based oneblog storage
// ABOUTME: Posts are markdown files with YAML frontmatter; topics live in a YAML registry

package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkdownStore provides file-based storage using markdown files and YAML.
//
// Layout:
//
//	<dataDir>/posts/<post-id>.md   one post per file, frontmatter + markdown body
//	<dataDir>/_topics.yaml         every topic record in insertion order
type MarkdownStore struct {
	dataDir string
	// mu serialises read-modify-write cycles on the topic registry and post files.
	mu sync.Mutex
}

// Compile-time check that MarkdownStore implements Store.
var _ Store = (*MarkdownStore)(nil)

// NewMarkdownStore creates a new markdown-backed store rooted at dataDir.
func NewMarkdownStore(dataDir string) (*MarkdownStore, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, "posts"), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &MarkdownStore{dataDir: dataDir}, nil
}

// Close releases resources. For MarkdownStore this is a no-op.
func (s *MarkdownStore) Close() error {
	return nil
}

func (s *MarkdownStore) postsDir() string {
	return filepath.Join(s.dataDir, "posts")
}

func (s *MarkdownStore) topicsFilePath() string {
	return filepath.Join(s.dataDir, "_topics.yaml")
}

const frontmatterDelim = "---"

// parseFrontmatter splits a document into its YAML frontmatter and body.
// Returns an empty frontmatter when the document does not open with a delimiter.
func parseFrontmatter(doc string) (string, string) {
	if !strings.HasPrefix(doc, frontmatterDelim+"\n") {
		return "", doc
	}
	rest := doc[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end == -1 {
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			return rest[:len(rest)-len(frontmatterDelim)-1], ""
		}
		return "", doc
	}
	return rest[:end], rest[end+len(frontmatterDelim)+2:]
}

// renderFrontmatter renders v as YAML frontmatter followed by body.
func renderFrontmatter(v interface{}, body string) ([]byte, error) {
	fm, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(frontmatterDelim + "\n")
	buf.Write(fm)
	buf.WriteString(frontmatterDelim + "\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// readYAML decodes path into v. A missing file leaves v untouched.
func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, v)
}

// writeYAML encodes v and writes it atomically to path.
func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a temp file in the target directory and renames
// it into place so readers never observe a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
