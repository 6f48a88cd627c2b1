package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// lineSchema describes one persisted entry. Unknown fields are allowed so
// that newer files can still be read.
const lineSchema = `{
  "type": "object",
  "required": ["id", "content", "created_at", "last_accessed"],
  "properties": {
    "id":            {"type": "string", "minLength": 1},
    "content":       {"type": "string"},
    "tags":          {"type": ["array", "null"], "items": {"type": "string"}},
    "source":        {"type": ["string", "null"]},
    "created_at":    {"type": "string", "format": "date-time"},
    "last_accessed": {"type": "string", "format": "date-time"},
    "score":         {"type": "number"}
  }
}`

var schema = mustSchema(lineSchema)

func mustSchema(s string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("file: invalid line schema: %v", err))
	}
	return compiled
}

// record is the on-disk form of an entry.
type record struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	Source       *string   `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	Score        float64   `json:"score"`
}

func toRecord(e *storage.Entry) record {
	r := record{
		ID:           e.ID,
		Content:      e.Content,
		Tags:         e.Tags,
		CreatedAt:    e.CreatedAt,
		LastAccessed: e.LastAccessed,
		Score:        e.Score,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if e.Source != "" {
		src := e.Source
		r.Source = &src
	}
	return r
}

func (r record) entry() *storage.Entry {
	e := &storage.Entry{
		ID:           r.ID,
		Content:      r.Content,
		Tags:         r.Tags,
		CreatedAt:    r.CreatedAt,
		LastAccessed: r.LastAccessed,
	}
	if r.Source != nil {
		e.Source = *r.Source
	}
	return e
}

// encode renders entries as JSON lines in order.
func encode(entries []*storage.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		// Encode appends the trailing newline.
		if err := enc.Encode(toRecord(e)); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	return buf.Bytes(), nil
}

// decodeLine validates and decodes one persisted line.
func decodeLine(line []byte) (*storage.Entry, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return nil, err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema validation errors: %s", strings.Join(msgs, "; "))
	}

	var r record
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, err
	}
	return r.entry(), nil
}

// load reads the backing file into memory. It is called once from NewClient.
func (c *Client) load() error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug().Msg("memory file not found, starting empty")
		return nil
	}
	if err != nil {
		return &storage.Error{Op: "load", Path: c.path, Err: err}
	}

	skipped := 0
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		e, err := decodeLine(line)
		if err != nil {
			skipped++
			c.logger.Warn().Err(err).Int("line", i+1).Msg("skipping corrupted memory entry")
			continue
		}
		c.entries.Upsert(e)
	}

	c.logger.Debug().Int("count", c.entries.Len()).Int("skipped", skipped).Msg("memory file loaded")
	return nil
}
