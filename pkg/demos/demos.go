// Package demos loads the catalog of example prompts and icons.
//
// A catalog is a JSON document:
//
//	{"demos": [{"title": "...", "description": "...", "prompt": "...", "svg": "<svg ...>"}]}
//
// It is read once at startup from a file, an http(s) URL, or the catalog
// built into the binary. A missing or malformed catalog degrades to an
// empty one; the error is returned alongside so the caller can show it.
package demos

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/matzehuels/sketchreveal/pkg/httputil"
)

//go:embed demos.json
var builtin []byte

// Demo is one catalog card.
type Demo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	SVG         string `json:"svg"`
}

// Catalog is an ordered list of demos.
type Catalog struct {
	Demos []Demo `json:"demos"`
}

// Len returns the number of demos.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Demos)
}

// Get returns demo i.
func (c *Catalog) Get(i int) (Demo, error) {
	if i < 0 || i >= c.Len() {
		return Demo{}, fmt.Errorf("demo %d out of range (have %d)", i, c.Len())
	}
	return c.Demos[i], nil
}

// Find returns the first demo whose title matches case-insensitively.
func (c *Catalog) Find(title string) (Demo, int, bool) {
	for i, d := range c.Demos {
		if strings.EqualFold(d.Title, strings.TrimSpace(title)) {
			return d, i, true
		}
	}
	return Demo{}, -1, false
}

// Read decodes a catalog from r. r is not closed.
func Read(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return &Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if c.Demos == nil {
		return &Catalog{}, fmt.Errorf("decode catalog: missing \"demos\" array")
	}
	return &c, nil
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := Read(bytes.NewReader(builtin))
	if err != nil {
		panic("demos: invalid builtin catalog: " + err.Error())
	}
	return c
}

// Load reads a catalog from src: "" for the builtin catalog, an http(s)
// URL, or a file path. On failure it returns an empty catalog and the
// error.
func Load(ctx context.Context, src string) (*Catalog, error) {
	switch {
	case src == "":
		return Builtin(), nil
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return loadURL(ctx, httputil.NewClient(0), src)
	default:
		return loadFile(src)
	}
}

func loadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Catalog{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func loadURL(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	var c *Catalog
	err := httputil.DefaultBackoff.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return httputil.Transient(fmt.Errorf("fetch catalog: %w", err))
		}
		defer resp.Body.Close()
		if err := httputil.CheckStatus(resp); err != nil {
			return fmt.Errorf("fetch catalog: %w", err)
		}
		c, err = Read(resp.Body)
		return err
	})
	if err != nil {
		return &Catalog{}, err
	}
	return c, nil
}
