// Package tiled parses TMX map documents and TSX tileset documents into
// strongly typed values for game and rendering code.
package tiled

import (
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Option configures file loading and external tileset resolution.
type Option func(*parser)

// WithFileSystem routes file access through fsys instead of the OS
// filesystem. Paths are then slash-separated fs.FS paths.
func WithFileSystem(fsys fs.FS) Option {
	return func(p *parser) {
		p.fsys = fsys
	}
}

// Parse reads a map document from r. The parse has no location context, so
// maps referencing external tilesets fail with ErrNoSourceLocation; use
// ParseWithPath or ParseFile for those.
func Parse(r io.Reader) (*Map, error) {
	p := &parser{dec: xml.NewDecoder(r)}
	return p.parseMapDocument()
}

// ParseWithPath reads a map document from r as if it lived at path, which
// anchors relative external tileset references.
func ParseWithPath(r io.Reader, path string, opts ...Option) (*Map, error) {
	p := &parser{dec: xml.NewDecoder(r), path: path}
	for _, opt := range opts {
		opt(p)
	}
	return p.parseMapDocument()
}

// ParseFile opens and parses the map document at path.
func ParseFile(path string, opts ...Option) (*Map, error) {
	p := &parser{path: path}
	for _, opt := range opts {
		opt(p)
	}
	f, err := openPath(p.fsys, path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	defer f.Close()
	p.dec = xml.NewDecoder(f)
	return p.parseMapDocument()
}

// ParseTileset reads a standalone tileset document from r. The caller
// supplies the first global id its map assigns to the tileset.
func ParseTileset(r io.Reader, firstGID uint32) (*Tileset, error) {
	p := &parser{dec: xml.NewDecoder(r)}
	ts, err := p.parseExternalTileset(firstGID)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// ParseTilesetFile opens and parses the tileset document at path.
func ParseTilesetFile(path string, firstGID uint32, opts ...Option) (*Tileset, error) {
	p := &parser{path: path}
	for _, opt := range opts {
		opt(p)
	}
	f, err := openPath(p.fsys, path)
	if err != nil {
		return nil, &FileNotFoundError{Path: path, Err: err}
	}
	defer f.Close()
	p.dec = xml.NewDecoder(f)
	ts, err := p.parseExternalTileset(firstGID)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// parseMapDocument scans for the root <map> element and builds it.
func (p *parser) parseMapDocument() (*Map, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &PrematureEndError{Context: "document ended before a map was found"}
			}
			return nil, &XMLDecodingError{Err: err}
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "map" {
			return p.parseMap(start)
		}
	}
}

// openPath opens name through fsys, or the OS filesystem when fsys is nil.
func openPath(fsys fs.FS, name string) (io.ReadCloser, error) {
	if fsys != nil {
		return fsys.Open(name)
	}
	return os.Open(name)
}

// resolveRelative joins a reference source against the directory of the
// document that referenced it, using fs.FS slash semantics when a
// filesystem is set and native path semantics otherwise.
func resolveRelative(fsys fs.FS, base, source string) string {
	if fsys != nil {
		return path.Join(path.Dir(filepath.ToSlash(base)), source)
	}
	return filepath.Join(filepath.Dir(base), source)
}
