package tiled

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// dataCodec is the encoding/compression pair declared on a data element and
// shared by every chunk inside it.
type dataCodec struct {
	encoding    string
	compression string
}

func readDataCodec(e xml.StartElement) (dataCodec, error) {
	var c dataCodec
	err := scanAttrs(e.Attr, "data attributes could not be read", []attrField{
		{name: "encoding", parse: stringAttr(&c.encoding)},
		{name: "compression", parse: stringAttr(&c.compression)},
	})
	return c, err
}

// check validates the pair against the supported matrix before any content
// is read.
func (c dataCodec) check() error {
	switch {
	case c.encoding == "" && c.compression == "":
		return fmt.Errorf("XML tile element data is currently not supported, use base64 or csv encoding")
	case c.encoding == "base64":
		switch c.compression {
		case "", "zlib", "gzip", "zstd":
			return nil
		}
	case c.encoding == "csv" && c.compression == "":
		return nil
	}
	return &UnknownEncodingError{Encoding: c.encoding, Compression: c.compression}
}

// parseFiniteData decodes a <data> element into a dense grid of rows as
// wide as the map.
func (p *parser) parseFiniteData(e xml.StartElement, width int) (FiniteData, error) {
	codec, err := readDataCodec(e)
	if err != nil {
		return nil, err
	}
	if err := codec.check(); err != nil {
		return nil, err
	}
	if codec.encoding == "csv" {
		text, err := p.readText("data")
		if err != nil {
			return nil, err
		}
		rows, err := decodeCSV(text, width)
		if err != nil {
			return nil, err
		}
		return FiniteData(rows), nil
	}
	raw, err := p.decodeBytes(codec, "data")
	if err != nil {
		return nil, err
	}
	rows, err := convertToTiles(raw, width)
	if err != nil {
		return nil, err
	}
	return FiniteData(rows), nil
}

// parseInfiniteData decodes a chunked <data> element. Every chunk reuses
// the data element's encoding and compression but decodes with its own
// width. Chunks repeating an origin overwrite the earlier one.
func (p *parser) parseInfiniteData(e xml.StartElement) (InfiniteData, error) {
	codec, err := readDataCodec(e)
	if err != nil {
		return nil, err
	}
	if err := codec.check(); err != nil {
		return nil, err
	}
	chunks := make(InfiniteData)
	err = p.walk("data", map[string]elementHandler{
		"chunk": func(e xml.StartElement) error {
			c, err := p.parseChunk(e, codec)
			if err != nil {
				return err
			}
			chunks[ChunkCoord{X: c.X, Y: c.Y}] = c
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func (p *parser) parseChunk(e xml.StartElement, codec dataCodec) (Chunk, error) {
	var c Chunk
	err := scanAttrs(e.Attr, "chunk must have x, y, width and height with correct types", []attrField{
		{name: "x", required: true, parse: intAttr(&c.X)},
		{name: "y", required: true, parse: intAttr(&c.Y)},
		{name: "width", required: true, parse: intAttr(&c.Width)},
		{name: "height", required: true, parse: intAttr(&c.Height)},
	})
	if err != nil {
		return Chunk{}, err
	}
	if codec.encoding == "csv" {
		text, err := p.readText("chunk")
		if err != nil {
			return Chunk{}, err
		}
		c.Tiles, err = decodeCSV(text, c.Width)
		if err != nil {
			return Chunk{}, err
		}
		return c, nil
	}
	raw, err := p.decodeBytes(codec, "chunk")
	if err != nil {
		return Chunk{}, err
	}
	c.Tiles, err = convertToTiles(raw, c.Width)
	if err != nil {
		return Chunk{}, err
	}
	return c, nil
}

// decodeBytes reads the element text as base64 and runs the configured
// decompression over the result.
func (p *parser) decodeBytes(codec dataCodec, end string) ([]byte, error) {
	text, err := p.readText(end)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, &Base64DecodingError{Err: err}
	}
	switch codec.compression {
	case "zlib":
		return inflateZlib(raw)
	case "gzip":
		return inflateGzip(raw)
	case "zstd":
		return inflateZstd(raw)
	}
	return raw, nil
}

func inflateZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return out.Bytes(), nil
}

func inflateGzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return out.Bytes(), nil
}

func inflateZstd(data []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer r.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return out.Bytes(), nil
}

// convertToTiles interprets raw bytes as little-endian 32-bit tile
// references arranged into rows of width. A buffer that does not divide
// evenly into such rows is rejected rather than read past its end.
func convertToTiles(data []byte, width int) ([][]LayerTile, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if width <= 0 || len(data)%4 != 0 || (len(data)/4)%width != 0 {
		return nil, fmt.Errorf("invalid tile data length %d for width %d", len(data), width)
	}
	rows := make([][]LayerTile, 0, len(data)/4/width)
	for len(data) > 0 {
		row := make([]LayerTile, width)
		for i := range row {
			row[i] = NewLayerTile(binary.LittleEndian.Uint32(data[i*4:]))
		}
		rows = append(rows, row)
		data = data[width*4:]
	}
	return rows, nil
}

// decodeCSV parses comma and newline separated tile references into rows of
// width. Blank tokens are dropped and leftover tokens form a short final
// row instead of being padded or rejected.
func decodeCSV(text string, width int) ([][]LayerTile, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	var tiles []LayerTile
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid csv tile value %q", tok)
		}
		tiles = append(tiles, NewLayerTile(uint32(v)))
	}
	if len(tiles) == 0 {
		return nil, nil
	}
	if width <= 0 {
		return nil, fmt.Errorf("invalid tile data length %d for width %d", len(tiles), width)
	}
	var rows [][]LayerTile
	for start := 0; start < len(tiles); start += width {
		end := start + width
		if end > len(tiles) {
			end = len(tiles)
		}
		rows = append(rows, tiles[start:end])
	}
	return rows, nil
}
