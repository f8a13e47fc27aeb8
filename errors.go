package tiled

import (
	"errors"
	"fmt"
)

// ErrNoSourceLocation is returned when a map references an external tileset
// but the parse was started without a source location, so the relative
// reference cannot be resolved. Use ParseWithPath or ParseFile instead.
var ErrNoSourceLocation = errors.New("maps with external tilesets must know their file location, use ParseWithPath or ParseFile")

// MalformedAttributesError reports a required attribute that was missing or
// failed its type conversion.
type MalformedAttributesError struct {
	Reason string
}

func (e *MalformedAttributesError) Error() string {
	return e.Reason
}

// DecompressionError reports a failed zlib, gzip or zstd step while decoding
// tile data. It wraps the codec's own error.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("error decompressing tile data: %v", e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// Base64DecodingError reports failed base64 decoding of tile data.
type Base64DecodingError struct {
	Err error
}

func (e *Base64DecodingError) Error() string {
	return fmt.Sprintf("error decoding base64 tile data: %v", e.Err)
}

func (e *Base64DecodingError) Unwrap() error {
	return e.Err
}

// XMLDecodingError reports a failure of the underlying XML token stream. The
// decoder's error is wrapped unchanged.
type XMLDecodingError struct {
	Err error
}

func (e *XMLDecodingError) Error() string {
	return fmt.Sprintf("error decoding xml: %v", e.Err)
}

func (e *XMLDecodingError) Unwrap() error {
	return e.Err
}

// PrematureEndError reports a document that ended while an element was still
// open. Context names what was being parsed at the time.
type PrematureEndError struct {
	Context string
}

func (e *PrematureEndError) Error() string {
	return e.Context
}

// UnknownEncodingError reports an encoding/compression pair outside the
// supported matrix.
type UnknownEncodingError struct {
	Encoding    string
	Compression string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding %q or compression %q", e.Encoding, e.Compression)
}

// FileNotFoundError reports a map or tileset file that could not be opened.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}
