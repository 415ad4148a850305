package artifact

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
)

// maxMetadataSize bounds the metadata entry read from an archive.
const maxMetadataSize = 1 << 20

// ZipExtractor reads plugin metadata from a zip archive.
type ZipExtractor struct {
	// File is the archive entry holding the metadata, meta.json by default.
	File string
}

// NewZipExtractor returns an extractor reading file, or the default
// metadata entry when file is empty.
func NewZipExtractor(file string) *ZipExtractor {
	if file == "" {
		file = constants.DefaultMetadataFile
	}
	return &ZipExtractor{File: file}
}

// Extract parses the metadata entry of the archive in data. Failures are
// reported as *errors.MetadataError.
func (x *ZipExtractor) Extract(data []byte) (*Metadata, error) {
	raw, err := x.read(data)
	if err != nil {
		return nil, &errors.MetadataError{Entry: x.File, Err: err}
	}
	md, err := ParseMetadata(raw)
	if err != nil {
		return nil, &errors.MetadataError{Entry: x.File, Err: err}
	}
	return md, nil
}

func (x *ZipExtractor) read(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapParse("zip", "archive", err)
	}

	for _, f := range zr.File {
		if f.Name != x.File {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.WrapIO("open", f.Name, err)
		}
		defer func() { _ = rc.Close() }()

		raw, err := io.ReadAll(io.LimitReader(rc, maxMetadataSize))
		if err != nil {
			return nil, errors.WrapIO("read", f.Name, err)
		}
		return raw, nil
	}
	return nil, errors.NewNotFoundError("archive entry", x.File)
}
