package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/cardpolicy/internal/compiler"
)

// FileOptions tune how delimited files are read.
type FileOptions struct {
	Delimiter rune
	Encoding  Encoding
}

// ForPath returns a source for the file at path, chosen by extension:
// .cue files are CUE documents; .csv, .tsv, .txt and extensionless files
// are delimited text (.tsv defaults to tab).
func ForPath(path string, opts FileOptions) (compiler.RowSource, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return CUE{Path: path}, nil
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return Delimited{Path: path, Delimiter: opts.Delimiter, Encoding: opts.Encoding}, nil
	case ".csv", ".txt", "":
		return Delimited{Path: path, Delimiter: opts.Delimiter, Encoding: opts.Encoding}, nil
	default:
		return nil, fmt.Errorf("unsupported table file extension %q", ext)
	}
}
