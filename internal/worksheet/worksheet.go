package worksheet

import (
	"fmt"
	"os"
)

// Worksheet is a Discovery worksheet loaded from disk.
type Worksheet struct {
	Path    string
	Content string
	Size    int64
}

// Read loads a worksheet file into memory.
func Read(path string) (*Worksheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	return &Worksheet{
		Path:    path,
		Content: string(data),
		Size:    int64(len(data)),
	}, nil
}

// Result is the outcome of validating a single worksheet.
type Result struct {
	OK     bool
	Reason string
}
