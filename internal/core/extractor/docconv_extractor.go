package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"noticeflow/internal/core"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.TextExtractor using sajari/docconv,
// which shells out to the OCR toolchain for scanned pages.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

// ExtractText converts the document to plain text. An empty result with a
// nil error means the document contained no recognizable text, which is a
// legitimate outcome and distinct from a conversion failure.
func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.Convert(bytes.NewReader(data), mediaType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv %s: %w", mediaType, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Body), nil
}
