package document

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate runs a structural validation pass over raw PDF bytes and
// returns the page count. A malformed upload is rejected here, before
// a job is queued, so the engine only ever sees openable documents.
func Validate(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if ctx.PageCount == 0 {
		return 0, fmt.Errorf("%w: document has no pages", ErrOpen)
	}
	return ctx.PageCount, nil
}
