package curate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/brandsift/pkg/brandsift/store"
)

// TokenListWriter persists an exported token list to a destination (file,
// DB, etc.).
type TokenListWriter interface {
	WriteTokenList(ctx context.Context, content string) error
}

// Exporter renders persisted token statistics as dictionary rows that the
// filter's token loader consumes directly.
type Exporter struct {
	Writer TokenListWriter
}

func (e *Exporter) Export(ctx context.Context, stats []store.TokenStat) error {
	if e.Writer == nil {
		return fmt.Errorf("token exporter: nil writer")
	}
	var b strings.Builder
	for _, st := range stats {
		fmt.Fprintf(&b, "%d\t%d\t%s\n", st.TrueFreq, st.FalseFreq, st.Token)
	}
	return e.Writer.WriteTokenList(ctx, b.String())
}
