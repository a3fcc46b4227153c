package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SourceText is one named text to build.
type SourceText struct {
	Name string
	Text string
}

// BuildAll builds independent documents in parallel, at most limit at a
// time (unbounded when limit <= 0). Results keep the input order. The only
// error is ctx's.
func BuildAll(ctx context.Context, sources []SourceText, limit int) ([]*Document, error) {
	docs := make([]*Document, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			docs[i] = BuildDocument(src.Text)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
