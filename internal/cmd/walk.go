package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ezerfernandes/mdinclude/internal/directive"
	"github.com/ezerfernandes/mdinclude/internal/include"
	"github.com/ezerfernandes/mdinclude/internal/logging"
)

type resolveFunc func(ctx context.Context, d *directive.Directive) string

// includer returns the function resolving one directive of file. Malformed
// directives and failed inclusions are logged and resolve to "".
func includer(resolver *include.Resolver, logger logging.Logger, file string) resolveFunc {
	return func(ctx context.Context, d *directive.Directive) string {
		log := logger.WithFields(map[string]any{"file": file, "line": d.Line})

		if d.Err != nil {
			log.Warn("skipping directive", "error", d.Err)

			return ""
		}

		opts := include.Options{KeepTitle: d.Options.KeepTitle, KeepLinks: d.Options.KeepLinks}

		return resolver.WithLogger(log).Include(ctx, d.URL, d.Section, opts)
	}
}

// expand replaces every directive of source. With jobs > 1 the directives
// are resolved concurrently first and spliced in document order afterwards.
func expand(ctx context.Context, source []byte, env directive.Env, jobs int, resolve resolveFunc) (bool, []byte, error) {
	if jobs <= 1 {
		return directive.Walk(source, env, func(d *directive.Directive) error {
			d.Replace(resolve(ctx, d))

			return nil
		})
	}

	directives, err := directive.Collect(source, env)
	if err != nil {
		return false, nil, err
	}

	if len(directives) == 0 {
		return false, nil, nil
	}

	results := make([]string, len(directives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, d := range directives {
		g.Go(func() error {
			results[i] = resolve(gctx, d)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return false, nil, err
	}

	index := 0

	return directive.Walk(source, env, func(d *directive.Directive) error {
		if index < len(results) {
			d.Replace(results[index])
		}

		index++

		return nil
	})
}
