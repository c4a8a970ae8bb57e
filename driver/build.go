package driver

import (
	"context"
	"errors"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"typereflect/builder"
	"typereflect/internal/diagnostic"
	"typereflect/schema"
)

// ErrNoUnits is returned when a build is given no unit paths.
var ErrNoUnits = errors.New("no units to build")

// Result is the outcome of a multi-unit build.
type Result struct {
	// Schema merges the unit schemas by FQN, later units winning.
	Schema      *schema.Schema
	Diagnostics diagnostic.Diagnostics
	// Units lists every unit built, including units reached only
	// through imports.
	Units []string
}

// Build builds paths in order with one BuildContext and merges the unit
// schemas left to right.
func Build(ctx context.Context, fe builder.Frontend, paths []string, opts ...builder.Option) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoUnits
	}

	bc := builder.NewContext(fe, opts...)
	schemas := make([]*schema.Schema, 0, len(paths))

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := bc.Build(p)
		if err != nil {
			return nil, fmt.Errorf("failed to build unit %s: %w", p, err)
		}

		schemas = append(schemas, s)
	}

	return &Result{
		Schema:      schema.Merge(schemas...),
		Diagnostics: *bc.Diagnostics(),
		Units:       bc.Units(),
	}, nil
}

// FollowImports returns root followed by every unit reachable from it
// through Import declarations, breadth first. Imports the front-end does
// not have are skipped; the builder reports them.
func FollowImports(fe builder.Frontend, root string) ([]string, error) {
	u, err := fe.Unit(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", root, err)
	}

	seen := map[string]bool{root: true, u.Path: true}
	out := []string{u.Path}
	queue := []*builder.Unit{u}

	for len(queue) > 0 {
		u, queue = queue[0], queue[1:]

		for _, imp := range u.Imports() {
			if seen[imp] {
				continue
			}

			seen[imp] = true

			next, err := fe.Unit(imp)
			if errors.Is(err, builder.ErrUnitNotFound) {
				continue
			}

			if err != nil {
				return nil, fmt.Errorf("failed to load unit %s: %w", imp, err)
			}

			if next.Path != imp {
				if seen[next.Path] {
					continue
				}

				seen[next.Path] = true
			}

			out = append(out, next.Path)
			queue = append(queue, next)
		}
	}

	return out, nil
}

// BuildFrom builds root and its import closure.
func BuildFrom(ctx context.Context, fe builder.Frontend, root string, opts ...builder.Option) (*Result, error) {
	paths, err := FollowImports(fe, root)
	if err != nil {
		return nil, err
	}

	return Build(ctx, fe, paths, opts...)
}

// BuildGroups builds each group with its own BuildContext, at most limit
// groups at a time, and merges the results in group order. Empty groups
// are skipped. The front-end must be safe for concurrent use.
func BuildGroups(ctx context.Context, fe builder.Frontend, groups [][]string, limit int, opts ...builder.Option) (*Result, error) {
	results := make([]*Result, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, paths := range groups {
		if len(paths) == 0 {
			continue
		}

		i, paths := i, paths
		g.Go(func() error {
			r, err := Build(gctx, fe, paths, opts...)
			if err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Result{}
	schemas := make([]*schema.Schema, 0, len(results))

	for _, r := range results {
		if r == nil {
			continue
		}

		schemas = append(schemas, r.Schema)
		merged.Diagnostics.Merge(r.Diagnostics)
		merged.Units = append(merged.Units, r.Units...)
	}

	if len(schemas) == 0 {
		return nil, ErrNoUnits
	}

	merged.Schema = schema.Merge(schemas...)

	return merged, nil
}

// GroupByDir groups unit paths by directory, keeping first-seen order.
func GroupByDir(paths []string) [][]string {
	index := make(map[string]int)

	var groups [][]string

	for _, p := range paths {
		dir := path.Dir(p)

		i, ok := index[dir]
		if !ok {
			i = len(groups)
			index[dir] = i
			groups = append(groups, nil)
		}

		groups[i] = append(groups[i], p)
	}

	return groups
}
