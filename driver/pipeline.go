package driver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"

	"typereflect/builder"
	"typereflect/frontend/declfile"
	"typereflect/frontend/gosrc"
	"typereflect/internal/diagnostic"
	"typereflect/schema"
	"typereflect/store"
)

// Pipeline runs a configured build end to end.
type Pipeline struct {
	cfg *Config
	log logr.Logger
}

// Report summarizes one pipeline run.
type Report struct {
	// Schema is the flat schema that was written.
	Schema      *schema.Schema
	Diagnostics diagnostic.Diagnostics
	Units       []string
	Output      string
	Stored      string
	Elapsed     time.Duration
}

// NewPipeline creates a Pipeline for cfg.
func NewPipeline(cfg *Config, log logr.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *Config {
	return p.cfg
}

// Frontend creates the configured front-end and lists the unit paths to
// build.
func (p *Pipeline) Frontend() (builder.Frontend, []string, error) {
	switch p.cfg.Frontend {
	case FrontendGo:
		fe, err := gosrc.Load(p.cfg.Dir, p.cfg.Patterns...)
		if err != nil {
			return nil, nil, err
		}

		return fe, fe.Paths(), nil

	case FrontendDecl:
		fsys := os.DirFS(p.cfg.Dir)

		paths, err := declfile.Discover(fsys, p.cfg.Patterns...)
		if err != nil {
			return nil, nil, err
		}

		return declfile.New(fsys), paths, nil

	default:
		return nil, nil, fmt.Errorf("unknown frontend %q", p.cfg.Frontend)
	}
}

// Run builds the configured units, flattens the merged schema and writes
// it to the configured output and store.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	fe, paths, err := p.Frontend()
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	p.log.V(1).Info("building", "frontend", p.cfg.Frontend, "units", len(paths))

	var res *Result
	if p.cfg.Workers > 1 {
		res, err = BuildGroups(ctx, fe, GroupByDir(paths), p.cfg.Workers, builder.WithLogger(p.log))
	} else {
		res, err = Build(ctx, fe, paths, builder.WithLogger(p.log))
	}

	if err != nil {
		return nil, err
	}

	s := res.Schema
	if p.cfg.ExportsOnly {
		s = s.ExportsOnly()
	}

	flat := schema.Flatten(s)
	if p.cfg.RelativeTo != "" {
		flat.Relativize(p.cfg.RelativeTo)
	}

	report := &Report{
		Schema:      flat,
		Diagnostics: res.Diagnostics,
		Units:       res.Units,
	}

	if p.cfg.Output != "" {
		if err := schema.WriteFile(flat, p.cfg.Output, p.cfg.OutputFormat()); err != nil {
			return nil, err
		}

		report.Output = p.cfg.Output
	}

	if p.cfg.Store != "" {
		if err := p.save(flat); err != nil {
			return nil, err
		}

		report.Stored = p.cfg.Name
	}

	report.Elapsed = time.Since(start)

	p.log.Info("pipeline finished",
		"units", len(report.Units),
		"types", flat.Len(),
		"diagnostics", report.Diagnostics.Len(),
		"elapsed", report.Elapsed.String())

	return report, nil
}

func (p *Pipeline) save(flat *schema.Schema) error {
	db, err := store.Open(p.cfg.Store)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveSchema(p.cfg.Name, flat); err != nil {
		return fmt.Errorf("failed to store schema %s: %w", p.cfg.Name, err)
	}

	return nil
}
