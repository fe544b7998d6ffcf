package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"arewesmite2yet/internal/catalog"
)

type Stage string

const (
	StageBuild     Stage = "build"
	StageReconcile Stage = "reconcile"
	StageDates     Stage = "dates"
	StageAssets    Stage = "assets"
	StagePantheons Stage = "pantheons"
	StageClean     Stage = "clean"
)

func (p *Pipeline) load() ([]catalog.Entity, error) {
	entities, err := catalog.Load(p.opts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return entities, nil
}

func (p *Pipeline) save(entities []catalog.Entity) error {
	err := catalog.Save(p.opts.CatalogPath, entities)
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// BuildFile runs the build stage over the catalog file, a missing catalog
// file is treated as an empty previous catalog.
func (p *Pipeline) BuildFile(ctx context.Context) (Summary, error) {
	previous, err := catalog.Load(p.opts.CatalogPath)
	if errors.Is(err, os.ErrNotExist) {
		previous = nil
	} else if err != nil {
		return Summary{Stage: StageBuild}, fmt.Errorf("load catalog: %w", err)
	}

	entities, summary, err := p.Build(ctx, previous)
	if err != nil {
		return summary, err
	}
	return summary, p.save(entities)
}

func (p *Pipeline) ReconcileFile(ctx context.Context) (Summary, error) {
	entities, err := p.load()
	if err != nil {
		return Summary{Stage: StageReconcile}, err
	}
	entities, summary, err := p.Reconcile(ctx, entities)
	if err != nil {
		return summary, err
	}
	return summary, p.save(entities)
}

func (p *Pipeline) NormalizeDatesFile() (Summary, error) {
	entities, err := p.load()
	if err != nil {
		return Summary{Stage: StageDates}, err
	}
	entities, summary := p.NormalizeDates(entities)
	return summary, p.save(entities)
}

// AssetsFile runs the assets stage over the catalog file, nothing is
// written on a dry run.
func (p *Pipeline) AssetsFile(ctx context.Context, opts AssetOptions) (Summary, error) {
	entities, err := p.load()
	if err != nil {
		return Summary{Stage: StageAssets}, err
	}
	entities, summary, err := p.Assets(ctx, entities, opts)
	if err != nil {
		return summary, err
	}
	if opts.DryRun {
		return summary, nil
	}
	return summary, p.save(entities)
}

// PantheonsFile writes the pantheon index of the catalog file.
func (p *Pipeline) PantheonsFile(ctx context.Context) (Summary, error) {
	entities, err := p.load()
	if err != nil {
		return Summary{Stage: StagePantheons}, err
	}
	pantheons, summary := p.Pantheons(ctx, entities)
	err = catalog.SavePantheons(p.opts.PantheonsPath, pantheons)
	if err != nil {
		return summary, fmt.Errorf("save pantheons: %w", err)
	}
	return summary, nil
}

func (p *Pipeline) CleanFile() (Summary, error) {
	entities, err := p.load()
	if err != nil {
		return Summary{Stage: StageClean}, err
	}
	entities, summary, err := p.Clean(entities)
	if err != nil {
		return summary, err
	}
	return summary, p.save(entities)
}

// Run builds the catalog from scratch through every stage in order. It
// stops at the first stage that fails, the summaries of the stages that
// completed are returned either way.
func (p *Pipeline) Run(ctx context.Context, assetOpts AssetOptions) ([]Summary, error) {
	var summaries []Summary
	stages := []func() (Summary, error){
		func() (Summary, error) { return p.BuildFile(ctx) },
		func() (Summary, error) { return p.ReconcileFile(ctx) },
		p.NormalizeDatesFile,
		func() (Summary, error) { return p.AssetsFile(ctx, assetOpts) },
	}
	for _, stage := range stages {
		summary, err := stage()
		if err != nil {
			return summaries, fmt.Errorf("%s: %w", summary.Stage, err)
		}
		summaries = append(summaries, summary)
		p.tel.ReportDebug("stage done", summary.Stage)
	}
	return summaries, nil
}
