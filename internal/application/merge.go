package application

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"langmerge/internal/config"
	"langmerge/internal/domain"
	"langmerge/internal/domain/entities"
	"langmerge/internal/ports/input"
	"langmerge/internal/ports/output"
	"langmerge/pkg/tz"
)

var _ input.MergeUseCase = (*MergeService)(nil)

type MergeService struct {
	cfg        *config.Config
	store      output.TranslationStore
	detector   Detector
	translator output.T
	notifier   output.Notifier
	logger     *log.Logger
	loc        *time.Location
	now        func() time.Time

	warnings int
}

type Option func(*MergeService)

// WithNotifier publishes the run summary once everything is written.
func WithNotifier(n output.Notifier) Option {
	return func(s *MergeService) { s.notifier = n }
}

// WithClock replaces time.Now for the metadata date stamp.
func WithClock(now func() time.Time) Option {
	return func(s *MergeService) { s.now = now }
}

// WithLocation sets the zone the metadata date is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *MergeService) { s.loc = loc }
}

func NewMergeService(
	cfg *config.Config,
	store output.TranslationStore,
	detector Detector,
	translator output.T,
	logger *log.Logger,
	opts ...Option,
) *MergeService {
	s := &MergeService{
		cfg:        cfg,
		store:      store,
		detector:   detector,
		translator: translator,
		logger:     logger,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run discovers every merge unit, merges them in order, writes the pack
// metadata, notifies, and logs the summary as the very last line. Any output
// error aborts the run.
func (s *MergeService) Run(ctx context.Context) (entities.RunSummary, error) {
	s.warnings = 0
	summary := entities.RunSummary{}

	paths, err := s.store.Discover(s.cfg.ManualRoot, s.cfg.MachineRoot)
	if err != nil {
		return summary, fmt.Errorf("discover: %w", err)
	}

	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := s.MergeFile(ctx, rel)
		if err != nil {
			return summary, err
		}
		summary.Files++
		summary.Adopted += res.Adopted
		summary.Paths = append(summary.Paths, filepath.ToSlash(rel))
	}

	summary.Date = s.now()
	if err := s.writeMetadata(summary.Date); err != nil {
		return summary, err
	}
	summary.Warnings = s.warnings

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, summary); err != nil {
			s.logger.Println(s.translator.T(s.cfg.Locale, "notify.failed", map[string]any{"Err": err.Error()}))
		}
	}

	s.logger.Println(s.translator.T(s.cfg.Locale, "merge.summary", map[string]any{
		"Count":    summary.Files,
		"Adopted":  summary.Adopted,
		"Warnings": summary.Warnings,
	}))
	return summary, nil
}

// MergeFile merges one relative path and writes the result under the output
// root.
func (s *MergeService) MergeFile(ctx context.Context, relPath string) (*entities.MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	manual := s.load(filepath.Join(s.cfg.ManualRoot, relPath))
	machine := s.load(filepath.Join(s.cfg.MachineRoot, relPath))

	merged, adopted := MergeMappings(manual, machine, s.detector)

	out := filepath.Join(s.cfg.OutputRoot, relPath)
	if err := s.store.Save(out, merged); err != nil {
		return nil, fmt.Errorf("merge %s: %w", relPath, err)
	}

	if adopted > 0 {
		s.logger.Println(s.translator.T(s.cfg.Locale, "merge.adopted", map[string]any{
			"Path":  filepath.ToSlash(relPath),
			"Count": adopted,
		}))
	}

	return &entities.MergeResult{RelPath: relPath, Merged: merged, Adopted: adopted}, nil
}

// load never fails: a LoadError becomes a warning and an empty mapping.
func (s *MergeService) load(path string) entities.Mapping {
	m, err := s.store.Load(path)
	if err == nil {
		return m
	}

	s.warnings++
	kind := "error"
	if le, ok := domain.AsLoadError(err); ok {
		kind = string(le.Kind)
		err = le.Err
	}
	s.logger.Println(s.translator.T(s.cfg.Locale, "load.warning", map[string]any{
		"Path": path,
		"Kind": kind,
		"Err":  err.Error(),
	}))
	return entities.Mapping{}
}

func (s *MergeService) writeMetadata(now time.Time) error {
	desc := s.translator.T(s.cfg.Locale, "metadata.text", map[string]any{
		"Date":   tz.Date(now, s.loc),
		"Target": strings.TrimSuffix(s.cfg.TargetFile, filepath.Ext(s.cfg.TargetFile)),
	})
	meta := entities.PackMeta{Pack: entities.PackInfo{
		PackFormat:  s.cfg.PackFormat,
		Description: desc,
	}}
	path := filepath.Join(s.cfg.OutputRoot, s.cfg.MetadataFile)
	if err := s.store.SaveMeta(path, meta); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	return nil
}
