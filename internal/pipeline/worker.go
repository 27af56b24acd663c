package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dvigh8/10k-parser/internal/artifact"
	"github.com/dvigh8/10k-parser/internal/index"
	"github.com/dvigh8/10k-parser/internal/layout"
	"github.com/dvigh8/10k-parser/internal/render"
	"github.com/dvigh8/10k-parser/internal/section"
)

// Worker processes a single filing job: render spans, reconstruct layout,
// build the index, segment sections and publish artifacts.
type Worker struct {
	renderer  render.Renderer
	dataDir   string
	scanPages int
	log       *slog.Logger
}

func NewWorker(r render.Renderer, dataDir string, scanPages int, log *slog.Logger) *Worker {
	return &Worker{
		renderer:  r,
		dataDir:   dataDir,
		scanPages: scanPages,
		log:       log,
	}
}

// Process runs the full extraction pipeline for a job. Each phase's output
// is published atomically before the next begins, so an abandoned job never
// leaves a corrupt artifact behind.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename)

	// Phase 1: Render and reconstruct.
	job.SetStatus(StatusRendering, "rendering")
	pageCount, err := w.renderer.PageCount(job.Path)
	if err != nil {
		log.Error("page count failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	spans, err := w.renderer.Spans(job.Path, 0, pageCount)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	pages := layout.Pages(spans, pageCount)
	pageTexts := make([]string, len(pages))
	for i, p := range pages {
		pageTexts[i] = p.Text
	}

	store := artifact.New(w.dataDir, job.Filename)
	if err := store.EnsureDir(); err != nil {
		log.Error("artifact dir failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	// Phase 2: Index. A missing index is fatal for the document.
	job.SetStatus(StatusIndexing, "indexing")
	info, err := index.Build(pageTexts, job.Filename, pageCount, w.scanPages)
	if err != nil {
		log.Error("indexing failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}
	if err := store.WriteInfo(info); err != nil {
		log.Error("index write failed", "error", err)
		job.AddError(fmt.Sprintf("index write: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}
	log.Info("index built", "items", len(info.Index), "fiscal_year", info.Metadata.FiscalYearDate)

	// The full text is persisted before segmentation so table extraction and
	// whole-document retrieval work even when individual items are skipped.
	if err := store.WriteFullText(layout.Join(pages)); err != nil {
		log.Error("full text write failed", "error", err)
		job.AddError(fmt.Sprintf("full text: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}

	// Phase 3: Segment. One item's failure never halts the others.
	job.SetStatus(StatusSegmenting, "segmenting")
	job.SetTotalItems(len(info.Index))
	for _, item := range index.Keys(info.Index) {
		if ctx.Err() != nil {
			log.Warn("job abandoned", "at_item", item)
			job.AddError("abandoned: " + ctx.Err().Error())
			job.SetStatus(StatusPartial, "segmenting")
			return
		}

		entry := info.Index[item]
		log.Info("extracting section", "item", item, "start_page", entry.StartPage, "end_page", entry.EndPage)
		text, err := section.Extract(pageTexts, item, entry)
		if err != nil {
			if errors.Is(err, section.ErrStartMarker) {
				log.Warn("section skipped", "item", item, "error", err)
				job.IncrSkipped()
				continue
			}
			log.Error("section failed", "item", item, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", item, err))
			job.IncrSkipped()
			continue
		}
		if err := store.WriteSection(item, text); err != nil {
			log.Error("section write failed", "item", item, "error", err)
			job.AddError(fmt.Sprintf("%s: %s", item, err))
			job.IncrSkipped()
			continue
		}
		job.IncrExtracted()
	}

	snap := job.Snapshot()
	switch {
	case snap.Progress.ItemsExtracted == 0 && snap.Progress.TotalItems > 0:
		job.SetStatus(StatusFailed, "segmenting")
	case snap.Progress.ItemsSkipped > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("extraction complete",
		"extracted", snap.Progress.ItemsExtracted,
		"skipped", snap.Progress.ItemsSkipped,
	)
}
