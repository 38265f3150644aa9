package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docstruct/docstruct/internal/document"
	"github.com/docstruct/docstruct/internal/engine"
)

// Worker runs document resolution for queued jobs.
type Worker struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewWorker(eng *engine.Engine, log *slog.Logger) *Worker {
	return &Worker{engine: eng, log: log}
}

// Process runs the resolution pipeline for one job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusOpening, "opening")
	doc, err := document.FromBytes(job.FileData())
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(fmt.Sprintf("open: %s", err))
		job.SetStatus(StatusFailed, "opening")
		return
	}
	job.SetPageCount(doc.PageCount())

	job.SetStatus(StatusResolving, "resolving")
	res, err := w.engine.Resolve(ctx, doc)
	if err != nil {
		log.Error("resolution failed", "error", err)
		job.AddError(fmt.Sprintf("resolve: %s", err))
		job.SetStatus(StatusFailed, "resolving")
		return
	}

	job.SetResult(res)
	if len(res.Fallbacks) > 0 {
		log.Info("resolution degraded",
			"fallbacks", res.Fallbacks,
			"sections", len(res.Sections),
			"dropped", res.Dropped,
		)
		job.SetStatus(StatusDegraded, "done")
		return
	}

	log.Info("resolution complete",
		"sections", len(res.Sections),
		"toc_page", res.TocPage,
		"map_entries", len(res.PageMap),
	)
	job.SetStatus(StatusCompleted, "done")
}
