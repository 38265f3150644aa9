package pipeline

import (
	"testing"
	"time"

	"github.com/docstruct/docstruct/internal/engine"
	"github.com/docstruct/docstruct/internal/resolver"
)

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "j1", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("j1"); got != job {
		t.Errorf("Get returned %v, want the stored job", got)
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("Get for unknown ID returned %v, want nil", got)
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	old := &Job{ID: "old", UpdatedAt: time.Now().Add(-time.Minute)}
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(old)
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expired job should have been evicted")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh job should have survived cleanup")
	}
}

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusQueued}

	job.SetStatus(StatusOpening, "opening document")
	job.SetStatus(StatusResolving, "resolving structure")

	snap := job.Snapshot()
	if snap.Status != StatusResolving || snap.Phase != "resolving structure" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Errors == nil {
		t.Error("snapshot errors must be non-nil for JSON")
	}
}

func TestJob_SetResultReleasesFileData(t *testing.T) {
	job := &Job{ID: "j1"}
	job.SetFileData([]byte("%PDF-1.7 ..."))
	if job.FileData() == nil {
		t.Fatal("file data not stored")
	}

	res := &engine.Result{Sections: []resolver.Section{{Title: "A", Start: 0, End: 9}}}
	job.SetResult(res)

	if job.FileData() != nil {
		t.Error("file data must be released once the result is stored")
	}
	if got := job.Result(); got != res {
		t.Errorf("Result() = %v, want stored result", got)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "j1"}
	job.AddError("first")
	job.AddError("second")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 || snap.Errors[0] != "first" {
		t.Errorf("errors = %v", snap.Errors)
	}
}
