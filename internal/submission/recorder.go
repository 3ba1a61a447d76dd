package submission

import (
	"context"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/pkg/utils/logger"
)

// Recorder fans one judged submission out to the configured archive sinks.
// Archival is best effort: a sink failure is logged and never propagated, so
// the verdict path does not depend on MySQL, MinIO or Kafka being up.
type Recorder struct {
	model   Model
	archive *Archiver
	events  *Publisher
}

// NewRecorder creates a recorder; any component may be nil.
func NewRecorder(model Model, archive *Archiver, events *Publisher) *Recorder {
	return &Recorder{model: model, archive: archive, events: events}
}

// Enabled reports whether at least one sink is configured.
func (r *Recorder) Enabled() bool {
	return r != nil && (r.model != nil || r.archive != nil || r.events != nil)
}

// Record archives one judged submission.
func (r *Recorder) Record(ctx context.Context, submissionID, userID string, problemID int, language, source, verdict string) {
	if !r.Enabled() {
		return
	}

	var sourceKey, sourceHash string
	if r.archive != nil {
		key, hash, err := r.archive.Store(ctx, submissionID, language, source)
		if err != nil {
			logger.Warnf(ctx, "archive source for submission %s failed: %v", submissionID, err)
		} else {
			sourceKey, sourceHash = key, hash
		}
	}

	if r.model != nil {
		rec := &Record{
			SubmissionId: submissionID,
			UserId:       userID,
			ProblemId:    int64(problemID),
			Language:     language,
			Verdict:      verdict,
			SourceKey:    sourceKey,
			SourceHash:   sourceHash,
		}
		if err := r.model.Insert(ctx, rec); err != nil {
			logger.Warnf(ctx, "insert submission row %s failed: %v", submissionID, err)
		}
	}

	if r.events != nil {
		ev := VerdictEvent{
			SubmissionID: submissionID,
			UserID:       userID,
			ProblemID:    problemID,
			Language:     language,
			Verdict:      verdict,
			JudgedAt:     time.Now().Format("2006-01-02 15:04:05"),
		}
		if err := r.events.PublishVerdict(ctx, ev); err != nil {
			logger.Warnf(ctx, "publish verdict event for %s failed: %v", submissionID, err)
		}
	}
}
