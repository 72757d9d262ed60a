package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stocktag/stocktag/internal/barcodes"
	jobmetrics "github.com/stocktag/stocktag/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BackrefRepairJob restores the products.barcode_ids index from the
// barcodes table. It serves both targeted repairs raised by failed
// mutation workflows and the nightly full sweep.
type BackrefRepairJob struct {
	Index   barcodes.ReferenceIndex
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewBackrefRepairJob wires dependencies for the repair handler.
func NewBackrefRepairJob(index barcodes.ReferenceIndex, logger *slog.Logger, metrics *jobmetrics.Metrics) *BackrefRepairJob {
	return &BackrefRepairJob{
		Index:   index,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes backref repair tasks.
func (j *BackrefRepairJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Index == nil {
		return errors.New("backref repair: handler not configured")
	}
	var payload BackrefRepairPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeBackrefRepair)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("products", len(payload.ProductIDs)))
	if len(payload.ProductIDs) == 0 {
		logger.Info("starting full back-reference rebuild")
	} else {
		logger.Info("starting targeted back-reference repair")
	}

	start := j.now()
	if err := j.Index.Rebuild(ctx, payload.ProductIDs); err != nil {
		resultErr = err
		logger.Error("rebuild back-references", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed back-reference repair", slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *BackrefRepairJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeBackrefRepair))
	}
	return slog.Default().With(slog.String("job", TaskTypeBackrefRepair))
}

func (j *BackrefRepairJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BackrefRepairJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
