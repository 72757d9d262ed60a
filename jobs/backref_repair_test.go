package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/stocktag/stocktag/internal/jobs"
)

type fakeIndex struct {
	rebuilt    [][]string
	rebuildErr error
}

func (f *fakeIndex) Push(context.Context, string, []string) error { return nil }
func (f *fakeIndex) Pull(context.Context, string) error           { return nil }

func (f *fakeIndex) Rebuild(_ context.Context, productIDs []string) error {
	f.rebuilt = append(f.rebuilt, productIDs)
	return f.rebuildErr
}

func TestBackrefRepairHandle(t *testing.T) {
	index := &fakeIndex{}
	job := NewBackrefRepairJob(index, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewBackrefRepairTask(BackrefRepairPayload{ProductIDs: []string{"p-1", "p-2"}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, [][]string{{"p-1", "p-2"}}, index.rebuilt)
}

func TestBackrefRepairFullSweep(t *testing.T) {
	index := &fakeIndex{}
	job := NewBackrefRepairJob(index, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewBackrefRepairTask(BackrefRepairPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, index.rebuilt, 1)
	require.Empty(t, index.rebuilt[0])
}

func TestBackrefRepairBadPayload(t *testing.T) {
	job := NewBackrefRepairJob(&fakeIndex{}, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeBackrefRepair, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestBackrefRepairPropagatesError(t *testing.T) {
	index := &fakeIndex{rebuildErr: errors.New("db down")}
	job := NewBackrefRepairJob(index, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewBackrefRepairTask(BackrefRepairPayload{ProductIDs: []string{"p-1"}})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}
