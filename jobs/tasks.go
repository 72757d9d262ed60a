package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeBackrefRepair rebuilds the product back-reference index after a
	// mutation workflow failed between its sequential writes.
	TaskTypeBackrefRepair = "backref:repair"
)

// BackrefRepairPayload names the products whose barcode back-references need
// recomputing. An empty list rebuilds every product.
type BackrefRepairPayload struct {
	ProductIDs []string `json:"productIds"`
}

// NewBackrefRepairTask constructs an Asynq task.
func NewBackrefRepairTask(payload BackrefRepairPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeBackrefRepair, data), nil
}
