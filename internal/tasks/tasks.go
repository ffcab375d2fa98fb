package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
)

// TaskType defines the type of a background task.
const (
	TypeEmailDispatch = "email:dispatch"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// NewEmailDispatchTask builds the queued form of a dispatch request.
func NewEmailDispatchTask(req *models.DispatchRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dispatch payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDispatch, payload), nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
type TaskProcessor struct {
	dispatchService services.IDispatchService
}

func NewTaskProcessor(dispatchService services.IDispatchService) *TaskProcessor {
	return &TaskProcessor{dispatchService: dispatchService}
}

// SetupServer configures and starts an Asynq server instance. The caller owns
// the returned server and is responsible for calling Shutdown on it.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, error) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDispatch, processor.HandleEmailDispatchTask)
	fmt.Println("Registered background task handlers.")

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start task server: %w", err)
	}
	return srv, nil
}

// --- Task Handlers ---

// HandleEmailDispatchTask runs one queued dispatch. The pipeline performs no
// retries, so every failure is wrapped with asynq.SkipRetry: the attempt is
// already audited in the send log and re-running it would double-send.
func (p *TaskProcessor) HandleEmailDispatchTask(ctx context.Context, t *asynq.Task) error {
	var req models.DispatchRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return fmt.Errorf("failed to unmarshal dispatch payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := p.dispatchService.Dispatch(ctx, &req)
	if err != nil {
		return fmt.Errorf("dispatch of template %s to %s failed: %v: %w", req.TemplateName, req.To, err, asynq.SkipRetry)
	}

	log.Printf("Queued dispatch completed: template=%s to=%s status=%s", req.TemplateName, result.To, result.Status)
	return nil
}
