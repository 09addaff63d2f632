package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"docuchat/internal/processor"
	"docuchat/internal/store"
)

// popTimeout is how long each BRPOP blocks before re-checking the context.
const popTimeout = 5 * time.Second

// Worker consumes the Redis job list with a fixed pool of goroutines and
// writes each job's terminal state to its status key.
type Worker struct {
	rdb           *goredis.Client
	queue         string
	concurrency   int
	client        *processor.Client
	messages      store.MessageStore
	conversations store.ConversationStore
	logger        *slog.Logger
}

// NewWorker creates a new Worker.
func NewWorker(rdb *goredis.Client, queue string, concurrency int, client *processor.Client, messages store.MessageStore, conversations store.ConversationStore, logger *slog.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		rdb:           rdb,
		queue:         queue,
		concurrency:   concurrency,
		client:        client,
		messages:      messages,
		conversations: conversations,
		logger:        logger,
	}
}

// Start launches the pool and returns. The pool drains when ctx is cancelled;
// the returned function blocks until every goroutine has exited.
func (w *Worker) Start(ctx context.Context) (wait func()) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx)
		}()
	}
	return wg.Wait
}

func (w *Worker) run(ctx context.Context) {
	for {
		values, err := w.rdb.BRPop(ctx, popTimeout, w.queue).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("failed to pop job from queue", "queue", w.queue, "error", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPOP returns the list key followed by the popped value.
		var j job
		if err := json.Unmarshal([]byte(values[1]), &j); err != nil {
			w.logger.Error("failed to decode queued job", "queue", w.queue, "error", err)
			continue
		}

		w.setStatus(ctx, j.ID, StatusActive)
		if err := w.handle(ctx, j); err != nil {
			w.logger.Error("job failed", "jobId", j.ID, "kind", j.Kind, "error", err)
			w.setStatus(ctx, j.ID, StatusFailed)
			continue
		}
		w.logger.Info("job finished", "jobId", j.ID, "kind", j.Kind)
		w.setStatus(ctx, j.ID, StatusFinished)
	}
}

// handle runs one job to completion. A successful priority-index call means
// the processor has fully indexed the document, so the job is terminal here.
func (w *Worker) handle(ctx context.Context, j job) error {
	switch j.Kind {
	case KindIndex:
		if j.Index == nil {
			return fmt.Errorf("index job %s has no payload", j.ID)
		}
		_, err := w.client.IndexData(ctx, processor.IndexRequest{
			ChatID:         j.Index.ConversationID,
			DocID:          j.Index.DocID,
			URL:            j.Index.URL,
			FilePath:       j.Index.FilePath,
			TopicModel:     j.Index.TopicModel,
			Language:       j.Index.Language,
			NumberOfTopics: j.Index.NumberOfTopics,
		})
		return err
	case KindPrompt:
		if j.Prompt == nil {
			return fmt.Errorf("prompt job %s has no payload", j.ID)
		}
		_, err := completePrompt(ctx, w.client, w.messages, w.conversations, w.logger, *j.Prompt)
		return err
	default:
		return fmt.Errorf("unknown job kind %q", j.Kind)
	}
}

func (w *Worker) setStatus(ctx context.Context, jobID, status string) {
	if err := w.rdb.Set(ctx, statusKey(w.queue, jobID), status, statusTTL).Err(); err != nil {
		w.logger.Error("failed to set job status", "jobId", jobID, "status", status, "error", err)
	}
}
