package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"health-heroes/internal/pkg/common"

	"go.uber.org/zap"
)

// Task 排入佇列的工作
type Task func(ctx context.Context) error

// Request 隊列請求
type Request struct {
	Context context.Context
	Name    string
	Task    Task
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Name  string
	Error error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 固定數量 worker 的工作佇列，用於限制同時進行的 AI 呼叫
type Manager struct {
	workers   int
	maxSize   int
	queue     chan *Request
	done      chan struct{}
	wg        sync.WaitGroup
	processed atomic.Int64
	failed    atomic.Int64
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(workers, maxSize int) *Manager {
	if workers <= 0 {
		workers = 1
	}
	if maxSize <= 0 {
		maxSize = workers
	}
	return &Manager{
		workers: workers,
		maxSize: maxSize,
		queue:   make(chan *Request, maxSize),
		done:    make(chan struct{}),
	}
}

// Start 啟動 worker，ctx 取消後 worker 會在目前工作完成後結束
func (m *Manager) Start(ctx context.Context) {
	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}
}

func (m *Manager) worker(ctx context.Context, id int) {
	defer m.wg.Done()
	for {
		select {
		case req, ok := <-m.queue:
			if !ok {
				return
			}
			err := req.Task(req.Context)
			m.processed.Add(1)
			if err != nil {
				m.failed.Add(1)
				common.LogWarn("Task failed",
					zap.Int("worker", id),
					zap.String("task", req.Name),
					zap.Error(err),
				)
			}
			req.Result <- Result{Name: req.Name, Error: err}
		case <-ctx.Done():
			return
		}
	}
}

// Enqueue 將工作加入隊列，回傳接收結果的 channel
func (m *Manager) Enqueue(ctx context.Context, name string, task Task) (<-chan Result, error) {
	req := &Request{
		Context: ctx,
		Name:    name,
		Task:    task,
		Result:  make(chan Result, 1),
	}

	select {
	case <-m.done:
		return nil, fmt.Errorf("queue manager is closed")
	default:
	}

	select {
	case m.queue <- req:
		common.LogDebug("Task enqueued",
			zap.String("task", name),
			zap.Int("queue_length", len(m.queue)),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("queue is full")
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(m.processed.Load()),
		FailedCount:    int(m.failed.Load()),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止接受新工作，等待佇列中的工作處理完畢
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		close(m.queue)
	})
	m.wg.Wait()
}
