package notify

import (
	"context"
	"sync"
	"time"

	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/metrics"
)

const defaultQueueSize = 256

type job struct {
	event     string
	requestID int64
	managerID int64
}

// Async desacopla a entrega das notificações do fluxo da requisição HTTP.
// Os eventos vão para uma fila limitada consumida por um único worker; com a
// fila cheia o evento é descartado com um aviso no log.
type Async struct {
	next    Notifier
	log     logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	queue chan job
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewAsync inicia o worker. Close deve ser chamado no shutdown para drenar a fila.
func NewAsync(next Notifier, queueSize int, log logger.Logger, m *metrics.Metrics) *Async {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	a := &Async{
		next:    next,
		log:     log,
		metrics: m,
		timeout: 5 * time.Second,
		queue:   make(chan job, queueSize),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) NotifyApproved(_ context.Context, requestID, managerID int64) error {
	a.enqueue(job{event: EventApproved, requestID: requestID, managerID: managerID})
	return nil
}

func (a *Async) NotifyRejected(_ context.Context, requestID, managerID int64) error {
	a.enqueue(job{event: EventRejected, requestID: requestID, managerID: managerID})
	return nil
}

func (a *Async) enqueue(j job) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	fields := map[string]interface{}{"event": j.event, "request_id": j.requestID}
	if a.closed {
		a.log.Warn("Notificação descartada: fila encerrada", fields)
		a.metrics.NotificationDropped()
		return
	}

	select {
	case a.queue <- j:
	default:
		a.log.Warn("Notificação descartada: fila cheia", fields)
		a.metrics.NotificationDropped()
	}
}

func (a *Async) run() {
	defer a.wg.Done()
	for j := range a.queue {
		a.deliver(j)
	}
}

func (a *Async) deliver(j job) {
	// O contexto da requisição HTTP já terminou; cada entrega tem seu próprio prazo.
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	var err error
	switch j.event {
	case EventApproved:
		err = a.next.NotifyApproved(ctx, j.requestID, j.managerID)
	case EventRejected:
		err = a.next.NotifyRejected(ctx, j.requestID, j.managerID)
	}
	if err != nil {
		a.log.Error("Falha ao entregar notificação", err)
		a.metrics.NotificationFailed(j.event)
	}
}

// Close para de aceitar eventos e espera o worker entregar o que já está na fila.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
}
