package mailer

import (
	"context"
	"log"
	"sync"
	"time"
)

// PoolConfig holds delivery worker configuration.
type PoolConfig struct {
	Workers    int
	QueueSize  int
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultPoolConfig returns the default pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:    2,
		QueueSize:  64,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}
}

// Pool delivers queued mail on background workers. Delivery is best
// effort: a message that exhausts its retries is logged and dropped.
type Pool struct {
	config PoolConfig
	sender *Sender
	queue  chan Message
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewPool creates a delivery pool around a sender.
func NewPool(config PoolConfig, sender *Sender) *Pool {
	return &Pool{
		config: config,
		sender: sender,
		queue:  make(chan Message, config.QueueSize),
	}
}

// Start launches the delivery workers.
func (p *Pool) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker(workerCtx, i)
	}
}

// Stop drains in-flight deliveries and stops the workers.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Enqueue queues a message for delivery. Returns false when the queue is
// full; the message is dropped rather than blocking the caller.
func (p *Pool) Enqueue(msg Message) bool {
	select {
	case p.queue <- msg:
		return true
	default:
		log.Printf("[mailer] queue full, dropping mail to %s", msg.To)
		return false
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		}
	}
}

func (p *Pool) deliver(ctx context.Context, msg Message) {
	var err error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.config.RetryDelay):
			}
		}

		if err = p.sender.Send(msg); err == nil {
			return
		}
		log.Printf("[mailer] delivery attempt %d to %s failed: %v", attempt+1, msg.To, err)
	}
	log.Printf("[mailer] giving up on mail to %s: %v", msg.To, err)
}
