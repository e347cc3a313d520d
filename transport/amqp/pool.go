package amqp

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishPoolSize bounds the number of concurrent outbound channels.
const publishPoolSize = 10

// channelPool is a bounded pool of publish channels on one connection.
// Channels are opened lazily up to the capacity and put in confirm mode
// so publishes can wait for broker confirmation. Once the pool is full,
// acquire blocks until a channel is released.
type channelPool struct {
	conn *amqp.Connection
	idle chan *amqp.Channel

	mu   sync.Mutex
	open int
	cap  int
}

func newChannelPool(conn *amqp.Connection, capacity int) *channelPool {
	return &channelPool{
		conn: conn,
		idle: make(chan *amqp.Channel, capacity),
		cap:  capacity,
	}
}

func (p *channelPool) acquire() (*amqp.Channel, error) {
	select {
	case ch := <-p.idle:
		if ch.IsClosed() {
			return p.replace()
		}
		return ch, nil
	default:
	}

	p.mu.Lock()
	if p.open < p.cap {
		p.open++
		p.mu.Unlock()
		ch, err := p.dial()
		if err != nil {
			p.mu.Lock()
			p.open--
			p.mu.Unlock()
			return nil, err
		}
		return ch, nil
	}
	p.mu.Unlock()

	// Pool exhausted; wait for a release.
	ch := <-p.idle
	if ch.IsClosed() {
		return p.replace()
	}
	return ch, nil
}

// release returns a channel to the pool. Closed channels are discarded
// so the next acquire opens a fresh one.
func (p *channelPool) release(ch *amqp.Channel) {
	if ch.IsClosed() {
		p.mu.Lock()
		p.open--
		p.mu.Unlock()
		return
	}
	p.idle <- ch
}

func (p *channelPool) replace() (*amqp.Channel, error) {
	ch, err := p.dial()
	if err != nil {
		p.mu.Lock()
		p.open--
		p.mu.Unlock()
		return nil, err
	}
	return ch, nil
}

func (p *channelPool) dial() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return ch, nil
}

func (p *channelPool) close() {
	for {
		select {
		case ch := <-p.idle:
			ch.Close()
		default:
			return
		}
	}
}
