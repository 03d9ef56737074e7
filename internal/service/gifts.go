package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/model"
)

// giftQueue is the pending-gift state of one page. unwrapping guards against
// a second unwrap starting while a reveal is in flight.
type giftQueue struct {
	gifts      []model.ReceivedGift
	unwrapping bool
	lastID     int64
}

// Exchange routes gifts to recipient queues and unwraps them FIFO.
type Exchange struct {
	mu          sync.Mutex
	revealDelay time.Duration
	now         func() time.Time
	byPage      map[string]*giftQueue
}

// NewExchange constructs the gift exchange. revealDelay is how long an unwrap
// takes before the head of the queue is surrendered.
func NewExchange(revealDelay time.Duration) *Exchange {
	return &Exchange{
		revealDelay: revealDelay,
		now:         time.Now,
		byPage:      make(map[string]*giftQueue),
	}
}

// Send wraps a gift and appends it to the recipient page's pending queue.
func (e *Exchange) Send(from, to string, template model.GiftTemplate, note string, wrapping model.Wrapping) (model.ReceivedGift, error) {
	if from == "" || to == "" {
		return model.ReceivedGift{}, errors.New("validation: empty sender/recipient")
	}
	if !template.Valid() {
		return model.ReceivedGift{}, errors.New("validation: unknown gift template")
	}
	if !wrapping.Valid() {
		return model.ReceivedGift{}, errors.New("validation: unknown wrapping option")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	q := e.byPage[to]
	if q == nil {
		q = &giftQueue{}
		e.byPage[to] = q
	}

	id := e.now().UnixMilli()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id

	g := model.ReceivedGift{
		ID:        id,
		FromLabel: from,
		Template:  template,
		Message:   note,
		Wrapping:  wrapping,
	}
	q.gifts = append(q.gifts, g)
	return g, nil
}

// Pending returns the number of gifts waiting to be unwrapped.
func (e *Exchange) Pending(page string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.byPage[page]
	if q == nil {
		return 0
	}
	return len(q.gifts)
}

// Unwrap reveals the oldest pending gift after the reveal delay and removes it
// from the queue. A cancelled context aborts the reveal and leaves the queue
// untouched. While a reveal is in flight, further unwraps fail with
// ErrUnwrapBusy rather than double-popping.
func (e *Exchange) Unwrap(ctx context.Context, page string) (model.ReceivedGift, error) {
	e.mu.Lock()
	q := e.byPage[page]
	if q == nil || len(q.gifts) == 0 {
		e.mu.Unlock()
		return model.ReceivedGift{}, errs.ErrNoGifts
	}
	if q.unwrapping {
		e.mu.Unlock()
		return model.ReceivedGift{}, errs.ErrUnwrapBusy
	}
	q.unwrapping = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		q.unwrapping = false
		e.mu.Unlock()
	}()

	if e.revealDelay > 0 {
		t := time.NewTimer(e.revealDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return model.ReceivedGift{}, ctx.Err()
		case <-t.C:
		}
	}

	e.mu.Lock()
	g := q.gifts[0]
	q.gifts = q.gifts[1:]
	e.mu.Unlock()
	return g, nil
}
