package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/jingleboxpro/jinglebox/internal/errs"
	"github.com/jingleboxpro/jinglebox/internal/model"
)

// ornamentSlots is the hand-authored pool of candidate positions for message
// ornaments, normalized to [0,100] on both axes and roughly following the
// silhouette of the tree: narrow near the star, wide near the base.
var ornamentSlots = []model.Position{
	{X: 50, Y: 14},
	{X: 44, Y: 22}, {X: 56, Y: 22},
	{X: 39, Y: 30}, {X: 50, Y: 30}, {X: 61, Y: 30},
	{X: 35, Y: 39}, {X: 45, Y: 39}, {X: 55, Y: 39}, {X: 65, Y: 39},
	{X: 31, Y: 48}, {X: 41, Y: 48}, {X: 51, Y: 48}, {X: 61, Y: 48}, {X: 70, Y: 48},
	{X: 27, Y: 58}, {X: 38, Y: 58}, {X: 49, Y: 58}, {X: 60, Y: 58}, {X: 73, Y: 58},
	{X: 23, Y: 68}, {X: 36, Y: 68}, {X: 50, Y: 68}, {X: 64, Y: 68}, {X: 77, Y: 68},
	{X: 19, Y: 78}, {X: 33, Y: 78}, {X: 47, Y: 78}, {X: 61, Y: 78}, {X: 75, Y: 78},
}

// BoardCapacity is the number of messages a single tree can hold.
var BoardCapacity = len(ornamentSlots)

// board is the in-memory message state of one page.
type board struct {
	messages []model.Message
	occupied map[int]bool // index into ornamentSlots
	lastID   int64
}

// Boards holds the per-page message boards for the lifetime of the process.
// Messages are session state and are deliberately never persisted.
type Boards struct {
	mu     sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	byPage map[string]*board
}

// NewBoards constructs the message board registry.
func NewBoards() *Boards {
	return &Boards{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		byPage: make(map[string]*board),
	}
}

// Add pins a message to the page's tree on a random free slot.
// Returns ErrBoardFull when every slot is taken.
func (b *Boards) Add(page, text, sender string) (model.Message, error) {
	if page == "" || text == "" || sender == "" {
		return model.Message{}, errors.New("validation: empty page/text/sender")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	brd := b.byPage[page]
	if brd == nil {
		brd = &board{occupied: make(map[int]bool)}
		b.byPage[page] = brd
	}

	free := make([]int, 0, len(ornamentSlots))
	for i := range ornamentSlots {
		if !brd.occupied[i] {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return model.Message{}, errs.ErrBoardFull
	}
	slot := free[b.rng.Intn(len(free))]
	brd.occupied[slot] = true

	// Millisecond timestamps collide under load; bump to keep IDs unique
	// and strictly increasing within a page.
	id := b.now().UnixMilli()
	if id <= brd.lastID {
		id = brd.lastID + 1
	}
	brd.lastID = id

	msg := model.Message{
		ID:          id,
		Text:        text,
		SenderLabel: sender,
		Position:    ornamentSlots[slot],
	}
	brd.messages = append(brd.messages, msg)
	return msg, nil
}

// List returns the page's messages in insertion order.
func (b *Boards) List(page string) []model.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	brd := b.byPage[page]
	if brd == nil {
		return nil
	}
	out := make([]model.Message, len(brd.messages))
	copy(out, brd.messages)
	return out
}

// Count returns the number of messages pinned to the page.
func (b *Boards) Count(page string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	brd := b.byPage[page]
	if brd == nil {
		return 0
	}
	return len(brd.messages)
}
