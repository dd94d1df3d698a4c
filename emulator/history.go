package emulator

import (
	"github.com/ezrec/redcode/mars"
)

const (
	HISTORY_LIMIT = 1024 // Maximum number of steps kept for stepping back.
)

// Undo holds the prior values of the cells one step changed.
type Undo []mars.Cell

// History is a bounded stack of undo records, one per step. When full, the
// oldest record is discarded.
type History struct {
	Data []Undo
}

// Record pushes the undo record of the step from prog to next.
func (h *History) Record(prog, next mars.Program) {
	h.Push(prog.Changes(next))
}

func (h *History) Push(undo Undo) {
	if h.Full() {
		clear(h.Data[:1])
		h.Data = h.Data[1:]
	}
	h.Data = append(h.Data, undo)
}

func (h *History) Pop() (undo Undo, ok bool) {
	undo, ok = h.Peek()
	if ok {
		h.Data[len(h.Data)-1] = nil
		h.Data = h.Data[:len(h.Data)-1]
	}
	return
}

func (h *History) Empty() bool {
	return len(h.Data) == 0
}

func (h *History) Full() bool {
	return len(h.Data) == HISTORY_LIMIT
}

func (h *History) Len() int {
	return len(h.Data)
}

// Cells returns the number of cells held by every record.
func (h *History) Cells() (count int) {
	for _, undo := range h.Data {
		count += len(undo)
	}
	return
}

func (h *History) Peek() (undo Undo, ok bool) {
	if h.Empty() {
		return
	}

	return h.Data[len(h.Data)-1], true
}

func (h *History) Reset() {
	if len(h.Data) > 0 {
		clear(h.Data)
		h.Data = h.Data[:0]
	}
}
