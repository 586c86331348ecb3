package core

import (
	"cmp"
	"slices"
	"sync"
)

// BuildOwner queues views that need rebuilding and rebuilds them parents
// first. A view is queued at most once per flush.
type BuildOwner struct {
	mu     sync.Mutex
	queue  []Element
	queued map[Element]struct{}

	// OnNeedsFrame is called whenever a view joins the queue, so a host loop
	// can schedule a frame.
	OnNeedsFrame func()
}

// NewBuildOwner creates an empty BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{queued: make(map[Element]struct{})}
}

// ScheduleBuild queues element for the next FlushBuild.
func (b *BuildOwner) ScheduleBuild(element Element) {
	b.mu.Lock()
	_, dup := b.queued[element]
	if !dup {
		b.queued[element] = struct{}{}
		b.queue = append(b.queue, element)
	}
	b.mu.Unlock()

	if !dup && b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// NeedsWork reports whether any view is queued.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue) > 0
}

// FlushBuild rebuilds queued views by ascending depth and returns how many
// were rebuilt. Views queued during the flush are rebuilt before it returns;
// unmounted views are skipped.
func (b *BuildOwner) FlushBuild() int {
	built := 0
	for {
		batch := b.take()
		if len(batch) == 0 {
			return built
		}
		for _, element := range batch {
			if m, ok := element.(interface{ isMounted() bool }); ok && !m.isMounted() {
				continue
			}
			element.RebuildIfNeeded()
			built++
		}
	}
}

func (b *BuildOwner) take() []Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	batch := b.queue
	b.queue = nil
	clear(b.queued)
	slices.SortStableFunc(batch, func(x, y Element) int { return cmp.Compare(x.Depth(), y.Depth()) })
	return batch
}
