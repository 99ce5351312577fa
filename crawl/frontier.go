package crawl

import (
	"sync"

	"github.com/quietriver/sitesage/bloom"
)

// Frontier is a FIFO crawl queue with URL deduplication. URLs are marked
// seen when they are enqueued, so a URL can be queued (and therefore
// fetched) at most once. Seen URLs are tracked in a Bloom filter sized at
// construction.
type Frontier struct {
	mu    sync.Mutex
	queue []string
	seen  *bloom.Filter
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push enqueues a URL. Returns false if the URL has already been seen.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Test(url) {
		return false
	}
	f.seen.Add(url)
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the earliest queued URL. Returns false if the frontier is
// empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs waiting in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued or processed.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(url)
}
