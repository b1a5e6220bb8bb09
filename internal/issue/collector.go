package issue

import (
	"fmt"
	"sort"
	"sync"
)

// Collector buffers passing IssueInstance values and sorts them on Flush.
// Add is idempotent: an instance with the same (file, line, type,
// rendered message) key as one already stored is dropped, the dedup
// discipline the teacher's walker.addError performs before an error ever
// reaches its output slice.
type Collector struct {
	mu    sync.Mutex
	seen  map[string]bool
	items []IssueInstance
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: map[string]bool{}}
}

func dedupKey(ii IssueInstance) string {
	return fmt.Sprintf("%s|%s|%s|%s", ii.File, zeroPaddedLine(ii.Line), ii.Issue.TypeName, ii.Render())
}

// Add stores ii unless an equal instance is already present, or unless
// filter rejects it. Returns true if the instance was newly stored.
func (c *Collector) Add(ii IssueInstance, filter Filter) bool {
	if filter != nil && !filter.Allow(ii) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := dedupKey(ii)
	if c.seen[key] {
		return false
	}
	c.seen[key] = true
	c.items = append(c.items, ii)
	return true
}

// Flush returns every stored instance sorted lexicographically by
// (file, line zero-padded to 5 digits, issue type, message) per §8's
// "Issue ordering" property.
func (c *Collector) Flush() []IssueInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]IssueInstance, len(c.items))
	copy(out, c.items)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		la, lb := zeroPaddedLine(a.Line), zeroPaddedLine(b.Line)
		if la != lb {
			return la < lb
		}
		if a.Issue.TypeName != b.Issue.TypeName {
			return a.Issue.TypeName < b.Issue.TypeName
		}
		return a.Render() < b.Render()
	})
	return out
}

// Len reports how many distinct instances are currently buffered.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
