// Package sku reads and writes the packed book/quantity strings stored on sample requests and
// orders, e.g. "Atlas $ 5 // Map Set $ 3".
package sku

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	entrySeparator    = " // "
	quantitySeparator = " $ "
)

// Item is one book line of a packed string.
type Item struct {
	Name     string
	Quantity int
}

// Parse splits packed into items. Names are trimmed and empty names dropped. A missing or
// unparseable quantity reads as 0; anything after a second " $ " is ignored.
func Parse(packed string) []Item {
	if packed == "" {
		return nil
	}
	entries := strings.Split(packed, entrySeparator)
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(entry, quantitySeparator, 3)
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		qty := 0
		if len(parts) > 1 {
			qty = leadingInt(parts[1])
		}
		items = append(items, Item{Name: name, Quantity: qty})
	}
	return items
}

// leadingInt reads an optionally signed run of digits after leading whitespace.
func leadingInt(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ValidName reports whether name survives a Format/Parse round trip unchanged.
func ValidName(name string) bool {
	if name == "" || name != strings.TrimSpace(name) {
		return false
	}
	padded := " " + name + " "
	return !strings.Contains(padded, entrySeparator) && !strings.Contains(padded, quantitySeparator)
}

// Format packs items back into the stored representation.
func Format(items []Item) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(entrySeparator)
		}
		b.WriteString(item.Name)
		b.WriteString(quantitySeparator)
		b.WriteString(strconv.Itoa(item.Quantity))
	}
	return b.String()
}

// Count is an accumulated quantity for one book name.
type Count struct {
	Name     string
	Quantity int
}

// Tally accumulates quantities per book name, remembering first-encounter order.
type Tally struct {
	order []string
	index map[string]int
	total []int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// Add accumulates every item of a parsed record.
func (t *Tally) Add(items ...Item) {
	for _, item := range items {
		pos, ok := t.index[item.Name]
		if !ok {
			pos = len(t.order)
			t.index[item.Name] = pos
			t.order = append(t.order, item.Name)
			t.total = append(t.total, 0)
		}
		t.total[pos] += item.Quantity
	}
}

// AddPacked parses and accumulates a packed string.
func (t *Tally) AddPacked(packed string) {
	t.Add(Parse(packed)...)
}

// Len is the number of distinct names.
func (t *Tally) Len() int {
	return len(t.order)
}

// Counts returns the totals in first-encounter order.
func (t *Tally) Counts() []Count {
	out := make([]Count, len(t.order))
	for i, name := range t.order {
		out[i] = Count{Name: name, Quantity: t.total[i]}
	}
	return out
}

// Rank sorts the tally by quantity descending, ties keeping encounter order, and returns the first
// n entries and the last n entries. The bottom slice is reversed so the lowest quantity comes first.
func Rank(t *Tally, n int) (top, bottom []Count) {
	sorted := t.Counts()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quantity > sorted[j].Quantity
	})
	if n <= 0 {
		return []Count{}, []Count{}
	}
	topEnd := n
	if topEnd > len(sorted) {
		topEnd = len(sorted)
	}
	top = append([]Count{}, sorted[:topEnd]...)

	bottomStart := len(sorted) - n
	if bottomStart < 0 {
		bottomStart = 0
	}
	bottom = make([]Count, 0, len(sorted)-bottomStart)
	for i := len(sorted) - 1; i >= bottomStart; i-- {
		bottom = append(bottom, sorted[i])
	}
	return top, bottom
}
