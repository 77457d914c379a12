package grid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"quick-order/internal/domain"

	"github.com/sahilm/fuzzy"
)

var (
	ErrRowNotFound     = errors.New("variant not found in grid")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrClosed          = errors.New("grid has been released")
)

// DefaultDebounce is how long filter input must stay quiet before the filter
// predicate is recomputed.
const DefaultDebounce = 500 * time.Millisecond

// rowState is the transient per-variant state of one grid row: the variant
// snapshot it was seeded with, the uncommitted input buffer, the committed
// quantity and the availability advisory. Rows are keyed by variant id, never
// by position, so filtering cannot misattribute an edit.
type rowState struct {
	variant   domain.Variant
	buffer    string
	committed string
	notice    string
}

// RowView is the renderable snapshot of a grid row.
type RowView struct {
	VariantID         string `json:"variantId"`
	SKU               string `json:"sku"`
	Title             string `json:"title"`
	UnitPrice         string `json:"unitPrice"`
	QuantityAvailable *int   `json:"quantityAvailable,omitempty"`
	Quantity          string `json:"quantity"`
	Notice            string `json:"notice,omitempty"`
}

// Grid holds the interactive state of one product's variant table. It owns a
// local copy of the variant list seeded at construction; upstream data is
// never re-synced into it. All methods are safe for concurrent use.
type Grid struct {
	mu       sync.Mutex
	order    []string
	rows     map[string]*rowState
	debounce time.Duration

	pendingFilter string
	appliedFilter string
	visible       []string
	timer         *time.Timer
	applies       int
	closed        bool
}

// New seeds a grid from a product's merged variants.
func New(variants []domain.Variant, debounce time.Duration) *Grid {
	g := &Grid{
		order:    make([]string, 0, len(variants)),
		rows:     make(map[string]*rowState, len(variants)),
		debounce: debounce,
	}
	for _, v := range variants {
		if _, exists := g.rows[v.ID]; exists {
			continue
		}
		g.order = append(g.order, v.ID)
		g.rows[v.ID] = &rowState{variant: v}
	}
	g.visible = g.order
	return g
}

// SetFilter records a new global filter query. The ranked filter is only
// recomputed once the input has been quiet for the debounce window; a rapid
// sequence of calls results in exactly one recompute, with the final value.
func (g *Grid) SetFilter(query string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}

	g.pendingFilter = query
	if g.debounce <= 0 {
		g.applyFilterLocked()
		return nil
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.debounce, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed {
			return
		}
		g.applyFilterLocked()
	})
	return nil
}

// applyFilterLocked recomputes the visible row set for the pending query.
// A row passes if any of its searchable column values ranks against the
// query; passing rows are ordered by their best rank, stable on seed order.
func (g *Grid) applyFilterLocked() {
	g.appliedFilter = g.pendingFilter
	g.applies++

	if g.appliedFilter == "" {
		g.visible = g.order
		return
	}

	type ranked struct {
		id    string
		score int
	}
	var passed []ranked
	for _, id := range g.order {
		row := g.rows[id]
		if score, ok := rankRow(g.appliedFilter, row.variant); ok {
			passed = append(passed, ranked{id: id, score: score})
		}
	}
	sort.SliceStable(passed, func(i, j int) bool {
		return passed[i].score > passed[j].score
	})

	visible := make([]string, 0, len(passed))
	for _, p := range passed {
		visible = append(visible, p.id)
	}
	g.visible = visible
}

// rankRow fuzzy-ranks the query against the row's visible column values: SKU
// suffix, title and the rendered unit price. It returns the best score and
// whether any column matched.
func rankRow(query string, v domain.Variant) (int, bool) {
	columns := []string{
		v.ShortID(),
		v.Title,
		domain.FormatMoney(v.Price),
	}
	matches := fuzzy.Find(query, columns)
	if len(matches) == 0 {
		return 0, false
	}
	best := matches[0].Score
	for _, m := range matches[1:] {
		if m.Score > best {
			best = m.Score
		}
	}
	return best, true
}

// Input buffers a quantity keystroke for a row and clears any previous
// advisory. When the variant's availability is unknown the value commits
// immediately; bounded rows commit on blur via Commit.
func (g *Grid) Input(variantID, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	row, ok := g.rows[variantID]
	if !ok {
		return ErrRowNotFound
	}

	row.notice = ""
	row.buffer = value
	if row.variant.QuantityAvailable == nil {
		row.committed = value
	}
	return nil
}

// Commit applies a row's buffered quantity (the blur path). If availability
// is known and the entered value exceeds it, the committed value is clamped
// to the maximum and an advisory notice is surfaced; the notice stays until
// the next edit.
func (g *Grid) Commit(variantID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	row, ok := g.rows[variantID]
	if !ok {
		return ErrRowNotFound
	}

	available := row.variant.QuantityAvailable
	if available == nil {
		row.committed = row.buffer
		return nil
	}

	if entered, err := strconv.Atoi(row.buffer); err == nil && entered > *available {
		row.committed = strconv.Itoa(*available)
		row.buffer = row.committed
		row.notice = fmt.Sprintf("only %d available", *available)
		return nil
	}
	row.committed = row.buffer
	return nil
}

// AddToCart builds the cart line for a row from its committed quantity.
// Non-numeric or non-positive quantities are rejected rather than coerced
// into an invalid line.
func (g *Grid) AddToCart(variantID string) (domain.CartLine, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return domain.CartLine{}, ErrClosed
	}
	row, ok := g.rows[variantID]
	if !ok {
		return domain.CartLine{}, ErrRowNotFound
	}

	quantity, err := strconv.Atoi(row.committed)
	if err != nil || quantity <= 0 {
		return domain.CartLine{}, ErrInvalidQuantity
	}

	return domain.CartLine{
		MerchandiseID: row.variant.ID,
		Quantity:      quantity,
	}, nil
}

// Rows returns the current filtered view of the grid.
func (g *Grid) Rows() []RowView {
	g.mu.Lock()
	defer g.mu.Unlock()

	views := make([]RowView, 0, len(g.visible))
	for _, id := range g.visible {
		row := g.rows[id]
		views = append(views, RowView{
			VariantID:         row.variant.ID,
			SKU:               row.variant.ShortID(),
			Title:             row.variant.Title,
			UnitPrice:         domain.FormatMoney(row.variant.Price),
			QuantityAvailable: row.variant.QuantityAvailable,
			Quantity:          row.committed,
			Notice:            row.notice,
		})
	}
	return views
}

// Row returns the renderable snapshot of a single row.
func (g *Grid) Row(variantID string) (RowView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	row, ok := g.rows[variantID]
	if !ok {
		return RowView{}, ErrRowNotFound
	}
	return RowView{
		VariantID:         row.variant.ID,
		SKU:               row.variant.ShortID(),
		Title:             row.variant.Title,
		UnitPrice:         domain.FormatMoney(row.variant.Price),
		QuantityAvailable: row.variant.QuantityAvailable,
		Quantity:          row.committed,
		Notice:            row.notice,
	}, nil
}

// Close releases the grid and cancels any pending filter timer. Further
// mutations fail with ErrClosed.
func (g *Grid) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
