// Package cart reconciles user quantity edits against the server-reported
// cart. Every accepted edit is sent upstream immediately and the displayed
// quantity is taken from the refetched cart, never from the request.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

// ErrSuperseded marks a response that lost to a newer edit of the same item.
// Its result must be discarded, not rendered.
var ErrSuperseded = errors.New("edit superseded by a newer one")

// Clamp bounds a requested quantity to [1, stock]. stock <= 0 means the
// server did not report availability and only the lower bound applies.
// The second return reports whether a correction was made.
func Clamp(requested, stock int) (int, bool) {
	if requested < 1 {
		return 1, true
	}
	if stock > 0 && requested > stock {
		return stock, true
	}
	return requested, false
}

// CartFetcher is the slice of the API client the reconciler needs.
type CartFetcher interface {
	GetMyCart(ctx context.Context, creds api.Credentials) (models.Cart, error)
	UpdateCartItemQuantity(ctx context.Context, creds api.Credentials, itemID uuid.UUID, quantity int) (models.CartItem, error)
}

// Result of one quantity edit.
type Result struct {
	// Quantity is the server-authoritative value after reconciliation.
	Quantity int
	// Clamped is set when the request was corrected before sending; the view
	// surfaces a transient warning.
	Clamped bool
	// Warning is the user-facing clamp message, empty otherwise.
	Warning string
	// Item is the reconciled cart line from the refetched cart.
	Item models.CartItem
}

// Reconciler serializes edits per cart item with a generation counter: a
// response belonging to a superseded request is discarded, so the last
// *issued* edit wins rather than the last response to arrive.
type Reconciler struct {
	client CartFetcher

	mu   sync.Mutex
	gen  map[uuid.UUID]uint64
	last map[uuid.UUID]int
}

func NewReconciler(client CartFetcher) *Reconciler {
	return &Reconciler{
		client: client,
		gen:    make(map[uuid.UUID]uint64),
		last:   make(map[uuid.UUID]int),
	}
}

// begin registers a new edit of item and returns its generation.
func (r *Reconciler) begin(itemID uuid.UUID) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen[itemID]++
	return r.gen[itemID]
}

// current reports whether g is still the newest edit of item.
func (r *Reconciler) current(itemID uuid.UUID, g uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen[itemID] == g
}

func (r *Reconciler) remember(itemID uuid.UUID, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[itemID] = quantity
}

// LastKnown is the last server-confirmed quantity of item, falling back to
// fallback before any edit has resolved.
func (r *Reconciler) LastKnown(itemID uuid.UUID, fallback int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.last[itemID]; ok {
		return q
	}
	return fallback
}

// SetQuantity applies one user edit: clamp, send upstream, refetch, reconcile.
// On upstream failure the returned Result carries the last known server
// quantity so the view can revert, alongside the error.
func (r *Reconciler) SetQuantity(ctx context.Context, creds api.Credentials, item models.CartItem, requested int) (Result, error) {
	accepted, clamped := Clamp(requested, item.Stock)

	res := Result{Quantity: accepted, Clamped: clamped}
	if clamped {
		if requested < 1 {
			res.Warning = "Số lượng tối thiểu là 1"
		} else {
			res.Warning = fmt.Sprintf("Chỉ còn %d sản phẩm trong kho", item.Stock)
		}
	}

	g := r.begin(item.ID)

	if _, err := r.client.UpdateCartItemQuantity(ctx, creds, item.ID, accepted); err != nil {
		res.Quantity = r.LastKnown(item.ID, item.Quantity)
		return res, err
	}

	fresh, err := r.client.GetMyCart(ctx, creds)
	if err != nil {
		res.Quantity = r.LastKnown(item.ID, item.Quantity)
		return res, err
	}

	if !r.current(item.ID, g) {
		logging.FromContext(ctx).Debug("stale cart edit discarded", "item_id", item.ID, "generation", g)
		return res, ErrSuperseded
	}

	for _, line := range fresh.Items {
		if line.ID == item.ID {
			r.remember(item.ID, line.Quantity)
			res.Quantity = line.Quantity
			res.Item = line
			return res, nil
		}
	}
	// Item vanished server-side between update and refetch.
	res.Quantity = 0
	return res, nil
}
