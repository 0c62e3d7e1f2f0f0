// Package checkout drives the cart-to-payment workflow: an editing form, an
// explicit confirmation step and a single submission that creates the order
// and fetches the payment redirect URL.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

type State string

const (
	StateEditing    State = "editing"
	StateConfirming State = "confirming"
	StateSubmitting State = "submitting"
)

var (
	ErrNotConfirming = errors.New("no confirmed form to submit")
	ErrInFlight      = errors.New("submission already in flight")
)

// Form is the checkout input. Field order matters: the first failing field is
// the one reported.
type Form struct {
	RecipientName    string `json:"recipientName" validate:"required"`
	RecipientPhone   string `json:"recipientPhone" validate:"required"`
	RecipientAddress string `json:"recipientAddress" validate:"required"`
	DeliveryDate     string `json:"deliveryDate" validate:"required"`
	DeliveryTime     string `json:"deliveryTime" validate:"required"`
	Note             string `json:"note"`
}

var fieldMessages = map[string]string{
	"RecipientName":    "Vui lòng nhập tên người nhận",
	"RecipientPhone":   "Vui lòng nhập số điện thoại người nhận",
	"RecipientAddress": "Vui lòng nhập địa chỉ giao hàng",
	"DeliveryDate":     "Vui lòng chọn ngày giao hàng",
	"DeliveryTime":     "Vui lòng chọn giờ giao hàng",
}

var validate = validator.New()

// Validate reports the first failing required field.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].StructField()]; ok {
			return errors.New(msg)
		}
	}
	return err
}

// DeliveryAt combines the date and time fields into one timestamp in loc.
func (f Form) DeliveryAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", f.DeliveryDate+" "+f.DeliveryTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delivery date/time: %w", err)
	}
	return t, nil
}

// OrderPlacer is the slice of the API client the flow needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, creds api.Credentials, req api.CreateOrderRequest) (models.Order, error)
	PaymentURL(ctx context.Context, creds api.Credentials, orderID uuid.UUID) (string, error)
}

// Flow is one user's checkout state machine:
// editing -> confirming -> submitting -> done | back to editing with error.
type Flow struct {
	mu      sync.Mutex
	state   State
	form    Form
	lastErr string
}

func NewFlow() *Flow {
	return &Flow{state: StateEditing}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError is the message the editing view shows after a failed transition
// or submission.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Begin validates the form and moves editing -> confirming. A validation
// failure keeps the flow in editing and records the first failing field.
func (f *Flow) Begin(form Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrInFlight
	}
	if err := form.Validate(); err != nil {
		f.state = StateEditing
		f.lastErr = err.Error()
		return err
	}
	f.form = form
	f.state = StateConfirming
	f.lastErr = ""
	return nil
}

// Summary restates the values awaiting confirmation.
func (f *Flow) Summary() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SetDate records a newly selected delivery date while editing. Picking a
// different date discards any previously chosen time.
func (f *Flow) SetDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.form.DeliveryDate != date {
		f.form.DeliveryDate = date
		f.form.DeliveryTime = ""
	}
}

// Cancel returns from confirming to editing with no side effect.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateConfirming {
		f.state = StateEditing
	}
}

// Submission is a successful checkout: the created order plus the gateway
// redirect URL that terminates the flow.
type Submission struct {
	Order      models.Order
	PaymentURL string
}

// ErrOrderCreated wraps a payment-URL failure after the order already exists
// upstream. There is no compensating rollback; the order stays pending.
type ErrOrderCreated struct {
	OrderID uuid.UUID
	Err     error
}

func (e *ErrOrderCreated) Error() string {
	return fmt.Sprintf("order %s created but payment url failed: %v", e.OrderID, e.Err)
}

func (e *ErrOrderCreated) Unwrap() error { return e.Err }

// Submit runs the confirmed checkout. On any failure the flow returns to
// editing carrying the error; on success the flow is terminal.
func (f *Flow) Submit(ctx context.Context, placer OrderPlacer, creds api.Credentials, items []uuid.UUID, shippingFee int64, loc *time.Location) (Submission, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return Submission{}, ErrInFlight
	case StateConfirming:
	default:
		f.mu.Unlock()
		return Submission{}, ErrNotConfirming
	}
	form := f.form
	f.state = StateSubmitting
	f.mu.Unlock()

	fail := func(err error) (Submission, error) {
		f.mu.Lock()
		f.state = StateEditing
		f.lastErr = userMessage(err)
		f.mu.Unlock()
		return Submission{}, err
	}

	deliveryAt, err := form.DeliveryAt(loc)
	if err != nil {
		return fail(err)
	}

	req := api.CreateOrderRequest{
		RecipientName:    form.RecipientName,
		RecipientPhone:   form.RecipientPhone,
		RecipientAddress: form.RecipientAddress,
		Note:             form.Note,
		DeliveryAt:       deliveryAt,
		ShippingFee:      shippingFee,
	}
	for _, id := range items {
		req.Items = append(req.Items, api.CreateOrderItem{CartItemID: id})
	}

	order, err := placer.CreateOrder(ctx, creds, req)
	if err != nil {
		return fail(err)
	}

	url, err := placer.PaymentURL(ctx, creds, order.ID)
	if err != nil {
		return fail(&ErrOrderCreated{OrderID: order.ID, Err: err})
	}

	return Submission{Order: order, PaymentURL: url}, nil
}

func userMessage(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.UserMessage()
	}
	return err.Error()
}

// Manager hands out one flow per user.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

func NewManager() *Manager {
	return &Manager{flows: make(map[string]*Flow)}
}

func (m *Manager) Flow(subject string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	fl, ok := m.flows[subject]
	if !ok {
		fl = NewFlow()
		m.flows[subject] = fl
	}
	return fl
}

// Reset drops a user's flow, e.g. after a successful payment redirect.
func (m *Manager) Reset(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, subject)
}
