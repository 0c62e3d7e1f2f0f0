// Package orders holds the pure view computations of the order screens:
// client-side filtering, fixed status maps and status-gated actions. All
// predicates run over the already-fetched order set; the server is never
// asked to filter.
package orders

import (
	"strings"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

var statusLabels = map[models.OrderStatus]string{
	models.OrderStatusPending:    "Chờ xử lý",
	models.OrderStatusProcessing: "Đang xử lý",
	models.OrderStatusShipping:   "Đang giao hàng",
	models.OrderStatusDelivered:  "Đã giao hàng",
	models.OrderStatusCompleted:  "Hoàn thành",
	models.OrderStatusCancelled:  "Đã hủy",
}

var statusColors = map[models.OrderStatus]string{
	models.OrderStatusPending:    "gold",
	models.OrderStatusProcessing: "blue",
	models.OrderStatusShipping:   "cyan",
	models.OrderStatusDelivered:  "green",
	models.OrderStatusCompleted:  "green",
	models.OrderStatusCancelled:  "red",
}

func StatusLabel(s models.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func StatusColor(s models.OrderStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "default"
}

// Filter applies the admin list predicates: a case-insensitive substring
// match over customer name, order code and id, combined with an exact status
// match. Empty search or status means no restriction.
func Filter(all []models.Order, search string, status models.OrderStatus) []models.Order {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if status != "" && o.Status != status {
			continue
		}
		if needle != "" && !matches(o, needle) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matches(o models.Order, needle string) bool {
	return strings.Contains(strings.ToLower(o.CustomerName), needle) ||
		strings.Contains(strings.ToLower(o.Code), needle) ||
		strings.Contains(strings.ToLower(o.ID.String()), needle)
}

// AdminNextStatus is the single transition the admin list offers per status:
// COMPLETED advances to processing, PROCESSING advances to shipping. Every
// other status is terminal or not actionable from that view.
func AdminNextStatus(s models.OrderStatus) (models.OrderStatus, bool) {
	switch s {
	case models.OrderStatusCompleted:
		return models.OrderStatusProcessing, true
	case models.OrderStatusProcessing:
		return models.OrderStatusShipping, true
	default:
		return "", false
	}
}

type Action string

const (
	ActionCancel       Action = "cancel"
	ActionMarkReceived Action = "mark_received"
	ActionReview       Action = "review"
)

// CustomerActions gates the buttons of the customer order list: cancel unless
// already cancelled, mark-received only while shipping, review only once
// completed or delivered.
func CustomerActions(s models.OrderStatus) []Action {
	var acts []Action
	if s != models.OrderStatusCancelled {
		acts = append(acts, ActionCancel)
	}
	if s == models.OrderStatusShipping {
		acts = append(acts, ActionMarkReceived)
	}
	if s == models.OrderStatusCompleted || s == models.OrderStatusDelivered {
		acts = append(acts, ActionReview)
	}
	return acts
}

// Paginate slices a filtered order list for display. Pages are 1-based;
// size is capped at 100 and defaults to 10.
func Paginate(all []models.Order, page, size int) []models.Order {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from := (page - 1) * size
	if from >= len(all) {
		return nil
	}
	to := from + size
	if to > len(all) {
		to = len(all)
	}
	return all[from:to]
}
