package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/models"
)

func order(code, customer string, status models.OrderStatus) models.Order {
	return models.Order{ID: uuid.New(), Code: code, CustomerName: customer, Status: status}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	all := []models.Order{
		order("A1", "Nguyễn Văn A", models.OrderStatusPending),
		order("B2", "Trần Thị B", models.OrderStatusPending),
	}

	got := Filter(all, "a1", "")
	require.Len(t, got, 1)
	require.Equal(t, "A1", got[0].Code)
}

func TestFilterMatchesCustomerNameAndID(t *testing.T) {
	o := order("C3", "Phạm Văn Cường", models.OrderStatusShipping)
	all := []models.Order{o, order("D4", "Lê Thị D", models.OrderStatusPending)}

	require.Len(t, Filter(all, "cường", ""), 1)
	require.Len(t, Filter(all, o.ID.String()[:8], ""), 1)
	require.Empty(t, Filter(all, "no-such", ""))
}

func TestFilterByStatusExactMatch(t *testing.T) {
	all := []models.Order{
		order("A1", "A", models.OrderStatusPending),
		order("B2", "B", models.OrderStatusCancelled),
	}

	got := Filter(all, "", models.OrderStatusCancelled)
	require.Len(t, got, 1)
	require.Equal(t, models.OrderStatusCancelled, got[0].Status)
}

func TestFilterCombinesSearchAndStatus(t *testing.T) {
	all := []models.Order{
		order("A1", "An", models.OrderStatusPending),
		order("A2", "An", models.OrderStatusCancelled),
	}

	got := Filter(all, "an", models.OrderStatusCancelled)
	require.Len(t, got, 1)
	require.Equal(t, "A2", got[0].Code)
}

func TestAdminNextStatus(t *testing.T) {
	next, ok := AdminNextStatus(models.OrderStatusCompleted)
	require.True(t, ok)
	require.Equal(t, models.OrderStatusProcessing, next)

	next, ok = AdminNextStatus(models.OrderStatusProcessing)
	require.True(t, ok)
	require.Equal(t, models.OrderStatusShipping, next)

	for _, s := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusShipping,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		_, ok := AdminNextStatus(s)
		require.False(t, ok, "status %s must have no transition", s)
	}
}

func TestCustomerActions(t *testing.T) {
	require.Equal(t, []Action{ActionCancel}, CustomerActions(models.OrderStatusPending))
	require.Equal(t, []Action{ActionCancel, ActionMarkReceived}, CustomerActions(models.OrderStatusShipping))
	require.Equal(t, []Action{ActionCancel, ActionReview}, CustomerActions(models.OrderStatusCompleted))
	require.Equal(t, []Action{ActionCancel, ActionReview}, CustomerActions(models.OrderStatusDelivered))
	require.Empty(t, CustomerActions(models.OrderStatusCancelled))
}

func TestStatusMapsCoverEveryStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipping,
		models.OrderStatusDelivered,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	} {
		require.NotEqual(t, string(s), StatusLabel(s), "label missing for %s", s)
		require.NotEqual(t, "default", StatusColor(s), "color missing for %s", s)
	}
	require.Equal(t, "UNKNOWN", StatusLabel("UNKNOWN"))
	require.Equal(t, "default", StatusColor("UNKNOWN"))
}

func TestPaginate(t *testing.T) {
	var all []models.Order
	for i := 0; i < 25; i++ {
		all = append(all, order("X", "c", models.OrderStatusPending))
	}

	require.Len(t, Paginate(all, 1, 10), 10)
	require.Len(t, Paginate(all, 3, 10), 5)
	require.Empty(t, Paginate(all, 4, 10))
	require.Len(t, Paginate(all, 0, 0), 10, "defaults")
}
