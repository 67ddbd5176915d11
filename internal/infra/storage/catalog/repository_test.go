package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffServicesQuery(t *testing.T) {
	query, args, err := staffServicesQuery(7, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT s.id, s.shop_id, s.name, s.duration_minutes, s.active FROM services s "+
			"JOIN staff_services ss ON ss.service_id = s.id "+
			"WHERE ss.staff_id = $1 AND s.active = $2 ORDER BY s.name ASC",
		query)
	assert.Equal(t, []interface{}{int64(7), true}, args)
}

func TestStaffServicesQuery_FiltersRequestedIDs(t *testing.T) {
	query, args, err := staffServicesQuery(7, []int64{3, 1})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE ss.staff_id = $1 AND s.active = $2 AND s.id IN ($3,$4)")
	assert.Equal(t, []interface{}{int64(7), true, int64(3), int64(1)}, args)
}
