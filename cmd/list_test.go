package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/flexigo/internal/catalog"
)

func TestWriteItems(t *testing.T) {
	items := catalog.Query(catalog.DefaultItems(), catalog.DefaultQueryState().WithCategory(catalog.Transport))
	items[0].Favorite = true

	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, items))
	assert.Equal(t,
		"7\tBoda Boda\tTransport\tfavorite\n"+
			"3\tRental Cars\tTransport\t-\n"+
			"2\tReserve\tTransport\t-\n"+
			"1\tRide\tTransport\tpromo\n",
		buf.String())
}

func TestWriteItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeItems(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestListQueryOnlyAppliesChangedFlags(t *testing.T) {
	base := catalog.DefaultQueryState().WithSort(catalog.NameDesc)

	state, err := listQuery(listCmd, base)
	require.NoError(t, err)
	assert.Equal(t, base, state)

	require.NoError(t, listCmd.Flags().Set("category", "food"))
	require.NoError(t, listCmd.Flags().Set("search", "fo"))
	require.NoError(t, listCmd.Flags().Set("sort", "category"))
	state, err = listQuery(listCmd, base)
	require.NoError(t, err)
	assert.Equal(t, catalog.QueryState{
		Category: catalog.Food,
		Search:   "fo",
		Sort:     catalog.CategoryAsc,
	}, state)

	require.NoError(t, listCmd.Flags().Set("sort", "sideways"))
	_, err = listQuery(listCmd, base)
	assert.Error(t, err)

	require.NoError(t, listCmd.Flags().Set("sort", "name"))
	require.NoError(t, listCmd.Flags().Set("category", "boats"))
	_, err = listQuery(listCmd, base)
	assert.Error(t, err)
}
