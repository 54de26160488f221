package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	ex, err := New(DefaultMarkers())
	require.NoError(t, err)
	return NewCollector(ex)
}

func TestCollector_DuplicateShipmentsCountedOnce(t *testing.T) {
	c := newTestCollector(t)
	line := "ShipDocName=INV001ShipDocNumber=77ShipDocDate=2024-01-01/>"
	c.Add(line)
	c.Add(line)

	assert.Equal(t, []string{"INV001:77:2024-01-01", "INV001:77:2024-01-01"}, c.Values())
	assert.Equal(t, c.Values(), c.Records())
	assert.Equal(t, 1, c.UniqueCount())
	assert.Empty(t, c.Codes())
}

func TestCollector_CodesNeverEnterUniqueSet(t *testing.T) {
	c := newTestCollector(t)
	c.Add("<Code>AB12CD</Code>")
	c.Add("<Code>AB12CD</Code>")

	assert.Equal(t, []string{"AB12CD", "AB12CD"}, c.Codes())
	assert.Equal(t, []string{"AB12CD", "AB12CD"}, c.Values())
	assert.Empty(t, c.Records())
	assert.Equal(t, 0, c.UniqueCount())
}

func TestCollector_ItemsAndShipmentsShareSet(t *testing.T) {
	c := newTestCollector(t)
	c.Add("ItemName=a:b:cItemUnitCode=1")
	c.Add("ShipDocName=aShipDocNumber=bShipDocDate=c/>")

	assert.Equal(t, []string{"a:b:c", "a:b:c"}, c.Records())
	assert.Equal(t, 1, c.UniqueCount())
}

func TestCollector_EncounterOrder(t *testing.T) {
	c := newTestCollector(t)
	for _, line := range []string{
		"<Code>1</Code>",
		"ItemName=TyreItemUnitCode=796",
		"noise",
		"<Code>2</Code>",
		"ShipDocName=UPDShipDocNumber=9ShipDocDate=d/>",
	} {
		c.Add(line)
	}

	assert.Equal(t, []string{"1", "Tyre", "2", "UPD:9:d"}, c.Values())
	assert.Equal(t, []string{"Tyre", "UPD:9:d"}, c.Records())
	assert.Equal(t, []string{"1", "2"}, c.Codes())
	assert.Equal(t, 2, c.UniqueCount())
	assert.Equal(t, 5, c.Lines())
}

func TestCollector_Idempotent(t *testing.T) {
	lines := []string{
		"ShipDocName=AShipDocNumber=BShipDocDate=C/>",
		"ItemName=X&amp;YItemUnitCode=1",
		"<Code>K</Code>",
		"ShipDocName=AShipDocNumber=BShipDocDate=C/>",
	}

	run := func() *Collector {
		c := newTestCollector(t)
		for _, l := range lines {
			c.Add(l)
		}
		return c
	}
	first, second := run(), run()

	assert.Equal(t, first.Values(), second.Values())
	assert.Equal(t, first.Records(), second.Records())
	assert.Equal(t, first.Codes(), second.Codes())
	assert.Equal(t, first.UniqueCount(), second.UniqueCount())
}

func TestCollector_FailedScanIsNotCounted(t *testing.T) {
	c := NewCollector(nil)

	assert.Panics(t, func() { c.Add("<Code>1</Code>") })
	assert.Equal(t, 0, c.Lines())
	assert.Empty(t, c.Values())
}
