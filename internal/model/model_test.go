package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ReservationStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusConfirmed, true},
		{StatusConfirmed, StatusRejected, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusRejected, StatusConfirmed, true},
		{StatusRejected, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusRejected, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusRejected.Terminal())
	assert.False(t, ReservationStatus("archived").Valid())
}

func TestSourcesForReturnsCopy(t *testing.T) {
	src := SourcesFor(StatusCompleted)
	require.Equal(t, []ReservationStatus{StatusConfirmed}, src)
	src[0] = StatusPending
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.Empty(t, SourcesFor(StatusPending))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("vendor")
	assert.True(t, ok)
	assert.Equal(t, RoleVendor, r)
	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestDate(t *testing.T) {
	d, err := ParseDate(" 2025-06-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", d.String())
	assert.Equal(t, "2025-07-01", d.AddDays(30).String())
	assert.True(t, d.Before(d.AddDays(1)))

	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)

	b, err := json.Marshal(struct {
		On   Date `json:"on"`
		Zero Date `json:"zero"`
	}{On: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2025-06-01","zero":null}`, string(b))

	var back struct {
		On Date `json:"on"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2025-06-01"}`), &back))
	assert.Equal(t, d.String(), back.On.String())

	local := time.Date(2025, 6, 1, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	assert.Equal(t, "2025-06-02", DateOf(local).String())

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-01", scanned.String())
	v, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", v)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("14:00")
	require.NoError(t, err)
	assert.Equal(t, "14:00:00", c)
	c, err = ParseClock("09:30:15")
	require.NoError(t, err)
	assert.Equal(t, "09:30:15", c)
	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestStringList(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = StringList{"a.jpg"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a.jpg"]`, v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a.jpg","b.jpg"]`)))
	assert.Equal(t, StringList{"a.jpg", "b.jpg"}, l)
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	assert.Error(t, l.Scan(42))
}

func TestServiceDisplayPrice(t *testing.T) {
	assert.Equal(t, "$1,500.00", Service{Price: 1500, PriceType: PriceFixed}.DisplayPrice())
	assert.Equal(t, "$2,400.00/day", Service{Price: 2400, PriceType: PricePerDay}.DisplayPrice())
	assert.Equal(t, "$85.50/guest", Service{Price: 85.5, PriceType: PricePerGuest}.DisplayPrice())
	assert.Equal(t, "$3,000.00+", Service{Price: 3000, PriceType: PriceCustom}.DisplayPrice())

	b, err := json.Marshal(Service{ID: 7, Name: "Full day", Price: 150, PriceType: PricePerHour})
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "$150.00/hour", out["display_price"])
	assert.Equal(t, "per_hour", out["price_type"])
	assert.EqualValues(t, 7, out["id"])
}
