// README: Ride aggregate and route builder tests.
package ride

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepool/internal/types"
)

func pax(id int, ox, oy, dx, dy float64) Passenger {
	return Passenger{
		DemandID:    id,
		Origin:      types.Point{X: ox, Y: oy},
		Destination: types.Point{X: dx, Y: dy},
	}
}

func TestBuild_EmptyClusterIsInvalidState(t *testing.T) {
	r, err := Build(nil, 1, 0)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, types.ErrInvalidState))
}

func TestBuild_SingleDemand(t *testing.T) {
	r, err := Build([]Passenger{pax(7, 0, 0, 3, 4)}, 2, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{7}, r.DemandIDs())
	require.Equal(t, 2, r.NumStops())
	require.Equal(t, 1, r.NumSegments())
	assert.Equal(t, Pickup, r.Stop(0).Kind)
	assert.Equal(t, Dropoff, r.Stop(1).Kind)
	assert.Equal(t, Transfer, r.Segment(0).Nature)
	assert.InDelta(t, 5.0, r.Distance(), 1e-9)
	assert.InDelta(t, 2.5, r.Duration(), 1e-9)
	assert.Equal(t, 5.0, r.StartTime())
	assert.False(t, r.Pooled())
}

func TestBuild_TwoPhaseLayout(t *testing.T) {
	members := []Passenger{
		pax(1, 0, 0, 10, 0),
		pax(2, 1, 0, 11, 0),
		pax(3, 2, 0, 12, 0),
	}
	r, err := Build(members, 1, 0)
	require.NoError(t, err)

	stops := r.Stops()
	require.Len(t, stops, 6)
	wantKinds := []StopKind{Pickup, Pickup, Pickup, Dropoff, Dropoff, Dropoff}
	wantIDs := []int{1, 2, 3, 1, 2, 3}
	for i, s := range stops {
		assert.Equal(t, wantKinds[i], s.Kind, "stop %d kind", i)
		assert.Equal(t, wantIDs[i], s.DemandID, "stop %d demand", i)
	}

	wantNature := []SegmentNature{Collection, Collection, Transfer, Delivery, Delivery}
	for i, seg := range r.Segments() {
		assert.Equal(t, wantNature[i], seg.Nature, "segment %d nature", i)
		assert.Equal(t, i, seg.From)
		assert.Equal(t, i+1, seg.To)
	}
	// 1 + 1 + 8 + 1 + 1
	assert.InDelta(t, 12.0, r.Distance(), 1e-9)
}

func TestBuild_StructuralInvariants(t *testing.T) {
	for n := 1; n <= 12; n++ {
		members := make([]Passenger, n)
		for i := range members {
			members[i] = pax(i+1, float64(i), 0, float64(i), 5)
		}
		r, err := Build(members, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, 2*r.NumDemands(), r.NumStops())
		assert.Equal(t, r.NumStops()-1, r.NumSegments())
	}
}

func TestBuild_DurationIsDistanceOverSpeed(t *testing.T) {
	r, err := Build([]Passenger{pax(1, 0, 0, 0, 10), pax(2, 0, 2, 0, 12)}, 4, 0)
	require.NoError(t, err)
	for _, seg := range r.Segments() {
		assert.InDelta(t, seg.Distance/4, seg.Duration, 1e-12)
	}
	assert.InDelta(t, r.Distance()/4, r.Duration(), 1e-9)
}

func TestComputeEfficiency(t *testing.T) {
	members := []Passenger{pax(1, 0, 0, 0, 10), pax(2, 0, 0, 0, 10)}
	r, err := Build(members, 1, 0)
	require.NoError(t, err)

	got := r.ComputeEfficiency(SoloDistances(members))
	assert.InDelta(t, 2.0, got, 1e-9)
	assert.InDelta(t, 2.0, r.Efficiency(), 1e-9)
}

func TestComputeEfficiency_ZeroDistanceIsOne(t *testing.T) {
	members := []Passenger{pax(1, 4, 4, 4, 4)}
	r, err := Build(members, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, r.Distance())
	assert.Equal(t, 1.0, r.ComputeEfficiency(SoloDistances(members)))
}

func TestComputeEfficiency_DetourBelowOne(t *testing.T) {
	// Parallel trips five units apart: the pooled route zig-zags between them.
	members := []Passenger{pax(1, 0, 0, 10, 0), pax(2, 0, 5, 10, 5)}
	r, err := Build(members, 1, 0)
	require.NoError(t, err)
	eff := r.ComputeEfficiency(SoloDistances(members))
	assert.Greater(t, eff, 0.0)
	assert.Less(t, eff, 1.0)
}

func TestContains(t *testing.T) {
	r := New(2)
	r.AddDemand(3)
	r.AddDemand(9)
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(9))
	assert.False(t, r.Contains(4))
}

func TestGrowthKeepsContents(t *testing.T) {
	r := New(1)
	for i := 0; i < 100; i++ {
		r.AddDemand(i)
		r.AddStop(Stop{Position: types.Point{X: float64(i)}, Kind: Pickup, DemandID: i})
	}
	ids := r.DemandIDs()
	require.Len(t, ids, 100)
	for i, id := range ids {
		assert.Equal(t, i, id)
		assert.Equal(t, float64(i), r.Stop(i).Position.X)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	r, err := Build([]Passenger{pax(1, 0, 0, 1, 1)}, 1, 0)
	require.NoError(t, err)

	ids := r.DemandIDs()
	ids[0] = 42
	stops := r.Stops()
	stops[0].DemandID = 42

	assert.Equal(t, 1, r.DemandIDs()[0])
	assert.Equal(t, 1, r.Stop(0).DemandID)
}

func TestSegmentEnds(t *testing.T) {
	r, err := Build([]Passenger{pax(1, 0, 0, 5, 5), pax(2, 1, 1, 6, 6)}, 1, 0)
	require.NoError(t, err)
	from, to := r.SegmentEnds(1)
	assert.Equal(t, Pickup, from.Kind)
	assert.Equal(t, 2, from.DemandID)
	assert.Equal(t, Dropoff, to.Kind)
	assert.Equal(t, 1, to.DemandID)
}

func TestOnboardDistance(t *testing.T) {
	r, err := Build([]Passenger{pax(1, 0, 0, 0, 10), pax(2, 0, 1, 0, 11)}, 1, 0)
	require.NoError(t, err)
	// P1(0,0) -> P2(0,1) -> D1(0,10) -> D2(0,11)
	assert.InDelta(t, 10.0, r.OnboardDistance(1), 1e-9)
	assert.InDelta(t, 10.0, r.OnboardDistance(2), 1e-9)
	assert.Equal(t, 0.0, r.OnboardDistance(99))
}

func TestNatureString(t *testing.T) {
	assert.Equal(t, "collection", Collection.String())
	assert.Equal(t, "delivery", Delivery.String())
	assert.Equal(t, "transfer", Transfer.String())
	assert.Equal(t, "pickup", Pickup.String())
	assert.Equal(t, "dropoff", Dropoff.String())
}
