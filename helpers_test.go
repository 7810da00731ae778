package grove

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Shared test types and constructors used across test files.

// mustProvide calls t.Fatal if the declaration fails.
func mustProvide(t *testing.T, c *Context, constructor any, opts ...Option) {
	t.Helper()
	require.NoError(t, c.Provide(constructor, opts...), "Provide")
}

// mustSupply calls t.Fatal if the declaration fails.
func mustSupply[T any](t *testing.T, c *Context, instance T, opts ...Option) {
	t.Helper()
	require.NoError(t, Supply(c, instance, opts...), "Supply")
}

// mustResolve calls t.Fatal if resolution fails.
func mustResolve(t *testing.T, c *Context) {
	t.Helper()
	require.NoError(t, c.Resolve(), "Resolve")
}

// mustGet calls t.Fatal if the lookup fails.
func mustGet[T any](t *testing.T, c *Context) T {
	t.Helper()
	v, err := Get[T](c)
	require.NoError(t, err, "Get")
	return v
}

type testDoor struct{ Locked bool }

type testBuilding interface {
	Entrance() *testDoor
}

type testHouse struct{ Door *testDoor }

func (h *testHouse) Entrance() *testDoor { return h.Door }

type testPalace struct{ Door *testDoor }

func (p *testPalace) Entrance() *testDoor { return p.Door }

type testPalaceDeps struct {
	In
	Door *testDoor `qualifier:"goldenDoor"`
}

// testJanitor is supplied pre-built and receives its building late.
type testJanitor struct {
	Building testBuilding
	calls    int
}

func (j *testJanitor) LateInit(b testBuilding) {
	j.Building = b
	j.calls++
}

// testGuard is supplied pre-built and watches every house.
type testGuard struct {
	Houses All[*testHouse]
}

func (g *testGuard) LateInit(houses All[*testHouse]) {
	g.Houses = houses
}

type testHouseKeeper struct {
	Houses All[*testHouse]
}

type testDoorStorage struct {
	Golden All[*testDoor]
	Silver All[*testDoor]
	Copper All[*testDoor]
	Every  All[*testDoor]
}

type testDoorStorageDeps struct {
	In
	Golden All[*testDoor] `qualifier:"goldenDoor"`
	Silver All[*testDoor] `qualifier:"silverDoor"`
	Copper All[*testDoor] `qualifier:"copperDoor"`
	Every  All[*testDoor]
}

// testGate is constructed and then finished by its late-init method.
type testGate struct {
	House *testHouse
	calls int
}

func (g *testGate) LateInitHouse(h *testHouse) {
	g.House = h
	g.calls++
}

// testWatcher looks after one building.
type testWatcher struct{ Building testBuilding }

// testWindow is itself a building, declared after the watcher it needs.
type testWindow struct{ Watcher *testWatcher }

func (w *testWindow) Entrance() *testDoor { return nil }

type testCycleA struct{ B *testCycleB }
type testCycleB struct{ A *testCycleA }

func newTestDoor() *testDoor                  { return &testDoor{Locked: true} }
func newTestHouse(d *testDoor) *testHouse     { return &testHouse{Door: d} }
func newTestGate() *testGate                  { return &testGate{} }
func newTestCycleA(b *testCycleB) *testCycleA { return &testCycleA{B: b} }
func newTestCycleB(a *testCycleA) *testCycleB { return &testCycleB{A: a} }

func newTestWatcher(b testBuilding) *testWatcher {
	return &testWatcher{Building: b}
}

func newTestWindow(w *testWatcher) *testWindow {
	return &testWindow{Watcher: w}
}

func newTestPalace(deps testPalaceDeps) *testPalace {
	return &testPalace{Door: deps.Door}
}

func newTestHouseKeeper(houses All[*testHouse]) *testHouseKeeper {
	return &testHouseKeeper{Houses: houses}
}

func newTestDoorStorage(deps testDoorStorageDeps) *testDoorStorage {
	return &testDoorStorage{
		Golden: deps.Golden,
		Silver: deps.Silver,
		Copper: deps.Copper,
		Every:  deps.Every,
	}
}
