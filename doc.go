// Package grove provides a reflection-based dependency injection context
// for Go that wires an object graph by fixed-point resolution.
//
// Components are declared into a [Context], then [Context.Resolve] runs
// rounds over the pending declarations. Each round, every pending
// declaration tries to resolve the parameters of its constructor or
// late-init method against the components resolved so far. Resolution stops
// when a round makes no progress; any declaration still pending is reported
// in an [UnresolvedError]. No topological sort is needed, so dependencies
// may be declared after their dependents.
//
// A singular parameter takes the one resolved component that matches it.
// While several match, the parameter stays open; use qualifiers to tell them
// apart.
//
// # Quick Start
//
//	c := grove.New()
//	c.Provide(NewDoor)
//	c.Provide(NewHouse) // func NewHouse(d *Door) *House
//	if err := c.Resolve(); err != nil {
//		log.Fatal(err)
//	}
//
//	house, err := grove.Get[*House](c)
//
// # Declarations
//
// [Context.Provide] declares the result of a constructor function.
// [Declare] declares a type built by its registered constructor (see
// [Context.Constructor]; with several constructors one must be
// [Designated]). [Supply] declares a pre-built instance. Declaring the same
// type twice yields two components.
//
// # Qualifiers
//
// Components may be declared under a qualifier:
//
//	grove.Supply(c, goldenDoor, grove.Qualified("goldenDoor"))
//
// A parameter asks for a qualified component with [ParamQualifiers] or with
// a parameter struct embedding [In]:
//
//	type palaceDeps struct {
//		grove.In
//		Door *Door `qualifier:"goldenDoor"`
//	}
//
// Only a component declared under exactly that qualifier satisfies the
// parameter. A singular parameter matched by more than one component never
// resolves.
//
// # Collections
//
// A parameter of type [All] receives every component assignable to its
// content type. It is injected only once every declaration that could
// contribute has been resolved:
//
//	func NewHouseKeeper(houses grove.All[*House]) *HouseKeeper
//
// # Late Init
//
// A type may have one method whose name starts with "LateInit". It is called
// once its parameters resolve, after construction or on a supplied instance:
//
//	func (g *Guard) LateInit(houses grove.All[Building])
package grove
