package main

import (
	"fmt"
	"log/slog"

	"github.com/ARTM2000/grove"
)

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

type Door struct {
	Material string
	Locked   bool
}

// Building is anything with an entrance.
type Building interface {
	Entrance() *Door
}

type House struct {
	Door *Door
}

func (h *House) Entrance() *Door { return h.Door }

type Palace struct {
	Door *Door
}

func (p *Palace) Entrance() *Door { return p.Door }

type palaceDeps struct {
	grove.In
	Door *Door `qualifier:"golden"`
}

// Janitor is hired before the palace exists and assigned to it later.
type Janitor struct {
	Palace *Palace
}

func (j *Janitor) LateInit(p *Palace) {
	j.Palace = p
}

// Guard patrols every building in town.
type Guard struct {
	Buildings []Building
}

func (g *Guard) LateInit(buildings grove.All[Building]) {
	g.Buildings = buildings.Items()
}

type HouseKeeper struct {
	Houses grove.All[*House]
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func NewDoor() *Door {
	return &Door{Material: "timber", Locked: true}
}

func NewHouse(d *Door) *House {
	return &House{Door: d}
}

func NewPalace(deps palaceDeps) *Palace {
	return &Palace{Door: deps.Door}
}

func NewHouseKeeper(houses grove.All[*House]) *HouseKeeper {
	return &HouseKeeper{Houses: houses}
}

// ---------------------------------------------------------------------------
// Wiring
// ---------------------------------------------------------------------------

type townOptions struct {
	Houses int
	Golden bool
	Palace bool
}

// declareTown declares the town described by opts into a new context.
// Declaration order is deliberately scrambled; resolution does not depend
// on it.
func declareTown(opts townOptions, log *slog.Logger) (*grove.Context, error) {
	if opts.Houses < 0 {
		return nil, fmt.Errorf("houses must not be negative, got %d", opts.Houses)
	}

	c := grove.New(grove.WithLogger(log))

	if err := grove.Supply(c, &Guard{}); err != nil {
		return nil, err
	}
	if err := c.Provide(NewHouseKeeper); err != nil {
		return nil, err
	}
	for range opts.Houses {
		if err := c.Provide(NewHouse); err != nil {
			return nil, err
		}
	}
	if opts.Palace {
		if err := c.Provide(NewPalace); err != nil {
			return nil, err
		}
		if err := grove.Supply(c, &Janitor{}); err != nil {
			return nil, err
		}
	}
	if opts.Golden {
		golden := &Door{Material: "gold", Locked: true}
		if err := grove.Supply(c, golden, grove.Qualified("golden")); err != nil {
			return nil, err
		}
	}
	if err := c.Provide(NewDoor); err != nil {
		return nil, err
	}
	return c, nil
}
