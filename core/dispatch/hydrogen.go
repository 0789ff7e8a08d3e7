package dispatch

import (
	"fmt"
	"math"

	"github.com/kilianp07/microgrid/core/component"
)

// HydrogenChain is the electrolyser, tank and fuel cell operated together as
// a second buffer.
type HydrogenChain struct {
	Electrolyser *component.Electrolyser
	Tank         *component.H2Storage
	FuelCell     *component.FuelCell
}

func (c *HydrogenChain) validate() error {
	if c.Electrolyser == nil || c.Tank == nil || c.FuelCell == nil {
		return fmt.Errorf("hydrogen chain requires electrolyser, tank and fuel cell")
	}
	return nil
}

func (c *HydrogenChain) reset() {
	c.Electrolyser.Reset()
	c.Tank.Reset()
	c.FuelCell.Reset()
}

// hydrogenBuffer adapts a HydrogenChain to the Buffer contract. Charging runs
// the electrolyser into the tank, discharging draws the tank through the fuel
// cell.
type hydrogenBuffer struct {
	chain    *HydrogenChain
	replaced func(component string, step, replacements int)
}

func (h *hydrogenBuffer) Name() string { return h.chain.Tank.Name() }

func (h *hydrogenBuffer) Charge(step int, power float64) float64 {
	ely, tank := h.chain.Electrolyser, h.chain.Tank
	used, kg := ely.ProduceWithin(power, tank.Headroom())
	if kg <= 0 {
		return 0
	}
	tank.Charge(step, kg)
	if ely.Record(step, used, kg) {
		h.notify(ely.Name(), step, ely.Replacements())
	}
	return used
}

func (h *hydrogenBuffer) Discharge(step int, power float64) float64 {
	fc, tank := h.chain.FuelCell, h.chain.Tank
	need := fc.HydrogenFor(power)
	if need <= 0 {
		return 0
	}
	kg := tank.Discharge(step, need)
	p := math.Min(fc.PowerFrom(kg), power)
	if p <= 0 {
		return 0
	}
	if fc.Operate(step, kg, fc.Params().Efficiency, p) {
		h.notify(fc.Name(), step, fc.Replacements())
	}
	return -p
}

func (h *hydrogenBuffer) notify(name string, step, n int) {
	if h.replaced != nil {
		h.replaced(name, step, n)
	}
}
