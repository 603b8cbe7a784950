package game

import (
	"math"
	"time"

	"cryptofarm/internal/domain"
	"cryptofarm/internal/formula"
)

// CellSize converts grid cells to presentation coordinates.
const CellSize = 2

// ComputerInventory owns the placed computers. Cell occupancy is derived
// from the slice; there is no second index to keep in sync.
type ComputerInventory struct {
	items []*domain.OwnedComputer
}

func (inv *ComputerInventory) Len() int { return len(inv.items) }

// All returns copies in purchase order.
func (inv *ComputerInventory) All() []domain.OwnedComputer {
	out := make([]domain.OwnedComputer, 0, len(inv.items))
	for _, c := range inv.items {
		out = append(out, *c)
	}
	return out
}

func (inv *ComputerInventory) get(id string) (*domain.OwnedComputer, bool) {
	for _, c := range inv.items {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// CountTier counts owned computers of a tier.
func (inv *ComputerInventory) CountTier(tier int) int {
	n := 0
	for _, c := range inv.items {
		if c.Type.Tier == tier {
			n++
		}
	}
	return n
}

// CountClass counts owned computers of a class.
func (inv *ComputerInventory) CountClass(class domain.ComputerClass) int {
	n := 0
	for _, c := range inv.items {
		if c.Type.Class == class {
			n++
		}
	}
	return n
}

// MiningRates lists catalog base rates, used by offline reconciliation.
func (inv *ComputerInventory) MiningRates() []float64 {
	rates := make([]float64, 0, len(inv.items))
	for _, c := range inv.items {
		rates = append(rates, c.Type.MiningRate)
	}
	return rates
}

func (inv *ComputerInventory) occupied(cell domain.Cell, except string) bool {
	for _, c := range inv.items {
		if c.Cell == cell && c.ID != except {
			return true
		}
	}
	return false
}

// FreeCell scans the grid row by row and returns the first unoccupied cell.
func (inv *ComputerInventory) FreeCell(grid formula.GridSize) (domain.Cell, bool) {
	for z := 0; z < grid.Height; z++ {
		for x := 0; x < grid.Width; x++ {
			cell := domain.Cell{X: x, Z: z}
			if !inv.occupied(cell, "") {
				return cell, true
			}
		}
	}
	return domain.Cell{}, false
}

// InGrid reports whether a cell lies in the unlocked region.
func InGrid(cell domain.Cell, grid formula.GridSize) bool {
	return cell.X >= 0 && cell.Z >= 0 && cell.X < grid.Width && cell.Z < grid.Height
}

func (inv *ComputerInventory) add(c *domain.OwnedComputer) {
	inv.items = append(inv.items, c)
}

func (inv *ComputerInventory) remove(id string) (*domain.OwnedComputer, bool) {
	for i, c := range inv.items {
		if c.ID == id {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// move places a computer on another cell after bounds and occupancy checks.
func (inv *ComputerInventory) move(id string, cell domain.Cell, grid formula.GridSize) error {
	c, ok := inv.get(id)
	if !ok {
		return ErrNotFound
	}
	if !InGrid(cell, grid) || inv.occupied(cell, id) {
		return ErrInvalidPosition
	}
	c.Cell = cell
	return nil
}

// collect moves the pending amount out of a computer.
func (inv *ComputerInventory) collect(c *domain.OwnedComputer, now time.Time) int64 {
	if c.PendingEarnings <= 0 {
		return 0
	}
	amount := c.PendingEarnings
	c.PendingEarnings = 0
	c.LastCollectedAt = now
	return amount
}

// assignToken points every computer at a token.
func (inv *ComputerInventory) assignToken(tokenID string) {
	for _, c := range inv.items {
		c.Token = tokenID
	}
}

// Reset drops every computer.
func (inv *ComputerInventory) Reset() {
	inv.items = nil
}

// Position converts a cell to the renderer's [x, y, z].
func Position(cell domain.Cell) [3]float64 {
	return [3]float64{float64(cell.X * CellSize), 0, float64(cell.Z * CellSize)}
}

// CellAt converts a renderer position back to a cell. Positions left of or
// behind the origin map to negative cells.
func CellAt(pos [3]float64) domain.Cell {
	return domain.Cell{
		X: int(math.Floor(pos[0] / CellSize)),
		Z: int(math.Floor(pos[2] / CellSize)),
	}
}
