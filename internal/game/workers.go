package game

import "cryptofarm/internal/domain"

// WorkerInventory owns hired workers.
type WorkerInventory struct {
	items []domain.OwnedWorker
}

func (inv *WorkerInventory) Len() int { return len(inv.items) }

func (inv *WorkerInventory) All() []domain.OwnedWorker {
	return append([]domain.OwnedWorker(nil), inv.items...)
}

// CountRole counts workers with a role.
func (inv *WorkerInventory) CountRole(role domain.WorkerRole) int {
	n := 0
	for _, w := range inv.items {
		if w.Type.Role == role {
			n++
		}
	}
	return n
}

func (inv *WorkerInventory) add(w domain.OwnedWorker) {
	inv.items = append(inv.items, w)
}

func (inv *WorkerInventory) remove(id string) bool {
	for i, w := range inv.items {
		if w.ID == id {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return true
		}
	}
	return false
}

func (inv *WorkerInventory) Reset() {
	inv.items = nil
}
