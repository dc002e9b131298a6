package model

// Entity names one of the fixed organizer collections. The set is closed:
// every mutation path validates against Entities() before touching a
// collection, so an unknown name never reaches storage.
type Entity string

const (
	EntityChecklists     Entity = "checklists"
	EntityChecklistItems Entity = "checklist_items"
	EntityTaskProjects   Entity = "task_projects"
	EntityTasks          Entity = "tasks"
	EntityShoppingLists  Entity = "shopping_lists"
	EntityShoppingItems  Entity = "shopping_items"
	EntityLoyaltyCards   Entity = "loyalty_cards"
	EntityReceipts       Entity = "receipts"
	EntityDates          Entity = "dates"
)

var entities = []Entity{
	EntityChecklists,
	EntityChecklistItems,
	EntityTaskProjects,
	EntityTasks,
	EntityShoppingLists,
	EntityShoppingItems,
	EntityLoyaltyCards,
	EntityReceipts,
	EntityDates,
}

// Entities returns the full set of known collections in a stable order.
// The returned slice is a copy and safe to modify.
func Entities() []Entity {
	return append([]Entity(nil), entities...)
}

// Valid reports whether e is one of the known collections.
func (e Entity) Valid() bool {
	for _, known := range entities {
		if e == known {
			return true
		}
	}
	return false
}
