package crafting

// ItemKind tags the variant of a manufactured item
type ItemKind string

const (
	ItemKindTool      ItemKind = "TOOL"
	ItemKindWeapon    ItemKind = "WEAPON"
	ItemKindMaterial  ItemKind = "MATERIAL"
	ItemKindFood      ItemKind = "FOOD"
	ItemKindStructure ItemKind = "STRUCTURE"
)

const (
	// DefaultToolDurability is the starting durability of freshly crafted tools and weapons
	DefaultToolDurability = 100
)

// ItemKinds lists every known kind in a stable order
func ItemKinds() []ItemKind {
	return []ItemKind{ItemKindTool, ItemKindWeapon, ItemKindMaterial, ItemKindFood, ItemKindStructure}
}

// IsValid reports whether k has a registered constructor
func (k ItemKind) IsValid() bool {
	_, ok := itemConstructors[k]
	return ok
}

// Item is the product of a completed craft. Kind is the variant tag; the
// kind-specific attributes are filled in by that kind's constructor.
type Item struct {
	ItemID     string
	Kind       ItemKind
	Amount     int
	Stackable  bool
	Durability int // TOOL and WEAPON only
	Placeable  bool
}

type itemConstructor func(spec ResultSpec) Item

var itemConstructors = map[ItemKind]itemConstructor{
	ItemKindTool:      newToolItem,
	ItemKindWeapon:    newWeaponItem,
	ItemKindMaterial:  newMaterialItem,
	ItemKindFood:      newFoodItem,
	ItemKindStructure: newStructureItem,
}

// NewItem builds the item described by spec using the constructor registered for spec.Kind
func NewItem(spec ResultSpec) (Item, error) {
	ctor, ok := itemConstructors[spec.Kind]
	if !ok {
		return Item{}, &ErrUnknownItemKind{Kind: spec.Kind}
	}
	return ctor(spec), nil
}

func newToolItem(spec ResultSpec) Item {
	return Item{ItemID: spec.ItemID, Kind: ItemKindTool, Amount: spec.Amount, Durability: DefaultToolDurability}
}

func newWeaponItem(spec ResultSpec) Item {
	return Item{ItemID: spec.ItemID, Kind: ItemKindWeapon, Amount: spec.Amount, Durability: DefaultToolDurability}
}

func newMaterialItem(spec ResultSpec) Item {
	return Item{ItemID: spec.ItemID, Kind: ItemKindMaterial, Amount: spec.Amount, Stackable: true}
}

func newFoodItem(spec ResultSpec) Item {
	return Item{ItemID: spec.ItemID, Kind: ItemKindFood, Amount: spec.Amount, Stackable: true}
}

func newStructureItem(spec ResultSpec) Item {
	return Item{ItemID: spec.ItemID, Kind: ItemKindStructure, Amount: spec.Amount, Placeable: true}
}
