package models

// WalletEntry is one currency's absolute balance at snapshot time.
type WalletEntry struct {
	CurrencyID int   `json:"id"`
	Value      int64 `json:"value"`
}

// StackLocation identifies which storage an item stack was read from.
// It only matters while merging the account's storages into one snapshot;
// the unified view keeps a single count per item id.
type StackLocation int

const (
	LocationCharacterBag StackLocation = iota
	LocationMaterialStorage
	LocationBank
	LocationSharedSlots
)

// ItemStack is one logical stack of an item. BagSlot is only meaningful
// when Location is LocationCharacterBag.
type ItemStack struct {
	ItemID   int           `json:"id"`
	Count    int           `json:"count"`
	Location StackLocation `json:"-"`
	BagSlot  int           `json:"-"`
}

// Snapshot is a single merged read of one account's wallet and item
// holdings. Immutable once produced.
type Snapshot struct {
	Wallet    []WalletEntry `json:"wallet"`
	Inventory []ItemStack   `json:"inventory"`
}

// ItemInfo is the display metadata for one item id.
type ItemInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"` // "Junk", "Basic", "Fine", "Masterwork", ...
	IconURL     string `json:"icon"`
	ChatLink    string `json:"chat_link"`
	Description string `json:"description"`
	Type        string `json:"type"` // "Weapon", "Armor", "Consumable", ...
	VendorValue int    `json:"vendor_value"`
}

// CurrencyInfo is the display metadata for one wallet currency id.
type CurrencyInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"icon"`
}

// KeyStatus is the result of validating a GW2 API key.
type KeyStatus int

const (
	KeyStatusUnknown KeyStatus = iota
	KeyStatusValid
	KeyStatusInvalid
	KeyStatusNoPermissions // key exists but lacks "inventories" or "wallet" scope
)

func (s KeyStatus) String() string {
	switch s {
	case KeyStatusValid:
		return "valid"
	case KeyStatusInvalid:
		return "invalid"
	case KeyStatusNoPermissions:
		return "no_permissions"
	default:
		return "unknown"
	}
}
