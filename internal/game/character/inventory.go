package character

import "time"

// ToggleEquip flips the equipped flag on one inventory item.
type ToggleEquip struct {
	CharacterID int64
	ItemID      int64
}

// ApplyToggleEquip flips is_equipped on the matching item. Slot conflicts are
// not resolved client-side; the server is the authority there.
func ApplyToggleEquip(c Character, v ToggleEquip) Character {
	idx := itemIndex(c.Items, v.ItemID)
	if idx < 0 {
		return c
	}
	out := c.clone()
	out.Items[idx].IsEquipped = !out.Items[idx].IsEquipped
	return out
}

// UseItem consumes one charge and, for timed items, starts the activation
// window.
type UseItem struct {
	CharacterID int64
	ItemID      int64
	// Now anchors the activation window. The SDK fills it at call time so
	// the rule itself stays pure.
	Now time.Time
}

// ApplyUseItem decrements the item's charge floored at zero. A timed item
// that had at least one charge before the decrement becomes active until
// Now + duration. When charges hit zero on an auto-off item, the activation
// is force-cleared.
func ApplyUseItem(c Character, v UseItem) Character {
	idx := itemIndex(c.Items, v.ItemID)
	if idx < 0 {
		return c
	}
	out := c.clone()
	item := &out.Items[idx]

	hadCharge := item.ChargesCurrent > 0
	item.ChargesCurrent = clamp(item.ChargesCurrent-1, 0, item.ChargesMax)

	if item.DurationSeconds > 0 && hadCharge {
		end := v.Now.Add(time.Duration(item.DurationSeconds) * time.Second)
		item.ActivationEnd = &end
		item.IsActive = true
	}
	if item.ChargesCurrent == 0 && item.AutoOffAtZero {
		item.IsActive = false
		item.ActivationEnd = nil
	}
	return out
}

// RechargeItem refills an item's charges.
type RechargeItem struct {
	CharacterID int64
	ItemID      int64
}

// ApplyRechargeItem sets charges back to the item's max.
func ApplyRechargeItem(c Character, v RechargeItem) Character {
	idx := itemIndex(c.Items, v.ItemID)
	if idx < 0 {
		return c
	}
	out := c.clone()
	out.Items[idx].ChargesCurrent = out.Items[idx].ChargesMax
	return out
}

// InstallModule assembles a loose inventory item into a host item.
type InstallModule struct {
	CharacterID  int64
	HostItemID   int64
	ModuleItemID int64
}

// ApplyInstallModule moves the module from the top-level inventory into the
// host's installed modules. No-op when either side is missing.
func ApplyInstallModule(c Character, v InstallModule) Character {
	hostIdx := itemIndex(c.Items, v.HostItemID)
	moduleIdx := itemIndex(c.Items, v.ModuleItemID)
	if hostIdx < 0 || moduleIdx < 0 || hostIdx == moduleIdx {
		return c
	}
	out := c.clone()
	module := out.Items[moduleIdx]
	out.Items = append(out.Items[:moduleIdx], out.Items[moduleIdx+1:]...)
	hostIdx = itemIndex(out.Items, v.HostItemID) // index may have shifted
	out.Items[hostIdx].InstalledModules = append(out.Items[hostIdx].InstalledModules, module)
	return out
}

// RemoveModule disassembles an installed module back into the inventory.
type RemoveModule struct {
	CharacterID  int64
	HostItemID   int64
	ModuleItemID int64
}

// ApplyRemoveModule moves the module out of the host's installed modules and
// back into the top-level inventory, unequipped. No-op when the module is
// not installed on that host.
func ApplyRemoveModule(c Character, v RemoveModule) Character {
	hostIdx := itemIndex(c.Items, v.HostItemID)
	if hostIdx < 0 {
		return c
	}
	moduleIdx := itemIndex(c.Items[hostIdx].InstalledModules, v.ModuleItemID)
	if moduleIdx < 0 {
		return c
	}
	out := c.clone()
	host := &out.Items[hostIdx]
	module := host.InstalledModules[moduleIdx]
	host.InstalledModules = append(host.InstalledModules[:moduleIdx], host.InstalledModules[moduleIdx+1:]...)
	module.IsEquipped = false
	out.Items = append(out.Items, module)
	return out
}

func itemIndex(items []Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
