// Package market runs the black market: the asset catalogue, bidding,
// settlement, monthly supply and the effects of activating a secured asset.
package market

import "github.com/playperu/cyberfront/internal/cyberfront"

// Item is one catalogue entry.
type Item struct {
	Name       cyberfront.AssetName
	Type       cyberfront.AssetType
	Effect     string
	MinimumBid int
}

// Catalogue lists every asset instantiated for a new game. Duplicated names
// are separate instances.
var Catalogue = []Item{
	{cyberfront.AttackVector, cyberfront.AssetAttack, "Opens up the GCHQ - Rosenergoatom, UK Government - Russian Government or SCS - UK Energy attack vector.", 5},
	{cyberfront.AttackVector, cyberfront.AssetAttack, "Opens up the GCHQ - Rosenergoatom, UK Government - Russian Government or SCS - UK Energy attack vector.", 5},
	{cyberfront.Education, cyberfront.AssetDefence, "Electorate suffers half of any damage for 3 turns.", 3},
	{cyberfront.RecoveryManagement, cyberfront.AssetDefence, "If UK PLC suffered any damage this turn, it regains 1 vitality.", 4},
	{cyberfront.SoftwareUpdate, cyberfront.AssetDefence, "Renders an entity immune to direct attacks for 2 turns.", 2},
	{cyberfront.SoftwareUpdate, cyberfront.AssetDefence, "Renders an entity immune to direct attacks for 2 turns.", 2},
	{cyberfront.BargainingChip, cyberfront.AssetDefence, "Russian Government suffers half of any damage for 3 turns.", 3},
	{cyberfront.NetworkPolicy, cyberfront.AssetDefence, "Renders an entity immune to splash damage, but only 2 resource can be transferred to or from it each turn.", 2},
	{cyberfront.NetworkPolicy, cyberfront.AssetDefence, "Renders an entity immune to splash damage, but only 2 resource can be transferred to or from it each turn.", 2},
	{cyberfront.Stuxnet, cyberfront.AssetAttack, "The next successful attack from the intelligence entity deals double damage.", 4},
	{cyberfront.Stuxnet, cyberfront.AssetAttack, "The next successful attack from the intelligence entity deals double damage.", 4},
	{cyberfront.Stuxnet, cyberfront.AssetAttack, "The next successful attack from the intelligence entity deals double damage.", 4},
	{cyberfront.Ransomware, cyberfront.AssetAttack, "The next successful attack paralyses the target for 2 turns unless it pays a ransom of 2 resource.", 3},
	{cyberfront.Ransomware, cyberfront.AssetAttack, "The next successful attack paralyses the target for 2 turns unless it pays a ransom of 2 resource.", 3},
	{cyberfront.CyberInvestment, cyberfront.AssetDefence, "Entity can revitalise at 1 less resource cost.", 3},
	{cyberfront.CyberInvestment, cyberfront.AssetDefence, "Entity can revitalise at 1 less resource cost.", 3},
}

const specialVectorEffect = "Opens up the GCHQ - Rosenergoatom or UK Government - Russian Government attack vector, at no cost."
