// Package descriptor defines the conversion targets the backend can export
// and generate.
//
// A Descriptor is a closed variant: a Category drawn from a fixed
// enumeration, plus a zone id for the three zone scoped categories
// (EntityNames, Dialog, Dialog2). Descriptors can only be built through
// Fixed, Zoned or Parse, so an invalid combination never exists.
//
// # Identity
//
// Key returns the (category, index) pair used by every ledger. Categories
// without a zone id use index 0, which cannot collide because zoned and
// fixed categories never share a tag.
//
// # Paths
//
// RelativePath and FromPath map descriptors to export files under the
// project's raw data directory and back:
//
//	ability_names.yml            -> AbilityNames
//	items/weapons.yml            -> Weapons
//	global_dialog/emote_messages -> EmoteMessages
//	entity_names/<zone file>.yml -> EntityNames(<zone id>)
package descriptor
