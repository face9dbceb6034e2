package descriptor

// Category is the tag of a conversion target.
type Category string

// Group classifies categories the way the backend enumerates them.
type Group int

const (
	// GroupMisc holds standalone targets that are not listed in any table group.
	GroupMisc Group = iota
	// GroupStringTables holds the standalone string tables.
	GroupStringTables
	// GroupItems holds the item data tables.
	GroupItems
	// GroupGlobalDialog holds the dialog tables that are not zone scoped.
	GroupGlobalDialog
	// GroupZoned holds categories that carry a zone id.
	GroupZoned
)

const (
	DataMenu Category = "DataMenu"

	// String tables
	AbilityNames         Category = "AbilityNames"
	AbilityDescriptions  Category = "AbilityDescriptions"
	AreaNames            Category = "AreaNames"
	AreaNamesAlt         Category = "AreaNamesAlt"
	CharacterSelect      Category = "CharacterSelect"
	ChatFilterTypes      Category = "ChatFilterTypes"
	DayNames             Category = "DayNames"
	Directions           Category = "Directions"
	EquipmentLocations   Category = "EquipmentLocations"
	ErrorMessages        Category = "ErrorMessages"
	IngameMessages1      Category = "IngameMessages1"
	IngameMessages2      Category = "IngameMessages2"
	JobNames             Category = "JobNames"
	KeyItems             Category = "KeyItems"
	MenuItemsDescription Category = "MenuItemsDescription"
	MenuItemsText        Category = "MenuItemsText"
	MoonPhases           Category = "MoonPhases"
	PolMessages          Category = "PolMessages"
	RaceNames            Category = "RaceNames"
	RegionNames          Category = "RegionNames"
	SpellNames           Category = "SpellNames"
	SpellDescriptions    Category = "SpellDescriptions"
	StatusInfo           Category = "StatusInfo"
	StatusNames          Category = "StatusNames"
	TimeAndPronouns      Category = "TimeAndPronouns"
	Titles               Category = "Titles"
	Misc1                Category = "Misc1"
	Misc2                Category = "Misc2"
	WeatherTypes         Category = "WeatherTypes"

	// Item data
	Armor            Category = "Armor"
	Armor2           Category = "Armor2"
	Currency         Category = "Currency"
	GeneralItems     Category = "GeneralItems"
	GeneralItems2    Category = "GeneralItems2"
	PuppetItems      Category = "PuppetItems"
	UsableItems      Category = "UsableItems"
	Weapons          Category = "Weapons"
	VouchersAndSlips Category = "VouchersAndSlips"
	Monipulator      Category = "Monipulator"
	Instincts        Category = "Instincts"

	// Global dialog
	MonsterSkillNames Category = "MonsterSkillNames"
	StatusNamesDialog Category = "StatusNamesDialog"
	EmoteMessages     Category = "EmoteMessages"
	SystemMessages1   Category = "SystemMessages1"
	SystemMessages2   Category = "SystemMessages2"
	SystemMessages3   Category = "SystemMessages3"
	SystemMessages4   Category = "SystemMessages4"
	UnityDialogs      Category = "UnityDialogs"

	// Zone scoped
	EntityNames Category = "EntityNames"
	Dialog      Category = "Dialog"
	Dialog2     Category = "Dialog2"
)

type categoryInfo struct {
	group Group
	// file is the export file name without extension. For zoned categories
	// it is the directory that holds one file per zone.
	file string
	// supported is false for categories the converter cannot round-trip yet.
	supported bool
}

var categories = map[Category]categoryInfo{
	DataMenu: {GroupMisc, "data_menu", true},

	AbilityNames:         {GroupStringTables, "ability_names", true},
	AbilityDescriptions:  {GroupStringTables, "ability_descriptions", true},
	AreaNames:            {GroupStringTables, "area_names", true},
	AreaNamesAlt:         {GroupStringTables, "area_names_alt", true},
	CharacterSelect:      {GroupStringTables, "character_select", true},
	ChatFilterTypes:      {GroupStringTables, "chat_filter_types", true},
	DayNames:             {GroupStringTables, "day_names", true},
	Directions:           {GroupStringTables, "directions", true},
	EquipmentLocations:   {GroupStringTables, "equipment_locations", true},
	ErrorMessages:        {GroupStringTables, "error_messages", true},
	IngameMessages1:      {GroupStringTables, "ingame_messages1", true},
	IngameMessages2:      {GroupStringTables, "ingame_messages2", false},
	JobNames:             {GroupStringTables, "job_names", true},
	KeyItems:             {GroupStringTables, "key_items", true},
	MenuItemsDescription: {GroupStringTables, "menu_items_description", true},
	MenuItemsText:        {GroupStringTables, "menu_items_text", true},
	MoonPhases:           {GroupStringTables, "moon_phases", true},
	PolMessages:          {GroupStringTables, "pol_messages", false},
	RaceNames:            {GroupStringTables, "race_names", true},
	RegionNames:          {GroupStringTables, "region_names", true},
	SpellNames:           {GroupStringTables, "spell_names", true},
	SpellDescriptions:    {GroupStringTables, "spell_descriptions", true},
	StatusInfo:           {GroupStringTables, "status_info", true},
	StatusNames:          {GroupStringTables, "status_names", true},
	TimeAndPronouns:      {GroupStringTables, "time_and_pronouns", false},
	Titles:               {GroupStringTables, "titles", true},
	Misc1:                {GroupStringTables, "misc1", true},
	Misc2:                {GroupStringTables, "misc2", true},
	WeatherTypes:         {GroupStringTables, "weather_types", true},

	Armor:            {GroupItems, "armor", true},
	Armor2:           {GroupItems, "armor2", true},
	Currency:         {GroupItems, "currency", true},
	GeneralItems:     {GroupItems, "general_items", true},
	GeneralItems2:    {GroupItems, "general_items2", true},
	PuppetItems:      {GroupItems, "puppet_items", true},
	UsableItems:      {GroupItems, "usable_items", true},
	Weapons:          {GroupItems, "weapons", true},
	VouchersAndSlips: {GroupItems, "vouchers_and_slips", true},
	Monipulator:      {GroupItems, "monipulator", false},
	Instincts:        {GroupItems, "instincts", true},

	MonsterSkillNames: {GroupGlobalDialog, "monster_skill_names", true},
	StatusNamesDialog: {GroupGlobalDialog, "status_names_dialog", true},
	EmoteMessages:     {GroupGlobalDialog, "emote_messages", true},
	SystemMessages1:   {GroupGlobalDialog, "system_messages1", true},
	SystemMessages2:   {GroupGlobalDialog, "system_messages2", true},
	SystemMessages3:   {GroupGlobalDialog, "system_messages3", true},
	SystemMessages4:   {GroupGlobalDialog, "system_messages4", true},
	UnityDialogs:      {GroupGlobalDialog, "unity_dialogs", true},

	EntityNames: {GroupZoned, "entity_names", true},
	Dialog:      {GroupZoned, "dialog", true},
	Dialog2:     {GroupZoned, "dialog2", true},
}

// order fixes the enumeration order of each group.
var order = []Category{
	DataMenu,
	AbilityNames, AbilityDescriptions, AreaNames, AreaNamesAlt, CharacterSelect,
	ChatFilterTypes, DayNames, Directions, EquipmentLocations, ErrorMessages,
	IngameMessages1, IngameMessages2, JobNames, KeyItems, MenuItemsDescription,
	MenuItemsText, MoonPhases, PolMessages, RaceNames, RegionNames, SpellNames,
	SpellDescriptions, StatusInfo, StatusNames, TimeAndPronouns, Titles, Misc1,
	Misc2, WeatherTypes,
	Armor, Armor2, Currency, GeneralItems, GeneralItems2, PuppetItems,
	UsableItems, Weapons, VouchersAndSlips, Monipulator, Instincts,
	MonsterSkillNames, StatusNamesDialog, EmoteMessages, SystemMessages1,
	SystemMessages2, SystemMessages3, SystemMessages4, UnityDialogs,
	EntityNames, Dialog, Dialog2,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Zoned reports whether c carries a zone id.
func (c Category) Zoned() bool {
	return categories[c].group == GroupZoned
}

// Group returns the enumeration group of c.
func (c Category) Group() Group {
	return categories[c].group
}

// Supported reports whether the converter can round-trip c.
func (c Category) Supported() bool {
	return categories[c].supported
}

// Categories returns every category of g in enumeration order.
// Unsupported categories are only included when all is true.
func Categories(g Group, all bool) []Category {
	var out []Category
	for _, c := range order {
		info := categories[c]
		if info.group != g {
			continue
		}
		if !info.supported && !all {
			continue
		}
		out = append(out, c)
	}
	return out
}
