package rawdata

// FieldCategory buckets well-known panel keys so rules can select fields by
// role instead of scanning key names for substrings.
type FieldCategory string

const (
	CategoryIdentifier FieldCategory = "identifier"
	CategoryName       FieldCategory = "name"
	CategoryStatistic  FieldCategory = "statistic"
	CategoryImage      FieldCategory = "image"
	CategoryOther      FieldCategory = "other"
)

// fieldCategories is the closed classification table. Unknown keys fall
// through to CategoryOther; extending a rule means extending this table.
var fieldCategories = map[string]FieldCategory{
	"id":             CategoryIdentifier,
	"matchID":        CategoryIdentifier,
	"match_id":       CategoryIdentifier,
	"homeID":         CategoryIdentifier,
	"home_id":        CategoryIdentifier,
	"awayID":         CategoryIdentifier,
	"away_id":        CategoryIdentifier,
	"team_a_id":      CategoryIdentifier,
	"team_b_id":      CategoryIdentifier,
	"competition_id": CategoryIdentifier,
	"season_id":      CategoryIdentifier,
	"refereeID":      CategoryIdentifier,

	"home_name":    CategoryName,
	"away_name":    CategoryName,
	"homeName":     CategoryName,
	"awayName":     CategoryName,
	"team_name":    CategoryName,
	"player_name":  CategoryName,
	"known_as":     CategoryName,
	"full_name":    CategoryName,
	"referee":      CategoryName,
	"referee_name": CategoryName,

	"home_image": CategoryImage,
	"away_image": CategoryImage,
	"team_image": CategoryImage,
	"logo":       CategoryImage,
	"badge":      CategoryImage,
}

// Classify returns the category for a panel key.
func Classify(key string) FieldCategory {
	if category, ok := fieldCategories[key]; ok {
		return category
	}
	return CategoryOther
}

// KeysInCategory lists the record's top-level keys that belong to the given
// category, in no particular order.
func KeysInCategory(rec Record, category FieldCategory) []string {
	var keys []string
	for key := range rec {
		if Classify(key) == category {
			keys = append(keys, key)
		}
	}
	return keys
}
