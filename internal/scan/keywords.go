package scan

// Keywords lists the ingredient words that reveal one allergen category.
type Keywords struct {
	Category string
	Words    []string
}

// DefaultKeywords is checked in order; ScanText reports categories in this order.
// Category names match the cross-reactivity table keys.
var DefaultKeywords = []Keywords{
	{"peanuts", []string{"peanut", "groundnut", "arachis"}},
	{"tree nuts", []string{"almond", "hazelnut", "walnut", "cashew", "pecan", "pistachio", "macadamia", "brazil nut", "praline", "nutella"}},
	{"milk", []string{"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "whey", "casein", "lactose", "ghee"}},
	{"eggs", []string{"egg", "albumin", "mayonnaise", "meringue"}},
	{"fish", []string{"fish", "salmon", "tuna", "cod", "anchov", "sardine", "trout", "haddock"}},
	{"shellfish", []string{"shrimp", "prawn", "crab", "lobster", "crayfish", "langoustine", "shellfish"}},
	{"wheat", []string{"wheat", "flour", "semolina", "durum", "couscous", "bread", "pasta"}},
	{"soy", []string{"soy", "soja", "tofu", "edamame", "miso", "tempeh"}},
	{"sesame", []string{"sesame", "tahini", "halva"}},
	{"gluten", []string{"gluten", "barley", "rye", "spelt", "malt", "seitan"}},
	{"mustard", []string{"mustard"}},
	{"celery", []string{"celery", "celeriac"}},
	{"sulfites", []string{"sulfite", "sulphite", "sulfur dioxide", "metabisulfite"}},
	{"lupine", []string{"lupin"}},
	{"mollusks", []string{"mussel", "oyster", "clam", "scallop", "squid", "octopus", "snail", "mollus"}},
}
