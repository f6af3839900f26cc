package categorize

// DefaultTable returns the built-in keyword table in precedence order.
func DefaultTable() Table {
	return Table{
		{Name: "supermarket", Keywords: []string{"rewe", "coop", "edeka", "lidl", "netto", "norma", "frukt", "ica", "ecenter", "aksa"}},
		{Name: "rent", Keywords: []string{"miete", "mieete", "wohnung", "etagenbeitrag"}},
		{Name: "entertainment", Keywords: []string{"netflix", "spotify", "ticket", "konzert", "museum", "filmstaden"}},
		{Name: "restaurant", Keywords: []string{"restaurant", "frittenwerk", "bar", "cafe", "qstockholm", "mcdonalds", "backwerk", "burger king", "Bosch etterem", "Bierkasse"}},
		{Name: "traffic", Keywords: []string{"db", "deutschebahn", "train", "deutsche bahn", "sj", "sl", "flixbus"}},
		{Name: "drugstore", Keywords: []string{"dm", "rossmann"}},
		{Name: "shopping", Keywords: []string{"amzn", "amazon", "ebay", "lindt", "eddie baur", "bergfreunde", "mayersche"}},
		{Name: "car", Keywords: []string{"tankstelle", "doetsch station"}},
		{Name: "income", Keywords: []string{"gehalt", "lohn", "stipendium", "entgelt"}},
		{Name: "cash", Keywords: []string{"bankomat", "sparkasse", "sparda-bank", "postbank"}},
	}
}
