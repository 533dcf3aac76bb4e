package search

import (
	"maps"
	"slices"
)

// synonymGroups maps a canonical English term to its equivalents in
// English and French. Members are written naturally and normalized when
// the lookup index is built, so accents here are fine.
//
// Phrases may contain at most one internal space.
var synonymGroups = map[string][]string{
	// Categories
	"exterior":    {"exterieur", "extérieur", "carrosserie", "bodywork", "outside", "paint", "peinture"},
	"interior":    {"intérieur", "interieur", "habitacle", "cabin", "inside", "dashboard"},
	"freshener":   {"fresheners", "air-freshener", "air-fresheners", "airfreshener", "désodorisant", "désodorisants", "parfum", "parfums", "fragrance", "scent", "senteur"},
	"detailing":   {"detail", "esthétique", "polish", "polissage", "lustrage"},
	"accessories": {"accessory", "accessoire", "accessoires"},

	// Product vocabulary
	"wax":        {"waxes", "cire", "cires"},
	"shampoo":    {"shampooing", "shampoing", "wash", "lavage", "car wash"},
	"foam":       {"mousse", "snow foam"},
	"tyre":       {"tyres", "tire", "tires", "pneu", "pneus", "pneumatique"},
	"glass":      {"vitre", "vitres", "verre", "window", "windows", "windscreen", "pare-brise"},
	"leather":    {"cuir", "cuirs"},
	"wipes":      {"wipe", "lingette", "lingettes"},
	"microfibre": {"microfibres", "microfiber", "microfibers", "chiffon", "cloth"},
	"silicone":   {"silicones", "dressing"},
	"fresh":      {"freshness", "frais", "fraîche", "fraîcheur"},
}

// synonymIndex maps every single-token member of a group (the key included)
// to the normalized members of its group, in declaration order.
var synonymIndex = buildSynonymIndex(synonymGroups)

func buildSynonymIndex(groups map[string][]string) map[string][]string {
	index := make(map[string][]string)
	// Sorted keys keep the index stable if a token ever sits in two groups.
	for _, key := range slices.Sorted(maps.Keys(groups)) {
		synonyms := groups[key]
		members := make([]string, 0, len(synonyms)+1)
		members = append(members, Normalize(key))
		for _, s := range synonyms {
			members = append(members, Normalize(s))
		}

		for _, m := range members {
			tokens := Tokenize(m)
			if len(tokens) != 1 || tokens[0] != m {
				// Phrases and hyphenated forms only ever appear as expansions.
				continue
			}
			for _, other := range members {
				if other != m {
					index[m] = appendUnique(index[m], other)
				}
			}
		}
	}
	return index
}

// Synonyms returns the normalized equivalents of a canonical token, or nil
// when the token has no entry.
func Synonyms(token string) []string {
	syns := synonymIndex[token]
	if len(syns) == 0 {
		return nil
	}
	out := make([]string, len(syns))
	copy(out, syns)
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
