package verification

import "regexp"

// Name and category patterns shared by the normalizer and the
// deterministic checks. Category strings come from upstream ingestion and
// are loosely controlled, so matching is case-insensitive substring based.
var (
	// supplementPattern marks products measured in capsules or tablets,
	// not as foods. Normalizing these corrupted real data once; they are
	// never normalized.
	supplementPattern = regexp.MustCompile(`(?i)\b(supplement|multivitamin|vitamin[s]?|capsule[s]?|tablet[s]?|caplet[s]?|softgel[s]?|gummy|gummies|pill[s]?|creatine|whey isolate)\b`)

	// alcoholPattern switches the Atwater check to its one-sided form:
	// alcohol contributes ~7 kcal/g but is not tracked in any macro field,
	// so only an under-count relative to the macros is suspicious.
	alcoholPattern = regexp.MustCompile(`(?i)\b(beer|ale|lager|stout|wine|champagne|prosecco|cider|whiskey|whisky|bourbon|vodka|rum|gin|tequila|brandy|cognac|liqueur|cocktail|margarita|mojito|martini|sangria|spritz)\b`)

	oilNamePattern = regexp.MustCompile(`(?i)\b(oil|lard|ghee|shortening|tallow)\b`)

	proteinSourcePattern = regexp.MustCompile(`(?i)\b(chicken|beef|pork|turkey|lamb|veal|duck|salmon|tuna|cod|tilapia|shrimp|sardine[s]?|anchov(y|ies)|steak|ham|bacon)\b`)

	grainNamePattern = regexp.MustCompile(`(?i)\b(bread|pasta|rice|oat[s]?|oatmeal|cereal|noodle[s]?|bagel|tortilla|couscous|quinoa|barley|flour)\b`)

	snackNamePattern = regexp.MustCompile(`(?i)\b(chip[s]?|crisp[s]?|pretzel[s]?|popcorn|cracker[s]?)\b`)

	lowCarbPattern = regexp.MustCompile(`(?i)\b(low[ -]?carb|keto|zero[ -]?carb|carb[ -]?free)\b`)

	// Calorie-dense produce exempt from the vegetable outlier bounds.
	vegetableExceptionPattern = regexp.MustCompile(`(?i)\b(avocado[s]?|olive[s]?|potato(es)?)\b`)
)

// Category matchers.
var (
	vegetableCategoryPattern = regexp.MustCompile(`(?i)vegetable`)
	fruitCategoryPattern     = regexp.MustCompile(`(?i)fruit`)
	grainCategoryPattern     = regexp.MustCompile(`(?i)grain|bread|pasta`)
	dairyCategoryPattern     = regexp.MustCompile(`(?i)dairy|milk|cheese|yogurt`)
)

func isSupplementName(name string) bool { return supplementPattern.MatchString(name) }

func isAlcoholName(name string) bool { return alcoholPattern.MatchString(name) }

func isOilName(name string) bool { return oilNamePattern.MatchString(name) }

func isProteinSourceName(name string) bool { return proteinSourcePattern.MatchString(name) }

func isGrainName(name string) bool { return grainNamePattern.MatchString(name) }

func isSnackName(name string) bool { return snackNamePattern.MatchString(name) }

func isLowCarbName(name string) bool { return lowCarbPattern.MatchString(name) }

func isVegetableException(name string) bool { return vegetableExceptionPattern.MatchString(name) }

func isVegetableCategory(category string) bool { return vegetableCategoryPattern.MatchString(category) }

func isFruitCategory(category string) bool { return fruitCategoryPattern.MatchString(category) }

func isGrainCategory(category string) bool { return grainCategoryPattern.MatchString(category) }

func isDairyCategory(category string) bool { return dairyCategoryPattern.MatchString(category) }
