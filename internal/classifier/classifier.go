// Package classifier assigns catalog metadata to a product from its name and
// price using a fixed rule table.
package classifier

import "strings"

const (
	CategoryCosmetics  = "コスメ"
	CategoryGourmet    = "グルメ"
	CategoryGadget     = "ガジェット"
	CategoryFlora      = "花・植物"
	CategoryFashion    = "ファッション"
	CategoryInterior   = "インテリア"
	CategoryExperience = "体験"
	CategoryGeneral    = "雑貨"
)

const (
	TagSmallGift = "プチギフト"
	TagPremium   = "高級"
)

const basePriority = 80

// Classification is the metadata derived for one product
type Classification struct {
	Category    string
	Recipients  []string
	Occasions   []string
	BudgetRange string
	Tags        []string
	Priority    int
}

type categoryRule struct {
	category string
	keywords []string
}

// categoryRules are scanned top to bottom; the first hit wins
var categoryRules = []categoryRule{
	{CategoryCosmetics, []string{"化粧", "コスメ", "クリーム", "香水", "アロマ", "入浴"}},
	{CategoryGourmet, []string{"チョコ", "スイーツ", "お菓子", "酒", "ワイン"}},
	{CategoryGadget, []string{"時計", "イヤホン", "スマート", "ガジェット"}},
	{CategoryFlora, []string{"花", "フラワー", "植物"}},
	{CategoryFashion, []string{"財布", "ネクタイ", "バッグ"}},
	{CategoryInterior, []string{"インテリア", "家具"}},
	{CategoryExperience, []string{"ディナー", "体験"}},
}

type budgetBracket struct {
	below int
	label string
}

var budgetBrackets = []budgetBracket{
	{3000, "〜3,000円"},
	{5000, "3,000〜5,000円"},
	{10000, "5,000〜10,000円"},
	{20000, "10,000〜20,000円"},
	{30000, "20,000〜30,000円"},
}

const topBudget = "30,000円〜"

// BudgetRanges lists every bracket label from cheapest to most expensive
func BudgetRanges() []string {
	labels := make([]string, 0, len(budgetBrackets)+1)
	for _, b := range budgetBrackets {
		labels = append(labels, b.label)
	}
	return append(labels, topBudget)
}

// Classify never fails; unknown names fall back to 雑貨
func Classify(name string, price int) Classification {
	category := Category(name)

	return Classification{
		Category:    category,
		Recipients:  recipients(category),
		Occasions:   occasions(category, price),
		BudgetRange: BudgetRange(price),
		Tags:        tags(category, price),
		Priority:    priority(category, price),
	}
}

// Category matches name case-insensitively against the keyword table
func Category(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// BudgetRange buckets price; bounds are lower-inclusive
func BudgetRange(price int) string {
	for _, b := range budgetBrackets {
		if price < b.below {
			return b.label
		}
	}
	return topBudget
}

func recipients(category string) []string {
	switch category {
	case CategoryCosmetics, CategoryFlora:
		return []string{"彼女", "妻", "母", "友人女性"}
	case CategoryGadget, CategoryFashion:
		return []string{"彼氏", "夫", "父", "上司", "友人男性"}
	default:
		return []string{"彼女", "彼氏", "夫", "妻", "友人女性", "友人男性"}
	}
}

func occasions(category string, price int) []string {
	var out []string
	if price >= 5000 {
		out = []string{"誕生日", "クリスマス", "記念日"}
	} else {
		out = []string{"誕生日", "お礼"}
	}

	switch category {
	case CategoryCosmetics:
		out = append(out, "母の日", "ホワイトデー")
	case CategoryGourmet:
		out = append(out, "お中元", "お歳暮")
	}
	return out
}

// tags leaves 5,000-9,999 without a price tag on purpose
func tags(category string, price int) []string {
	out := []string{category}
	if price < 5000 {
		out = append(out, TagSmallGift)
	}
	if price >= 10000 {
		out = append(out, TagPremium)
	}
	return out
}

func priority(category string, price int) int {
	p := basePriority
	if price >= 10000 {
		p += 5
	}
	if category == CategoryCosmetics || category == CategoryGadget {
		p += 5
	}
	return p
}
