package i18n

import "context"

// Seeded category names and descriptions, stored in Arabic.
var (
	categoryNameKeys = map[string]string{
		"الرياضيات":     "category.math",
		"العلوم":        "category.science",
		"اللغة العربية": "category.arabic",
		"التاريخ":       "category.history",
		"الجغرافيا":     "category.geography",
	}
	categoryDescKeys = map[string]string{
		"أسئلة في الجبر والهندسة والحساب":       "category.math.desc",
		"أسئلة في الفيزياء والكيمياء والأحياء":  "category.science.desc",
		"أسئلة في النحو والصرف والأدب":          "category.arabic.desc",
		"أسئلة في التاريخ الإسلامي والعربي":     "category.history.desc",
		"أسئلة في جغرافية العالم والوطن العربي": "category.geography.desc",
	}
)

// CategoryName localizes a seeded category name. Other names are returned
// unchanged.
func CategoryName(ctx context.Context, name string) string {
	if key, ok := categoryNameKeys[name]; ok {
		return T(ctx, key)
	}
	return name
}

// CategoryDescription localizes a seeded category description. Other
// descriptions, including nil, are returned unchanged.
func CategoryDescription(ctx context.Context, desc *string) *string {
	if desc == nil {
		return nil
	}
	if key, ok := categoryDescKeys[*desc]; ok {
		s := T(ctx, key)
		return &s
	}
	return desc
}
