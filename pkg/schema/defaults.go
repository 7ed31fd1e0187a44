// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"sync"
	"time"
)

// Default returns the registry built from the built in field and vocabulary
// definitions. The registry is constructed once and shared; it is immutable
// and safe for concurrent use.
func Default() *Registry {
	return defaultRegistry()
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(DefaultConfig())
	if err != nil {
		// the built in definitions are static; failing to load them is a
		// programming error, not a runtime condition
		panic(err)
	}
	return r
})

// DefaultConfig returns the built in schema definitions: the supported
// audience fields with their English and Arabic aliases and categorical
// vocabularies.
func DefaultConfig() *Config {
	return &Config{
		Fields: []FieldConfig{
			{
				Name:    "gender",
				Type:    "enum",
				Aliases: []string{"sex", "الجنس", "جنس"},
				Values: map[string][]string{
					"Male":   {"male", "m", "man", "men", "ذكر", "ذكور", "رجال"},
					"Female": {"female", "f", "woman", "women", "أنثى", "انثى", "إناث", "اناث", "نساء"},
				},
			},
			{
				Name:    "city",
				Type:    "enum",
				Aliases: []string{"المدينة", "مدينة"},
				Values: map[string][]string{
					"Riyadh": {"riad", "الرياض", "رياض"},
					"Jeddah": {"jedda", "jidda", "جدة", "جده"},
					"Mecca":  {"makkah", "مكة", "مكه", "مكة المكرمة"},
					"Dammam": {"الدمام", "دمام"},
					"Dubai":  {"دبي"},
					"Cairo":  {"القاهرة", "قاهرة"},
				},
			},
			{
				Name:    "country",
				Type:    "enum",
				Aliases: []string{"الدولة", "دولة", "البلد", "بلد"},
				Values: map[string][]string{
					"Saudi Arabia": {"ksa", "saudi", "saudi arabia", "السعودية", "المملكة العربية السعودية"},
					"UAE":          {"united arab emirates", "emirates", "الإمارات", "الامارات"},
					"Egypt":        {"مصر"},
					"Kuwait":       {"الكويت"},
				},
			},
			{
				Name:    "language",
				Type:    "enum",
				Aliases: []string{"اللغة", "لغة"},
				Values: map[string][]string{
					"Arabic":  {"ar", "العربية", "عربي"},
					"English": {"en", "الإنجليزية", "الانجليزية", "انجليزي"},
				},
			},
			{
				Name:    "joining_date",
				Type:    "date",
				Aliases: []string{"join date", "signup date", "registration date", "تاريخ الانضمام", "تاريخ التسجيل"},
			},
			{
				Name:    "latest_purchase",
				Type:    "date",
				Aliases: []string{"last purchase", "last order", "last order date", "آخر عملية شراء", "اخر طلب"},
			},
			{
				Name:    "total_orders",
				Type:    "integer",
				Aliases: []string{"orders", "order count", "num orders", "number of orders", "الطلبات", "عدد الطلبات"},
			},
			{
				Name:    "total_sales",
				Type:    "number",
				Aliases: []string{"sales", "revenue", "المبيعات", "إجمالي المبيعات", "اجمالي المبيعات"},
			},
			{
				Name:    "store_rating",
				Type:    "number",
				Aliases: []string{"rating", "التقييم", "تقييم المتجر"},
			},
			{
				Name:    "doesnt_have_email",
				Type:    "boolean",
				Aliases: []string{"no email", "missing email", "بدون بريد الكتروني", "بدون بريد إلكتروني"},
			},
			{
				Name:    "doesnt_have_phone",
				Type:    "boolean",
				Aliases: []string{"no phone", "missing phone", "بدون هاتف", "بدون رقم جوال"},
			},
		},
	}
}

// defaultOperatorSynonyms maps every canonical operator to its recognised
// symbolic and natural language surface forms.
var defaultOperatorSynonyms = map[Operator][]string{
	OpEqual:        {"==", "eq", "equals", "equal", "equal to", "is", "يساوي"},
	OpNotEqual:     {"<>", "neq", "not equals", "not equal", "is not", "different from", "لا يساوي", "غير"},
	OpLess:         {"lt", "less than", "fewer than", "below", "under", "أقل من", "اقل من", "أصغر من"},
	OpGreater:      {"gt", "greater than", "more than", "above", "over", "exceeds", "أكثر من", "اكثر من", "أكبر من"},
	OpLessEqual:    {"lte", "less than or equal", "at most", "no more than", "على الأكثر", "بحد أقصى"},
	OpGreaterEqual: {"gte", "greater than or equal", "at least", "no less than", "على الأقل", "بحد أدنى"},
	OpBetween:      {"range", "in range", "from to", "بين", "ما بين"},
}

// defaultBooleanPhrases is the closed set of truthy/falsy surface forms for
// boolean fields.
var defaultBooleanPhrases = map[string]bool{
	"true":    true,
	"yes":     true,
	"y":       true,
	"1":       true,
	"نعم":     true,
	"صحيح":    true,
	"false":   false,
	"no":      false,
	"n":       false,
	"0":       false,
	"لا":      false,
	"غير صحيح": false,
	"خطأ":     false,
}

// defaultMonthNames resolves month spellings in both languages, including
// English abbreviations, for date normalization.
var defaultMonthNames = map[string]time.Month{
	"january": time.January, "jan": time.January, "يناير": time.January,
	"february": time.February, "feb": time.February, "فبراير": time.February,
	"march": time.March, "mar": time.March, "مارس": time.March,
	"april": time.April, "apr": time.April, "أبريل": time.April, "ابريل": time.April,
	"may": time.May, "مايو": time.May,
	"june": time.June, "jun": time.June, "يونيو": time.June,
	"july": time.July, "jul": time.July, "يوليو": time.July,
	"august": time.August, "aug": time.August, "أغسطس": time.August, "اغسطس": time.August,
	"september": time.September, "sep": time.September, "sept": time.September, "سبتمبر": time.September,
	"october": time.October, "oct": time.October, "أكتوبر": time.October, "اكتوبر": time.October,
	"november": time.November, "nov": time.November, "نوفمبر": time.November,
	"december": time.December, "dec": time.December, "ديسمبر": time.December,
}
