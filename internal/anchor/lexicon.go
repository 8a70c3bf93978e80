// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anchor

import "github.com/pdiddy/supplier-resolver/internal/normalize"

// The word lists are written in natural spelling and normalized once at
// startup so that they compare against normalized input. They are the
// single source of generic vocabulary: the fuzzy feeder's keyword guard
// uses them through IsGeneric.

var structuralWords = []string{
	"شركة", "مؤسسة", "مجموعة", "ذات", "مسؤولية", "محدودة", "مساهمة", "مقفلة",
	"عامة", "قابضة", "شركاء", "شريك", "وشركاه", "واولاده", "وأولاده", "فرع", "مكتب",
	"مصنع", "وكالة", "وكالات", "مركز", "معرض", "مصانع", "مؤسسات", "شركات",
	"company", "co", "corp", "corporation", "establishment", "est", "group",
	"llc", "ltd", "limited", "inc", "partners", "branch", "holding", "holdings",
	"factory", "agency", "office", "center", "centre", "and", "sons",
}

var activityWords = []string{
	"تجارة", "تجارية", "تجاري", "مقاولات", "صناعة", "صناعية", "صناعات", "طبية",
	"طبي", "أدوية", "ادوية", "صيدلية", "معدات", "خدمات", "استيراد", "تصدير",
	"توريدات", "توريد", "هندسية", "هندسة", "تقنية", "تكنولوجيا", "أنظمة",
	"الكترونيات", "إلكترونيات", "اتصالات", "نقل", "شحن", "سياحة", "عقارات",
	"عقارية", "استثمار", "مستلزمات", "أجهزة", "اجهزة", "مواد", "بناء", "غذائية",
	"أغذية", "تسويق", "حلول", "صيانة", "تشغيل", "طباعة", "أثاث", "مستشفى",
	"مختبرات", "معامل", "لوجستية", "لوجستيات", "زراعية", "كيماويات", "قطع", "غيار",
	"trading", "trade", "contracting", "contractors", "medical", "pharma",
	"pharmaceutical", "pharmaceuticals", "services", "service", "equipment",
	"supplies", "supply", "industries", "industrial", "engineering", "technology",
	"technologies", "systems", "solutions", "import", "export", "logistics",
	"construction", "food", "foods", "electronics", "healthcare", "maintenance",
}

var descriptorWords = []string{
	"دولية", "الدولية", "عالمية", "متحدة", "متقدمة", "حديثة", "ذهبية", "أولى",
	"الأولى", "جديدة", "كبرى", "وطنية", "متطورة", "شاملة", "متكاملة", "ممتازة",
	"أفضل", "نخبة", "رائدة", "مثالية", "متميزة", "سريعة", "ذكية", "عصرية",
	"مميزة", "عامة", "حديث", "جديد", "دولي", "عالمي", "وطني", "ذهبي", "أول",
	"كبير", "متحد", "متقدم", "متطور", "شامل", "متكامل", "ممتاز", "رائد",
	"مثالي", "متميز", "سريع", "ذكي", "عصري", "مميز",
	"international", "global", "united", "advanced", "modern", "golden", "first",
	"new", "national", "general", "best", "premier", "elite", "smart", "leading",
	"integrated", "universal", "world", "royal", "star",
}

var geographyWords = []string{
	"السعودية", "سعودية", "سعودي", "العربية", "عربية", "عربي", "الخليج", "خليج",
	"خليجية", "الرياض", "رياض", "جدة", "الدمام", "دمام", "مكة", "المدينة",
	"الشرق", "شرق", "الأوسط", "أوسط", "الشمال", "شمال", "الجنوب", "جنوب",
	"الشرقية", "شرقية", "الغربية", "غربية", "مصر", "مصرية", "الإمارات", "امارات",
	"إماراتية", "إماراتي",
	"الكويت", "كويت", "قطر", "البحرين", "عمان", "الأردن", "اردن", "اليمن",
	"سوريا", "لبنان", "تركيا", "الصين", "ألمانيا", "أمريكا", "أوروبا", "آسيا",
	"أفريقيا", "القصيم", "تبوك", "أبها", "الخبر", "ينبع", "الجبيل",
	"saudi", "arabia", "arabian", "arab", "gulf", "middle", "east", "riyadh",
	"jeddah", "dammam", "egypt", "egyptian", "emirates", "kuwait", "qatar",
	"bahrain", "oman", "jordan", "american", "british", "german", "chinese",
	"french", "european", "asia", "africa", "ksa", "uae", "usa",
}

// firstNames are common given names that mark a token as a person name.
var firstNames = []string{
	"محمد", "أحمد", "علي", "خالد", "سعد", "سعود", "فهد", "عبدالله", "إبراهيم",
	"صالح", "ناصر", "سلطان", "فيصل", "عمر", "يوسف", "حسن", "حسين", "سليمان",
	"منصور", "ماجد", "تركي", "بندر", "عثمان", "حمد", "راشد", "سالم", "مصطفى",
	"محمود", "عادل", "طارق", "وليد", "نايف", "بدر", "زياد", "هشام", "ياسر",
	"mohammed", "mohamed", "ahmed", "ali", "khalid", "saad", "fahad", "abdullah",
	"ibrahim", "saleh", "nasser", "sultan", "faisal", "omar", "yousef", "hassan",
}

// personPrefixes open a compound person name such as "عبد الله" or "ابو بكر".
var personPrefixes = []string{"عبد", "أبو", "ابو", "ابن", "بن", "أم", "abu", "abd", "bin", "ibn"}

// personStems mark a single token as a person name when it starts with them.
var personStems = []string{"عبد", "أبو", "ابو"}

// articlePrefixes are stripped when testing list membership so that
// "للتجارة" and "التجارية" are recognised as activity words.
var articlePrefixes = []string{"وال", "بال", "لل", "ال"}

type wordSet map[string]struct{}

func newWordSet(words ...[]string) wordSet {
	s := make(wordSet)
	for _, list := range words {
		for _, w := range list {
			s[normalize.Name(w)] = struct{}{}
		}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

func normalizedList(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, normalize.Name(w))
	}
	return out
}

var (
	structural   = newWordSet(structuralWords)
	activity     = newWordSet(activityWords)
	descriptors  = newWordSet(descriptorWords)
	geography    = newWordSet(geographyWords)
	knownNames   = newWordSet(firstNames)
	namePrefixes = newWordSet(personPrefixes)
	nameStems    = normalizedList(personStems)
	articles     = normalizedList(articlePrefixes)
)

// IsGeneric reports whether a normalized word is structural, activity,
// descriptor or geography vocabulary, with or without a leading article.
func IsGeneric(word string) bool {
	return listRejection(word) != RejectNone
}
