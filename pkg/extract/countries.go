package extract

// countryReference is the reference table for nationality canonicalization.
// Variants are lowercase and include Indonesian spellings and demonyms as
// they appear in published sheets. Not exhaustive; unmatched mentions pass
// through verbatim.
type countryEntry struct {
	canonical string
	variants  []string
}

var countryReference = []countryEntry{
	{"Indonesia", []string{"indonesia", "wni", "warga negara indonesia"}},
	{"Afghanistan", []string{"afghanistan", "afganistan", "afghan"}},
	{"Albania", []string{"albania"}},
	{"Algeria", []string{"algeria", "aljazair"}},
	{"Australia", []string{"australia"}},
	{"Bangladesh", []string{"bangladesh"}},
	{"Belgium", []string{"belgium", "belgia"}},
	{"Bosnia and Herzegovina", []string{"bosnia and herzegovina", "bosnia herzegovina", "bosnia dan herzegovina", "bosnia"}},
	{"Brunei Darussalam", []string{"brunei", "brunei darussalam"}},
	{"Cambodia", []string{"cambodia", "kamboja"}},
	{"Canada", []string{"canada", "kanada"}},
	{"China", []string{"china", "tiongkok", "cina", "rrc", "republik rakyat tiongkok"}},
	{"Egypt", []string{"egypt", "mesir"}},
	{"Ethiopia", []string{"ethiopia", "etiopia"}},
	{"France", []string{"france", "perancis", "prancis"}},
	{"Germany", []string{"germany", "jerman"}},
	{"India", []string{"india"}},
	{"Iran", []string{"iran", "republik islam iran"}},
	{"Iraq", []string{"iraq", "irak"}},
	{"Israel", []string{"israel"}},
	{"Italy", []string{"italy", "italia"}},
	{"Japan", []string{"japan", "jepang"}},
	{"Jordan", []string{"jordan", "yordania"}},
	{"Kenya", []string{"kenya"}},
	{"Kuwait", []string{"kuwait"}},
	{"Lebanon", []string{"lebanon", "libanon"}},
	{"Libya", []string{"libya"}},
	{"Malaysia", []string{"malaysia"}},
	{"Morocco", []string{"morocco", "maroko"}},
	{"Myanmar", []string{"myanmar", "burma"}},
	{"Netherlands", []string{"netherlands", "belanda"}},
	{"New Zealand", []string{"new zealand", "selandia baru"}},
	{"Nigeria", []string{"nigeria"}},
	{"Pakistan", []string{"pakistan"}},
	{"Palestine", []string{"palestine", "palestina"}},
	{"Philippines", []string{"philippines", "filipina"}},
	{"Qatar", []string{"qatar"}},
	{"Russia", []string{"russia", "rusia", "federasi rusia"}},
	{"Saudi Arabia", []string{"saudi arabia", "arab saudi"}},
	{"Singapore", []string{"singapore", "singapura"}},
	{"Somalia", []string{"somalia"}},
	{"South Korea", []string{"south korea", "korea selatan"}},
	{"Spain", []string{"spain", "spanyol"}},
	{"Sri Lanka", []string{"sri lanka", "srilanka"}},
	{"Sudan", []string{"sudan"}},
	{"Syria", []string{"syria", "suriah"}},
	{"Thailand", []string{"thailand"}},
	{"Tunisia", []string{"tunisia"}},
	{"Turkey", []string{"turkey", "turki"}},
	{"United Arab Emirates", []string{"united arab emirates", "uni emirat arab", "uea"}},
	{"United Kingdom", []string{"united kingdom", "inggris", "britania raya"}},
	{"United States", []string{"united states", "amerika serikat", "amerika", "usa"}},
	{"Uzbekistan", []string{"uzbekistan"}},
	{"Vietnam", []string{"vietnam"}},
	{"Yemen", []string{"yemen", "yaman"}},
}
