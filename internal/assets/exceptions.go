package assets

// Exceptions map god names to the filename token a wiki uses for them when
// it cannot be derived from the name.
type Exceptions map[string]string

var Smite1Exceptions = Exceptions{
	"Ah Muzen Cab":   "AMC",
	"Ah Puch":        "AhPuch",
	"Chang'e":        "Change",
	"Cu Chulainn":    "CuChulainn",
	"Da Ji":          "DaJi",
	"Erlang Shen":    "ErlangShen",
	"Guan Yu":        "GuanYu",
	"He Bo":          "HeBo",
	"Hou Yi":         "HouYi",
	"Hun Batz":       "HunBatz",
	"Ix Chel":        "IxChel",
	"Jing Wei":       "JingWei",
	"King Arthur":    "KingArthur",
	"Maman Brigitte": "MamanBrigitte",
	"Morgan Le Fay":  "MorganLeFay",
	"Ne Zha":         "NeZha",
	"Nu Wa":          "NuWa",
	"Sun Wukong":     "SunWukong",
	"The Morrigan":   "TheMorrigan",
	"Xing Tian":      "XingTian",
	"Yu Huang":       "YuHuang",
	"Zhong Kui":      "ZhongKui",
	"Baron Samedi":   "BaronSamedi",
	"Baba Yaga":      "BabaYaga",
	"Bake Kujira":    "BakeKujira",
	"Princess Bari":  "PrincessBari",
}

// Smite2Exceptions keeps underscores for the gods whose smite 2 files are
// named with them.
var Smite2Exceptions = Exceptions{
	"Ah Muzen Cab":   "AhMuzenCab",
	"Ah Puch":        "AhPuch",
	"Chang'e":        "Change",
	"Cu Chulainn":    "CuChulainn",
	"Da Ji":          "DaJi",
	"Erlang Shen":    "ErlangShen",
	"Guan Yu":        "Guan_Yu",
	"He Bo":          "HeBo",
	"Hou Yi":         "HouYi",
	"Hun Batz":       "Hun_Batz",
	"Ix Chel":        "IxChel",
	"Jing Wei":       "JingWei",
	"King Arthur":    "KingArthur",
	"Maman Brigitte": "MamanBrigitte",
	"Morgan Le Fay":  "MorganLeFay",
	"Ne Zha":         "NeZha",
	"Nu Wa":          "Nu_Wa",
	"Sun Wukong":     "SunWukong",
	"The Morrigan":   "The_Morrigan",
	"Xing Tian":      "XingTian",
	"Yu Huang":       "YuHuang",
	"Zhong Kui":      "ZhongKui",
	"Baron Samedi":   "Baron_Samedi",
	"Baba Yaga":      "BabaYaga",
	"Bake Kujira":    "BakeKujira",
	"Princess Bari":  "Princess_Bari",
}

func ExceptionsFor(site Site) Exceptions {
	if site == SiteSmite2 {
		return Smite2Exceptions
	}
	return Smite1Exceptions
}
