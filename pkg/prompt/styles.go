package prompt

import (
	"fmt"

	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
)

const fallbackClothing = "professional formal clothing"

var styleDescriptions = map[domain.ClothingStyle]string{
	domain.StyleSuitBlack:        "a professional formal black business suit with a white shirt and tie",
	domain.StyleSuitBlue:         "a professional formal navy blue business suit with a white shirt and tie",
	domain.StyleSuitGrey:         "a professional formal dark grey business suit with a white shirt and tie",
	domain.StyleTraditional:      "formal traditional clothing suitable for official documents",
	domain.StyleAbayaBlack:       "a modest, elegant professional black abaya with a matching black hijab covering hair",
	domain.StyleAbayaColored:     "a modest, elegant beige or brown modest abaya with a matching hijab covering hair",
	domain.StyleFormalHijab:      "a professional formal business blazer/jacket with a modest hijab covering hair",
	domain.StyleMilitaryCamo:     "a professional military camouflage uniform",
	domain.StyleMilitaryFormal:   "a professional formal dress military uniform",
	domain.StyleSpecialForces:    "a tactical black special forces uniform",
	domain.StyleMilitaryAirForce: "a professional air force blue uniform",
}

// countryProfile は国別の迷彩柄とベレー帽の記章の記述です。
type countryProfile struct {
	Name       string
	Camouflage string
	Beret      string
}

var genericProfile = countryProfile{
	Camouflage: "generic professional military camouflage uniform",
	Beret:      "a plain dark military beret with a simple generic badge",
}

var countryProfiles = map[domain.Country]countryProfile{
	domain.CountryYemen: {
		Name:       "Yemeni",
		Camouflage: "Yemeni Army Republican Guard camouflage pattern (yellowish-desert camo)",
		Beret:      "a maroon beret bearing the golden Yemeni eagle emblem",
	},
	domain.CountrySaudi: {
		Name:       "Saudi",
		Camouflage: "Saudi Royal Land Forces camouflage pattern (darker desert digital)",
		Beret:      "a green beret bearing the Saudi crossed swords and palm emblem",
	},
	domain.CountryEgypt: {
		Name:       "Egyptian",
		Camouflage: "Egyptian Army camouflage pattern (desert yellow)",
		Beret:      "a black beret bearing the golden Egyptian eagle of Saladin emblem",
	},
	domain.CountryUSA: {
		Name:       "United States",
		Camouflage: "U.S. Army Operational Camouflage Pattern (OCP, multicam tan and green)",
		Beret:      "a black beret bearing the U.S. Army unit flash",
	},
	domain.CountryUAE: {
		Name:       "Emirati",
		Camouflage: "UAE Armed Forces desert digital camouflage pattern",
		Beret:      "a sand-colored beret bearing the golden UAE falcon emblem",
	},
	domain.CountryJordan: {
		Name:       "Jordanian",
		Camouflage: "Jordanian Armed Forces desert digital camouflage pattern",
		Beret:      "a red beret bearing the Jordanian Arab Army crown emblem",
	},
}

func profileFor(c domain.Country) countryProfile {
	if p, ok := countryProfiles[c]; ok {
		return p
	}
	return genericProfile
}

// ClothingDescription はスタイルと国から服装の記述文を組み立てます。
// 同じ組み合わせからは常に同じ文字列を返します。
func ClothingDescription(style domain.ClothingStyle, category domain.Category, country domain.Country) string {
	desc, ok := styleDescriptions[style]
	if !ok {
		desc = fallbackClothing
	}
	if category != domain.CategoryMilitary {
		return desc
	}

	profile := profileFor(country)
	if style == domain.StyleMilitaryCamo {
		return "a professional " + profile.Camouflage
	}
	if profile.Name == "" {
		return desc
	}
	return fmt.Sprintf("%s in the style of the %s armed forces", desc, profile.Name)
}

// BeretDescription は参照画像がないときに生成させるベレー帽の記述です。
func BeretDescription(country domain.Country) string {
	return profileFor(country).Beret
}
