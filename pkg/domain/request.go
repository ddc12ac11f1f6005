package domain

import (
	"errors"
	"fmt"
)

// Gender は被写体の性別です。選択できる服装の初期値に影響します。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Category は服装の大分類です。
type Category string

const (
	CategoryCivilian Category = "civilian"
	CategoryMilitary Category = "military"
)

// ClothingStyle は服装・制服の種類です。
type ClothingStyle string

const (
	StyleSuitBlack        ClothingStyle = "civilian_suit_black"
	StyleSuitBlue         ClothingStyle = "civilian_suit_blue"
	StyleSuitGrey         ClothingStyle = "civilian_suit_grey"
	StyleTraditional      ClothingStyle = "civilian_traditional"
	StyleAbayaBlack       ClothingStyle = "women_abaya_black"
	StyleAbayaColored     ClothingStyle = "women_abaya_colored"
	StyleFormalHijab      ClothingStyle = "women_formal_hijab"
	StyleMilitaryCamo     ClothingStyle = "military_camouflage"
	StyleMilitaryFormal   ClothingStyle = "military_formal"
	StyleSpecialForces    ClothingStyle = "military_special_forces"
	StyleMilitaryAirForce ClothingStyle = "military_airforce"
)

// Category はスタイルが属する大分類を返します。未知のスタイルは空文字です。
func (s ClothingStyle) Category() Category {
	switch s {
	case StyleSuitBlack, StyleSuitBlue, StyleSuitGrey, StyleTraditional,
		StyleAbayaBlack, StyleAbayaColored, StyleFormalHijab:
		return CategoryCivilian
	case StyleMilitaryCamo, StyleMilitaryFormal, StyleSpecialForces, StyleMilitaryAirForce:
		return CategoryMilitary
	}
	return ""
}

// DefaultStyle は性別と大分類に応じた初期スタイルを返します。
func DefaultStyle(g Gender, c Category) ClothingStyle {
	if c == CategoryMilitary {
		return StyleMilitaryCamo
	}
	if g == GenderFemale {
		return StyleAbayaBlack
	}
	return StyleSuitBlack
}

// Country は軍服の国別バリエーションです。
type Country string

const (
	CountryGeneric Country = "generic"
	CountryYemen   Country = "yemen"
	CountrySaudi   Country = "saudi"
	CountryEgypt   Country = "egypt"
	CountryUSA     Country = "usa"
	CountryUAE     Country = "uae"
	CountryJordan  Country = "jordan"
)

// AspectRatio は出力画像のアスペクト比です。
type AspectRatio string

const (
	RatioPortrait  AspectRatio = "3:4"
	RatioLandscape AspectRatio = "4:3"
	RatioSquare    AspectRatio = "1:1"
	RatioWide      AspectRatio = "16:9"
)

// CredentialMode は共有（無料枠）キーとユーザー持ち込みキーのどちらで実行するかを表します。
type CredentialMode string

const (
	CredentialShared CredentialMode = "shared"
	CredentialUser   CredentialMode = "user"
)

// MilitaryOptions は Category が military のときだけ使われる追加設定です。
type MilitaryOptions struct {
	Country    Country
	HasBeret   bool
	BeretImage *ImageSource
	HasRank    bool
	RankImage  *ImageSource
}

// GenerationRequest は 1 回の生成呼び出しの入力です。呼び出しごとに組み立てる不変値として扱います。
type GenerationRequest struct {
	SourceImage    []byte
	Gender         Gender
	Category       Category
	Style          ClothingStyle
	AspectRatio    AspectRatio
	Military       *MilitaryOptions
	PromptModifier string
	UserAPIKey     string
	Seed           *int64
}

var (
	ErrEmptySourceImage = errors.New("source image is required")
	ErrRankImageMissing = errors.New("rank insignia image is required when rank is enabled")
)

// Validate は送信前に呼び出し側で確認すべき前提条件を検証します。
// 生成処理自体はこの検証を行わず、与えられた値をそのまま使います。
func (r GenerationRequest) Validate() error {
	if len(r.SourceImage) == 0 {
		return ErrEmptySourceImage
	}
	switch r.Category {
	case CategoryCivilian, CategoryMilitary:
	default:
		return fmt.Errorf("unknown category: %q", r.Category)
	}
	if r.Style.Category() == "" {
		return fmt.Errorf("unknown clothing style: %q", r.Style)
	}
	if r.Style.Category() != r.Category {
		return fmt.Errorf("style %q does not belong to category %q", r.Style, r.Category)
	}
	switch r.AspectRatio {
	case RatioPortrait, RatioLandscape, RatioSquare, RatioWide:
	default:
		return fmt.Errorf("unsupported aspect ratio: %q", r.AspectRatio)
	}
	if r.Category != CategoryMilitary {
		return nil
	}
	if r.Military == nil {
		return errors.New("military options are required for the military category")
	}
	switch r.Military.Country {
	case CountryGeneric, CountryYemen, CountrySaudi, CountryEgypt, CountryUSA, CountryUAE, CountryJordan:
	default:
		return fmt.Errorf("unknown country: %q", r.Military.Country)
	}
	if r.Military.HasRank && r.Military.RankImage.IsEmpty() {
		return ErrRankImageMissing
	}
	return nil
}
