package domain

import (
	"errors"
	"testing"
)

func validCivilianRequest() GenerationRequest {
	return GenerationRequest{
		SourceImage: []byte{0xFF, 0xD8, 0xFF},
		Gender:      GenderMale,
		Category:    CategoryCivilian,
		Style:       StyleSuitBlack,
		AspectRatio: RatioPortrait,
	}
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Run("正常な民間人リクエストは通る", func(t *testing.T) {
		if err := validCivilianRequest().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("元画像が空ならエラー", func(t *testing.T) {
		req := validCivilianRequest()
		req.SourceImage = nil
		if err := req.Validate(); !errors.Is(err, ErrEmptySourceImage) {
			t.Errorf("expected ErrEmptySourceImage, got %v", err)
		}
	})

	t.Run("カテゴリとスタイルの不一致はエラー", func(t *testing.T) {
		req := validCivilianRequest()
		req.Style = StyleMilitaryFormal
		if err := req.Validate(); err == nil {
			t.Error("expected mismatch error")
		}
	})

	t.Run("未対応のアスペクト比はエラー", func(t *testing.T) {
		req := validCivilianRequest()
		req.AspectRatio = "2:3"
		if err := req.Validate(); err == nil {
			t.Error("expected aspect ratio error")
		}
	})

	t.Run("階級章ありで画像がない軍服リクエストは送信できない", func(t *testing.T) {
		req := validCivilianRequest()
		req.Category = CategoryMilitary
		req.Style = StyleMilitaryCamo
		req.Military = &MilitaryOptions{Country: CountryYemen, HasRank: true}
		if err := req.Validate(); !errors.Is(err, ErrRankImageMissing) {
			t.Errorf("expected ErrRankImageMissing, got %v", err)
		}

		req.Military.RankImage = &ImageSource{Data: []byte{1}}
		if err := req.Validate(); err != nil {
			t.Errorf("unexpected error with rank image: %v", err)
		}
	})

	t.Run("軍服カテゴリでオプションなしはエラー", func(t *testing.T) {
		req := validCivilianRequest()
		req.Category = CategoryMilitary
		req.Style = StyleMilitaryCamo
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing military options")
		}
	})
}

func TestDefaultStyle(t *testing.T) {
	if got := DefaultStyle(GenderMale, CategoryCivilian); got != StyleSuitBlack {
		t.Errorf("male civilian: got %s", got)
	}
	if got := DefaultStyle(GenderFemale, CategoryCivilian); got != StyleAbayaBlack {
		t.Errorf("female civilian: got %s", got)
	}
	if got := DefaultStyle(GenderFemale, CategoryMilitary); got != StyleMilitaryCamo {
		t.Errorf("military: got %s", got)
	}
}
