package domain

import (
	"testing"
)

func TestImageSource_IsEmpty(t *testing.T) {
	t.Run("nil はデータなしとして扱う", func(t *testing.T) {
		var src *ImageSource
		if !src.IsEmpty() {
			t.Error("nil source should be empty")
		}
	})

	t.Run("空白だけの URL はデータなし", func(t *testing.T) {
		src := &ImageSource{URL: "   "}
		if !src.IsEmpty() {
			t.Error("blank URL should be empty")
		}
	})

	t.Run("バイト列か URL のどちらかがあればデータあり", func(t *testing.T) {
		if (&ImageSource{Data: []byte{0xFF, 0xD8}}).IsEmpty() {
			t.Error("inline data should not be empty")
		}
		if (&ImageSource{URL: "https://example.com/beret.png"}).IsEmpty() {
			t.Error("URL source should not be empty")
		}
	})
}

func TestImageResponse_Retries(t *testing.T) {
	tests := []struct {
		name string
		resp *ImageResponse
		want int
	}{
		{"nil", nil, 0},
		{"初回成功", &ImageResponse{Attempts: 1}, 0},
		{"3回目で成功", &ImageResponse{Attempts: 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Retries(); got != tt.want {
				t.Errorf("Retries() = %d, want %d", got, tt.want)
			}
		})
	}
}
