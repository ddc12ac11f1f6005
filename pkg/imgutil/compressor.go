package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrImageDecode は入力が画像としてデコードできなかったことを示します。
// 呼び出し側は元のバイト列へのフォールバックを判断します。
var ErrImageDecode = errors.New("image decode failed")

// Compress は画像データ（JPEG, PNG, GIF, WebP）を長辺 maxDimension 以下に縮小し、
// 白背景の不透明なJPEGとして再エンコードします。
// 透過部分は黒ではなく白になります。maxDimension が 0 以下の場合は縮小しません。
func Compress(data []byte, maxDimension, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := src.Bounds()
	width, height := Scale(bounds.Dx(), bounds.Dy(), maxDimension)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image (%dx%d)", ErrImageDecode, bounds.Dx(), bounds.Dy())
	}

	// 白で塗りつぶしてから重ねる
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, bounds, draw.Over, nil)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, canvas, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scale はアスペクト比を保ったまま、幅と高さのどちらも maxDimension を超えないサイズを返します。
// 収まっている画像は拡大しません。
func Scale(width, height, maxDimension int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}
	if width >= height {
		h := int(math.Round(float64(height) * float64(maxDimension) / float64(width)))
		return maxDimension, max(h, 1)
	}
	w := int(math.Round(float64(width) * float64(maxDimension) / float64(height)))
	return max(w, 1), maxDimension
}

// Dimensions は画像全体をデコードせずに幅と高さを返します。
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return jpeg.DefaultQuality
	case q > 100:
		return 100
	}
	return q
}
