package generator

const (
	// DefaultModel は画像編集に対応した Gemini モデルです。
	DefaultModel = "gemini-2.5-flash-image"

	// MinUserKeyLength を超える長さのユーザーキーだけを有効とみなします。
	MinUserKeyLength = 10

	// 空レスポンスに対する防御的な再試行は 1 回まで
	maxEmptyResponseRetries = 1

	// 拒否理由として利用者に見せるモデル出力の最大文字数
	refusalExcerptRunes = 160

	cacheKeyReference = "reference_image:"
)

// ImageOutput は Core の内部解析結果
type ImageOutput struct {
	Data     []byte
	MimeType string
	UsedSeed int64
}
