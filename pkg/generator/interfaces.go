package generator

import (
	"context"
	"time"

	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
	"github.com/shouni/gemini-idphoto-kit/pkg/prompt"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGenerator はビジネスロジック層が利用する統合窓口です。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, progress ProgressFunc) (*domain.ImageResponse, error)
}

// GenerativeModel は、パーツ列を送って画像を生成させる通信クライアントです。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ModelFactory は、認証キーごとに GenerativeModel を生成します。
// 共有キーとユーザーキーを呼び出しごとに切り替えるため、クライアントは都度作ります。
type ModelFactory func(ctx context.Context, apiKey string) (GenerativeModel, error)

// AssetPreparer は、元写真と参照画像を送信可能なサイズに前処理します。
type AssetPreparer interface {
	PrepareAssets(ctx context.Context, req domain.GenerationRequest, policy RetryPolicy) (prompt.Assets, error)
}

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
