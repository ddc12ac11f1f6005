package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
	"github.com/shouni/gemini-idphoto-kit/pkg/imgutil"
	"github.com/shouni/gemini-idphoto-kit/pkg/prompt"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/errgroup"
)

// ImageAssetCore は元写真と参照画像の取得・圧縮・キャッシュを担当します。
type ImageAssetCore struct {
	reader     remoteio.InputReader
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration
}

// NewImageAssetCore は依存関係を注入して ImageAssetCore を初期化します。
// reader と httpClient は nil を許容し、その場合は対応する URL の参照画像が使えません。
// cache も nil を許容（キャッシュなし動作）します。
func NewImageAssetCore(reader remoteio.InputReader, httpClient HTTPClient, cache ImageCacher, cacheTTL time.Duration) *ImageAssetCore {
	return &ImageAssetCore{
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
	}
}

// PrepareAssets は元写真と参照画像を並行して前処理します。
// 元写真の失敗はエラーになりますが、参照画像の失敗は警告を出して省略します。
func (c *ImageAssetCore) PrepareAssets(ctx context.Context, req domain.GenerationRequest, policy RetryPolicy) (prompt.Assets, error) {
	var assets prompt.Assets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		img, err := prepareInline(req.SourceImage, policy.MainMaxDimension, policy.MainQuality)
		if err != nil {
			return fmt.Errorf("元写真の前処理に失敗しました: %w", err)
		}
		assets.Main = img
		return nil
	})

	if req.Category == domain.CategoryMilitary && req.Military != nil {
		opts := req.Military
		if opts.HasBeret && !opts.BeretImage.IsEmpty() {
			g.Go(func() error {
				assets.Beret = c.prepareReference(gctx, "beret", opts.BeretImage, policy)
				return nil
			})
		}
		if opts.HasRank && !opts.RankImage.IsEmpty() {
			g.Go(func() error {
				assets.Rank = c.prepareReference(gctx, "rank", opts.RankImage, policy)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return prompt.Assets{}, err
	}
	if err := ctx.Err(); err != nil {
		return prompt.Assets{}, err
	}
	return assets, nil
}

// prepareInline は画像を縮小・JPEG化します。
// デコードできなくても画像として判別できれば元のバイト列をそのまま使います。
func prepareInline(data []byte, maxDimension, quality int) (*prompt.InlineImage, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptySourceImage
	}
	compressed, err := imgutil.Compress(data, maxDimension, quality)
	if err == nil {
		return &prompt.InlineImage{Data: compressed, MIMEType: "image/jpeg"}, nil
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, err
	}
	slog.Warn("画像の圧縮に失敗したため元データを使用します", "mime_type", mimeType, "error", err)
	return &prompt.InlineImage{Data: data, MIMEType: mimeType}, nil
}

// prepareReference は参照画像を取得して前処理します。失敗した場合は nil を返します。
func (c *ImageAssetCore) prepareReference(ctx context.Context, role string, src *domain.ImageSource, policy RetryPolicy) *prompt.InlineImage {
	if len(src.Data) > 0 {
		img, err := prepareInline(src.Data, policy.ReferenceMaxDimension, policy.ReferenceQuality)
		if err != nil {
			slog.WarnContext(ctx, "参照画像を処理できないため省略します", "role", role, "error", err)
			return nil
		}
		return img
	}

	rawURL := strings.TrimSpace(src.URL)
	cacheKey := cacheKeyReference + strconv.Itoa(policy.ReferenceMaxDimension) + ":" + strconv.Itoa(policy.ReferenceQuality) + ":" + rawURL
	if c.cache != nil {
		if val, ok := c.cache.Get(cacheKey); ok {
			if img, ok := val.(*prompt.InlineImage); ok {
				return img
			}
		}
	}

	data, err := c.fetchImageData(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の取得に失敗したため省略します", "role", role, "url", rawURL, "error", err)
		return nil
	}
	img, err := prepareInline(data, policy.ReferenceMaxDimension, policy.ReferenceQuality)
	if err != nil {
		slog.WarnContext(ctx, "参照画像を処理できないため省略します", "role", role, "url", rawURL, "error", err)
		return nil
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, img, c.expiration)
	}
	return img
}

var errSourceNotConfigured = errors.New("image source is not configured")

var _ AssetPreparer = (*ImageAssetCore)(nil)
