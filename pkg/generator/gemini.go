package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
	"github.com/shouni/gemini-idphoto-kit/pkg/imgutil"
	"github.com/shouni/gemini-idphoto-kit/pkg/prompt"
	"github.com/shouni/gemini-idphoto-kit/pkg/utils"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// Config は GeminiGenerator の設定です。
type Config struct {
	Model        string
	SharedAPIKey string
	Locale       string
	// Policies が nil の場合は DefaultPolicies を使います。
	Policies *Policies
}

// Option は GeminiGenerator の任意設定です。
type Option func(*GeminiGenerator)

// WithTimer はリトライ待ちに使うタイマーを差し替えます。
func WithTimer(t backoff.Timer) Option {
	return func(g *GeminiGenerator) { g.timer = t }
}

// WithJitter は待ち時間の揺らぎを差し替えます。
func WithJitter(j JitterFunc) Option {
	return func(g *GeminiGenerator) { g.jitter = j }
}

// GeminiGenerator は証明写真の生成を 1 回の呼び出しとして実行するオーケストレーターです。
// 呼び出し間で状態を共有しないため、並行利用できます。
type GeminiGenerator struct {
	assets   AssetPreparer
	factory  ModelFactory
	model    string
	shared   string
	policies Policies
	messages *Messages
	timer    backoff.Timer
	jitter   JitterFunc
}

var _ ImageGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator は GeminiGenerator を初期化します。
func NewGeminiGenerator(assets AssetPreparer, factory ModelFactory, cfg Config, opts ...Option) (*GeminiGenerator, error) {
	if assets == nil {
		return nil, fmt.Errorf("assets (AssetPreparer) is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("factory (ModelFactory) is required")
	}

	g := &GeminiGenerator{
		assets:   assets,
		factory:  factory,
		model:    cfg.Model,
		shared:   cfg.SharedAPIKey,
		policies: DefaultPolicies(),
		messages: MessagesFor(cfg.Locale),
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if cfg.Policies != nil {
		g.policies = *cfg.Policies
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate は元写真から証明写真を生成します。
// 一時的な失敗はポリシーに従って待機しながら再試行し、待機のたびに progress へ通知します。
// 返すエラーは常に *GenerationError です。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.GenerationRequest, progress ProgressFunc) (*domain.ImageResponse, error) {
	logger := slog.With("request_id", uuid.NewString())

	cred, err := ResolveCredential(g.shared, req.UserAPIKey)
	if err != nil {
		logger.WarnContext(ctx, "APIキーを解決できませんでした", "error", err)
		return nil, &GenerationError{Kind: KindAuthFailure, Message: g.messages.Credential(err), Err: err}
	}
	policy := g.policies.For(cred.Mode)
	logger.InfoContext(ctx, "証明写真の生成を開始します",
		"mode", cred.Mode,
		"key", cred.Redacted(),
		"model", g.model,
		"category", req.Category,
		"style", req.Style,
		"aspect_ratio", req.AspectRatio,
	)

	assets, err := g.assets.PrepareAssets(ctx, req, policy)
	if err != nil {
		kind := KindBadInput
		if ctx.Err() != nil {
			kind = Classify(err)
		}
		logger.WarnContext(ctx, "画像の前処理に失敗しました", "kind", kind, "error", err)
		return nil, g.newError(kind, false, 0, err)
	}

	plan := prompt.Build(req, assets)
	logger.DebugContext(ctx, "プロンプトを構築しました",
		"parts", len(plan.Parts),
		"beret_ref", plan.HasLabel(prompt.LabelBeret),
		"rank_ref", plan.HasLabel(prompt.LabelRank),
	)

	model, err := g.factory(ctx, cred.Key)
	if err != nil {
		kind := Classify(err)
		logger.ErrorContext(ctx, "モデルクライアントの作成に失敗しました", "kind", kind, "error", err)
		return nil, g.newError(kind, false, 0, err)
	}

	reqSeed := seedInRange(req.Seed)
	opts := gemini.GenerateOptions{
		AspectRatio: string(req.AspectRatio),
		Seed:        reqSeed,
	}
	seed := utils.DereferenceSeed(reqSeed)

	var (
		attempts     int
		emptyRetries int
		out          *ImageOutput
	)
	operation := func() error {
		attempts++
		resp, err := model.GenerateWithParts(ctx, g.model, plan.Parts, opts)
		if err == nil {
			out, err = parseToResponse(resp, seed)
		}
		if err == nil {
			return nil
		}

		kind := Classify(err)
		if ctx.Err() != nil || !kind.Retryable() {
			logger.WarnContext(ctx, "再試行しない失敗です", "attempt", attempts, "kind", kind, "error", err)
			return backoff.Permanent(err)
		}
		// 空レスポンスの再試行は連続した場合だけ数えます。
		if kind == KindEmptyResponse {
			if emptyRetries >= maxEmptyResponseRetries {
				return backoff.Permanent(err)
			}
			emptyRetries++
		} else {
			emptyRetries = 0
		}
		logger.WarnContext(ctx, "一時的な失敗です", "attempt", attempts, "kind", kind, "error", err)
		return err
	}

	notify := func(err error, wait time.Duration) {
		ev := ProgressEvent{
			Retry:       attempts,
			Attempt:     attempts + 1,
			MaxAttempts: policy.MaxAttempts(),
			Wait:        wait,
			Kind:        Classify(err),
		}
		if cred.Mode == domain.CredentialShared {
			ev.QueuePosition = policy.MaxRetries - attempts + 1
		}
		ev.Message = g.messages.Retry(ev.Retry, policy.MaxRetries, ev.QueuePosition)
		logger.InfoContext(ctx, "リトライまで待機します", "retry", ev.Retry, "wait", wait)
		if progress != nil {
			progress(ev)
		}
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(NewBackOff(policy, g.jitter), uint64(max(policy.MaxRetries, 0))),
		ctx,
	)
	if err := backoff.RetryNotifyWithTimer(operation, b, notify, g.timer); err != nil {
		kind := Classify(err)
		exhausted := kind.Retryable() && attempts > 1 && ctx.Err() == nil
		logger.ErrorContext(ctx, "証明写真の生成に失敗しました", "attempts", attempts, "kind", kind, "exhausted", exhausted, "error", err)
		return nil, g.newError(kind, exhausted, attempts, err)
	}

	width, height, err := imgutil.Dimensions(out.Data)
	if err != nil {
		logger.WarnContext(ctx, "生成画像のサイズを取得できませんでした", "error", err)
	}
	logger.InfoContext(ctx, "証明写真を生成しました", "attempts", attempts, "mime_type", out.MimeType, "bytes", len(out.Data))

	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
		Width:    width,
		Height:   height,
		UsedSeed: out.UsedSeed,
		Attempts: attempts,
		Mode:     cred.Mode,
	}, nil
}

func (g *GeminiGenerator) newError(kind ErrorKind, exhausted bool, attempts int, err error) *GenerationError {
	var detail string
	var respErr *responseError
	if errors.As(err, &respErr) {
		detail = respErr.text
	}
	return &GenerationError{
		Kind:      kind,
		Message:   g.messages.Error(kind, exhausted, detail),
		Attempts:  attempts,
		Exhausted: exhausted,
		Err:       err,
	}
}
