// Command idphoto は写真1枚から証明写真を生成します。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shouni/gemini-idphoto-kit/pkg/config"
	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
	"github.com/shouni/gemini-idphoto-kit/pkg/generator"
	"github.com/shouni/go-http-kit/pkg/httpkit"
)

type options struct {
	input    string
	output   string
	gender   string
	category string
	style    string
	ratio    string
	country  string
	beret    bool
	beretRef string
	rankRef  string
	modifier string
	seed     int64
	verbose  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "元写真のパス (必須)")
	flag.StringVar(&opts.output, "out", "idphoto.png", "出力先のパス")
	flag.StringVar(&opts.gender, "gender", string(domain.GenderMale), "male | female")
	flag.StringVar(&opts.category, "category", string(domain.CategoryCivilian), "civilian | military")
	flag.StringVar(&opts.style, "style", "", "服装スタイル (未指定なら性別と分類の既定値)")
	flag.StringVar(&opts.ratio, "ratio", string(domain.RatioPortrait), "3:4 | 4:3 | 1:1 | 16:9")
	flag.StringVar(&opts.country, "country", string(domain.CountryGeneric), "軍服の国 (military のみ)")
	flag.BoolVar(&opts.beret, "beret", false, "ベレー帽を着用する (military のみ)")
	flag.StringVar(&opts.beretRef, "beret-ref", "", "ベレー帽の参照画像 (パス, http(s)://)")
	flag.StringVar(&opts.rankRef, "rank-ref", "", "階級章の参照画像 (パス, http(s)://)。指定すると階級章を付けます")
	flag.StringVar(&opts.modifier, "modifier", "", "追加の指示文")
	flag.Int64Var(&opts.seed, "seed", -1, "シード値 (負数ならランダム)")
	flag.BoolVar(&opts.verbose, "v", false, "詳細ログを出力する")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		var genErr *generator.GenerationError
		if errors.As(err, &genErr) {
			slog.Error("生成に失敗しました", "kind", genErr.Kind, "attempts", genErr.Attempts, "cause", genErr.Err)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req, err := buildRequest(opts, cfg.UserAPIKey)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("リクエストが不正です: %w", err)
	}

	policies := cfg.Policies()
	core := generator.NewImageAssetCore(nil, httpkit.New(cfg.HTTPTimeout), nil, 0)
	gen, err := generator.NewGeminiGenerator(core, generator.GenAIModelFactory, generator.Config{
		Model:        cfg.Model,
		SharedAPIKey: cfg.SharedAPIKey,
		Locale:       cfg.Locale,
		Policies:     &policies,
	})
	if err != nil {
		return err
	}

	resp, err := gen.Generate(ctx, req, func(ev generator.ProgressEvent) {
		slog.Info(ev.Message, "retry", ev.Retry, "wait", ev.Wait, "kind", ev.Kind)
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, resp.Data, 0o644); err != nil {
		return fmt.Errorf("出力の書き込みに失敗しました: %w", err)
	}
	slog.Info("証明写真を保存しました",
		"path", opts.output,
		"mime_type", resp.MimeType,
		"size", fmt.Sprintf("%dx%d", resp.Width, resp.Height),
		"retries", resp.Retries(),
		"mode", resp.Mode,
	)
	return nil
}

func buildRequest(opts options, userKey string) (domain.GenerationRequest, error) {
	if opts.input == "" {
		return domain.GenerationRequest{}, errors.New("-in で元写真を指定してください")
	}
	source, err := os.ReadFile(opts.input)
	if err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("元写真を読み込めません: %w", err)
	}

	gender := domain.Gender(opts.gender)
	category := domain.Category(opts.category)
	style := domain.ClothingStyle(opts.style)
	if style == "" {
		style = domain.DefaultStyle(gender, category)
	}

	req := domain.GenerationRequest{
		SourceImage:    source,
		Gender:         gender,
		Category:       category,
		Style:          style,
		AspectRatio:    domain.AspectRatio(opts.ratio),
		PromptModifier: opts.modifier,
		UserAPIKey:     userKey,
	}
	if opts.seed >= 0 {
		req.Seed = &opts.seed
	}

	if category == domain.CategoryMilitary {
		mil := &domain.MilitaryOptions{
			Country:  domain.Country(opts.country),
			HasBeret: opts.beret,
		}
		if mil.BeretImage, err = loadSource(opts.beretRef); err != nil {
			return domain.GenerationRequest{}, err
		}
		if mil.RankImage, err = loadSource(opts.rankRef); err != nil {
			return domain.GenerationRequest{}, err
		}
		mil.HasRank = mil.RankImage != nil
		req.Military = mil
	}
	return req, nil
}

// loadSource は URL ならそのまま、それ以外はファイルとして読み込みます。
func loadSource(ref string) (*domain.ImageSource, error) {
	switch {
	case ref == "":
		return nil, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return &domain.ImageSource{URL: ref}, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("参照画像を読み込めません: %w", err)
	}
	return &domain.ImageSource{Data: data}, nil
}
