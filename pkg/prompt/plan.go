package prompt

import (
	"strings"

	"github.com/shouni/gemini-idphoto-kit/pkg/domain"
	"google.golang.org/genai"
)

// 参照画像の直前に置くラベル。下流のAPIは位置で画像の役割を判断する。
const (
	LabelBeret = "Reference Beret:"
	LabelRank  = "Reference Rank Insignia:"
)

// InlineImage は前処理済みの画像データです。
type InlineImage struct {
	Data     []byte
	MIMEType string
}

// Part は genai.Part (InlineData) に変換します。
func (i *InlineImage) Part() *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{MIMEType: i.MIMEType, Data: i.Data}}
}

// Assets は 1 回の生成に使う前処理済み画像の組です。Main 以外は nil を許容します。
type Assets struct {
	Main  *InlineImage
	Beret *InlineImage
	Rank  *InlineImage
}

// Plan は 1 回のリクエストのために組み立てるプロンプトと送信パーツです。保持はしません。
type Plan struct {
	ClothingDescription string
	ExtraInstructions   []string
	Instruction         string
	Parts               []*genai.Part
}

// HasLabel は指定したラベルのテキストパーツが含まれるかを返します。
func (p *Plan) HasLabel(label string) bool {
	for _, part := range p.Parts {
		if part != nil && part.Text == label {
			return true
		}
	}
	return false
}

// Build はリクエストと前処理済み画像から Plan を組み立てます。
// パーツの順序は「元写真 → (ラベル, 参照画像)… → 指示文」で固定です。
func Build(req domain.GenerationRequest, assets Assets) *Plan {
	country := domain.CountryGeneric
	if req.Military != nil {
		country = req.Military.Country
	}

	plan := &Plan{
		ClothingDescription: ClothingDescription(req.Style, req.Category, country),
	}

	if assets.Main != nil {
		plan.Parts = append(plan.Parts, assets.Main.Part())
	}

	if req.Category == domain.CategoryMilitary && req.Military != nil {
		plan.addHeadwear(req.Military, assets.Beret)
		plan.addRank(req.Military, assets.Rank)
	}

	plan.Instruction = buildInstruction(plan.ClothingDescription, plan.ExtraInstructions, req.PromptModifier)
	plan.Parts = append(plan.Parts, &genai.Part{Text: plan.Instruction})
	return plan
}

func (p *Plan) addHeadwear(opts *domain.MilitaryOptions, beret *InlineImage) {
	switch {
	case !opts.HasBeret:
		p.ExtraInstructions = append(p.ExtraInstructions,
			"The subject must NOT wear any headwear: no beret, no cap, no hat. Show the natural hair or head shape.")
	case beret != nil:
		p.Parts = append(p.Parts, &genai.Part{Text: LabelBeret}, beret.Part())
		p.ExtraInstructions = append(p.ExtraInstructions,
			"Place the exact beret shown in the Reference Beret image ON TOP of the subject's head naturally, keeping its color, badge and shape. Do not reshape, enlarge or distort the subject's skull or hairline to fit it.")
	default:
		p.ExtraInstructions = append(p.ExtraInstructions,
			"The subject MUST wear a matching military beret: "+BeretDescription(opts.Country)+", worn tilted in regulation style.")
	}
}

func (p *Plan) addRank(opts *domain.MilitaryOptions, rank *InlineImage) {
	// 参照画像がない階級章は呼び出し側の前提条件違反なので、何も追加しない
	if !opts.HasRank || rank == nil {
		return
	}
	p.Parts = append(p.Parts, &genai.Part{Text: LabelRank}, rank.Part())
	p.ExtraInstructions = append(p.ExtraInstructions,
		"Composite the rank insignia shown in the Reference Rank Insignia image onto the uniform's shoulder epaulettes (or chest tab if the uniform has no epaulettes), matching the uniform's lighting and perspective.")
}

func buildInstruction(clothing string, extras []string, modifier string) string {
	var b strings.Builder
	b.WriteString("ROLE: Professional ID Photo Editor.\n")
	b.WriteString("INPUT: The first image is a photo of a real person.\n\n")

	b.WriteString("1. IDENTITY (highest priority): Keep the face 100% identical to the input. ")
	b.WriteString("Do not change facial structure, features, skin tone, age, or expression. No beautification, smoothing or makeup.\n")

	b.WriteString("2. POSE: Present a frontal view. Straighten a tilted head and level the shoulders, ")
	b.WriteString("but never at the cost of identity fidelity.\n")

	b.WriteString("3. CLOTHING: Replace the clothing with ")
	b.WriteString(clothing)
	b.WriteString(".")
	for _, extra := range extras {
		b.WriteString(" ")
		b.WriteString(extra)
	}
	b.WriteString("\n")

	b.WriteString("4. ENVIRONMENT: Solid pure white background, soft even studio lighting with no harsh shadows, ")
	b.WriteString("cropped to head and shoulders like an official ID photo.\n")

	if strings.TrimSpace(modifier) != "" {
		b.WriteString("\n")
		b.WriteString(modifier)
		b.WriteString("\n")
	}

	b.WriteString("\nOutput ONLY the image.")
	return b.String()
}
