package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rmoura/orcamento/internal/taxonomy"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash-lite"

// Gemini is the network-backed collaborator. It satisfies both Categorizer
// and Extractor.
type Gemini struct {
	apiKey string
	model  string
	tax    *taxonomy.Taxonomy
}

// NewGemini builds a Gemini client description. The underlying genai client
// is created per call, matching how the upstream SDK examples use it.
func NewGemini(apiKey, model string, tax *taxonomy.Taxonomy) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model, tax: tax}
}

// Configured reports whether a credential is present. An unconfigured Gemini
// must never be called; callers route to the offline fallback instead.
func (g *Gemini) Configured() bool { return g.apiKey != "" }

func (g *Gemini) client(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
}

var (
	categoryLine   = regexp.MustCompile(`(?i)Categoria:\s*(.+)`)
	confidenceLine = regexp.MustCompile(`(?i)Confian[çc]a:\s*([\d.]+)`)
)

// Categorize asks the model for a "Categoria:" / "Confiança:" pair. Free
// text around the two markers is tolerated; a response missing either is an
// error, which sends the caller to the deterministic fallback.
func (g *Gemini) Categorize(ctx context.Context, description string, amount decimal.Decimal) (CategorySuggestion, error) {
	if !g.Configured() {
		return CategorySuggestion{}, fmt.Errorf("gemini: no API key configured")
	}

	client, err := g.client(ctx)
	if err != nil {
		return CategorySuggestion{}, fmt.Errorf("gemini: create client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: g.categorizePrompt(description, amount)}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return CategorySuggestion{}, fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	catMatch := categoryLine.FindStringSubmatch(text)
	confMatch := confidenceLine.FindStringSubmatch(text)
	if catMatch == nil || confMatch == nil {
		return CategorySuggestion{}, fmt.Errorf("gemini: response missing category/confidence markers: %q", text)
	}

	conf, err := strconv.ParseFloat(confMatch[1], 64)
	if err != nil {
		return CategorySuggestion{}, fmt.Errorf("gemini: bad confidence %q: %w", confMatch[1], err)
	}
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return CategorySuggestion{
		Category:   strings.TrimSpace(catMatch[1]),
		Confidence: conf,
	}, nil
}

func (g *Gemini) categorizePrompt(description string, amount decimal.Decimal) string {
	kind := "DESPESA"
	if amount.Sign() >= 0 {
		kind = "RECEITA"
	}
	return "Você é um especialista em categorização financeira brasileira. " +
		"Analise esta transação bancária:\n\n" +
		"DESCRIÇÃO: \"" + description + "\"\n" +
		"VALOR: R$ " + amount.Abs().StringFixed(2) + "\n" +
		"TIPO: " + kind + "\n\n" +
		"CATEGORIAS DISPONÍVEIS:\n" + g.tax.PromptLabelSpace() + "\n\n" +
		"INSTRUÇÕES:\n" +
		"1. Analise cuidadosamente a descrição da transação\n" +
		"2. Escolha a categoria mais específica possível\n" +
		"3. Para receitas use os grupos \"Receita Fixa\" ou \"Receita Variável\"\n" +
		"4. Se a descrição for ambígua ou genérica, use confiança baixa (0.3-0.6)\n" +
		"5. Se a descrição for clara e específica, use confiança alta (0.7-1.0)\n\n" +
		"Responda APENAS no formato:\n" +
		"Categoria: [Grupo: Item]\n" +
		"Confiança: [0.0-1.0]\n"
}

// ExtractTransactions sends unstructured statement content to the model and
// scrapes the transactions array out of its answer. The element-level
// validation (non-empty date/description, numeric amount) belongs to the
// statement extractor, not here.
func (g *Gemini) ExtractTransactions(ctx context.Context, mimeType string, data []byte) (gjson.Result, error) {
	if !g.Configured() {
		return gjson.Result{}, fmt.Errorf("gemini: no API key configured")
	}

	client, err := g.client(ctx)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("gemini: create client: %w", err)
	}

	parts := []*genai.Part{{Text: extractPrompt}}
	if strings.HasPrefix(mimeType, "text/") {
		parts = append(parts, &genai.Part{Text: "AQUI ESTÁ O CONTEÚDO DO EXTRATO:\n\n\"\"\"\n" + string(data) + "\n\"\"\"\n"})
	} else {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("gemini: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return gjson.Result{}, fmt.Errorf("gemini: empty response from model")
	}

	return ParseTransactionsPayload(rawText)
}

// ParseTransactionsPayload locates the first balanced JSON value in a model
// response and returns its transactions array. A bare top-level array is
// accepted as the array itself.
func ParseTransactionsPayload(text string) (gjson.Result, error) {
	clean := cleanModelJSON(text)
	if clean == "" || !gjson.Valid(clean) {
		return gjson.Result{}, fmt.Errorf("ai: no JSON payload in model response")
	}

	parsed := gjson.Parse(clean)
	if parsed.IsArray() {
		return parsed, nil
	}
	txs := parsed.Get("transactions")
	if !txs.IsArray() {
		return gjson.Result{}, fmt.Errorf("ai: model response has no transactions array")
	}
	return txs, nil
}

const extractPrompt = `Analise este extrato bancário e extraia TODAS as transações encontradas.
O extrato pode ter diferentes formatos dependendo do banco (Bradesco, Itaú, Santander, Nubank, Inter, Caixa, etc).

Para cada transação identifique:
- Data da transação (formato DD/MM/AAAA)
- Descrição/Histórico COMPLETO, mantendo o texto original do banco
- Valor EXATO (positivo para créditos/entradas, negativo para débitos/saídas)

NÃO inclua saldos anteriores/posteriores, cabeçalhos ou linhas de resumo.
INCLUA tudo que for movimentação financeira real: PIX, TED, DOC, cartão,
boletos, tarifas, saques e depósitos.

Responda APENAS em formato JSON válido:
{
  "transactions": [
    {
      "date": "DD/MM/AAAA",
      "description": "descrição completa exatamente como aparece",
      "amount": valor_numerico_com_sinal_correto
    }
  ]
}
`
