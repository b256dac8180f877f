package classify

import (
	"strings"

	"github.com/rmoura/orcamento/internal/taxonomy"
	"github.com/shopspring/decimal"
)

// revenueRule matches credit descriptions against a keyword list. Rules are
// checked in declaration order; the first hit wins.
type revenueRule struct {
	keywords   []string
	all        bool // true: every keyword must appear; false: any
	category   string
	confidence float64
}

var revenueRules = []revenueRule{
	{keywords: []string{"salario", "sal", "remuneracao"}, category: "Receita Fixa: Salário", confidence: 0.8},
	{keywords: []string{"aposentadoria", "inss"}, category: "Receita Fixa: Aposentadoria", confidence: 0.8},
	{keywords: []string{"aluguel", "recebido"}, all: true, category: "Receita Fixa: Aluguel Recebido", confidence: 0.8},
	{keywords: []string{"freelance", "consultoria", "projeto"}, category: "Receita Variável: Freelance", confidence: 0.7},
	{keywords: []string{"transferencia", "recebida"}, all: true, category: "Receita Variável: Outros", confidence: 0.6},
}

func (r revenueRule) matches(desc string) bool {
	if r.all {
		for _, kw := range r.keywords {
			if !strings.Contains(desc, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// fallback is the deterministic keyword categorizer. It is fully
// self-contained: no network, no clock, no state beyond the taxonomy.
func (e *Engine) fallback(description string, amount decimal.Decimal) Result {
	desc := strings.ToLower(description)

	if amount.Sign() > 0 {
		for _, rule := range revenueRules {
			if rule.matches(desc) {
				return Result{Category: rule.category, Confidence: rule.confidence}
			}
		}
		return Result{Category: "Receita Variável: Outros", Confidence: 0.5}
	}

	// Expenses: walk the non-revenue groups in taxonomy order, keywords in
	// list order; the first substring hit names the subcategory.
	for _, group := range e.tax.Groups() {
		if taxonomy.IsRevenueGroup(group.Name) {
			continue
		}
		for _, kw := range group.Keywords {
			if strings.Contains(desc, kw) {
				return Result{
					Category:   group.Name + ": " + taxonomy.Capitalize(kw),
					Confidence: 0.7,
				}
			}
		}
	}

	// Generic phrasings that survived the group scan get low confidence so
	// the consumer flags them for review.
	switch {
	case strings.Contains(desc, "transferencia") || strings.Contains(desc, "pix"):
		return Result{Category: taxonomy.DefaultCategory, Confidence: 0.3}
	case strings.Contains(desc, "pagamento") || strings.Contains(desc, "debito automatico"):
		return Result{Category: taxonomy.DefaultCategory, Confidence: 0.2}
	case strings.Contains(desc, "compra cartao"):
		return Result{Category: taxonomy.DefaultCategory, Confidence: 0.4}
	}

	return Result{Category: taxonomy.DefaultCategory, Confidence: 0.3}
}
