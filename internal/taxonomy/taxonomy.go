// Package taxonomy holds the fixed two-level category vocabulary
// ("Grupo: Item"). It is loaded once at startup and passed explicitly to the
// components that need it; it never changes afterwards.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is the universal fallback label.
const DefaultCategory = "Outros Gastos: Outros"

// Group is one category group with its keyword list, in declaration order.
// Keyword order matters: the fallback categorizer takes the first match.
type Group struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is the ordered group list plus a lookup index.
type Taxonomy struct {
	groups []Group
	index  map[string]int // normalized group name -> position
}

// Default returns the built-in Brazilian budget taxonomy.
func Default() *Taxonomy {
	return build(defaultGroups)
}

// LoadFile reads a YAML group list and builds a taxonomy from it. Used to
// override the built-in vocabulary without recompiling.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: reading %s: %w", path, err)
	}
	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("taxonomy: parsing %s: %w", path, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("taxonomy: %s defines no groups", path)
	}
	return build(groups), nil
}

func build(groups []Group) *Taxonomy {
	t := &Taxonomy{
		groups: make([]Group, len(groups)),
		index:  make(map[string]int, len(groups)),
	}
	copy(t.groups, groups)
	for i, g := range t.groups {
		t.index[normalize(g.Name)] = i
	}
	return t
}

// Groups returns the groups in declaration order.
func (t *Taxonomy) Groups() []Group { return t.groups }

// HasGroup reports whether name is a known group (case-insensitive).
func (t *Taxonomy) HasGroup(name string) bool {
	_, ok := t.index[normalize(name)]
	return ok
}

// ValidLabel checks that a "Grupo: Item" label names a known group. The item
// half is free within the group: classifiers may emit items beyond the
// keyword list as long as the group exists.
func (t *Taxonomy) ValidLabel(label string) bool {
	group, _, ok := strings.Cut(label, ":")
	if !ok {
		return false
	}
	return t.HasGroup(strings.TrimSpace(group))
}

// IsRevenueGroup reports whether the group books money in rather than out.
func IsRevenueGroup(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), "Receita")
}

// PromptLabelSpace renders the taxonomy as the label space sent to the AI
// classifier, one "Grupo: k1, k2, ..." line per group.
func (t *Taxonomy) PromptLabelSpace() string {
	var b strings.Builder
	for i, g := range t.groups {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(g.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(g.Keywords, ", "))
	}
	return b.String()
}

// Capitalize upper-cases the first rune of a keyword, matching how fallback
// subcategory labels are derived ("supermercado" -> "Supermercado").
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

var defaultGroups = []Group{
	{Name: "Receita Fixa", Keywords: []string{"salario", "aposentadoria", "pensao", "aluguel recebido", "remuneracao"}},
	{Name: "Receita Variável", Keywords: []string{"freelance", "vendas", "comissoes", "premios", "consultoria", "projeto"}},
	{Name: "Moradia", Keywords: []string{"aluguel", "financiamento", "condominio", "iptu", "luz", "agua", "gas", "internet", "telefone", "energia"}},
	{Name: "Alimentação", Keywords: []string{"supermercado", "restaurante", "delivery", "lanche", "ifood", "uber eats", "comida", "lanchonete"}},
	{Name: "Transporte", Keywords: []string{"combustivel", "gasolina", "alcool", "uber", "taxi", "99", "metro", "onibus", "estacionamento", "posto"}},
	{Name: "Saúde", Keywords: []string{"plano de saude", "consulta", "medicamento", "farmacia", "exame", "medico", "hospital"}},
	{Name: "Educação", Keywords: []string{"mensalidade", "escola", "faculdade", "curso", "livro", "universidade"}},
	{Name: "Lazer", Keywords: []string{"cinema", "teatro", "show", "viagem", "hotel", "jogo", "academia", "esporte"}},
	{Name: "Vestuário", Keywords: []string{"roupa", "calcado", "sapato", "tenis", "shopping", "loja", "renner", "c&a"}},
	{Name: "Beleza", Keywords: []string{"cabelereiro", "salao", "estetica", "cosmetico", "perfume"}},
	{Name: "Outros Gastos", Keywords: []string{"presente", "doacao", "multa", "taxa", "saque", "transferencia", "pix", "pagamento"}},
}
