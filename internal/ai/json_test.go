package ai

import "testing"

func TestFirstJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"bare array", `[1,2]`, `[1,2]`},
		{"leading prose", `Aqui estão as transações: {"a":1} espero ter ajudado`, `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"brace inside string", `{"desc":"COMPRA {LOJA}"}`, `{"desc":"COMPRA {LOJA}"}`},
		{"escaped quote inside string", `{"desc":"compra \"especial\""}`, `{"desc":"compra \"especial\""}`},
		{"unbalanced", `{"a":1`, ""},
		{"no json", "nenhuma transação encontrada", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstJSON(tt.input); got != tt.want {
				t.Errorf("FirstJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"transactions":[]}`, `{"transactions":[]}`},
		{"json fence", "```json\n{\"transactions\":[]}\n```", `{"transactions":[]}`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"prose around fence", "Claro!\n```json\n{\"a\":1}\n```\nEspero ter ajudado.", `{"a":1}`},
		{"whitespace", "  \n {\"a\":1} \n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.input); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTransactionsPayload(t *testing.T) {
	t.Run("object with transactions", func(t *testing.T) {
		arr, err := ParseTransactionsPayload(`{"transactions":[{"date":"05/03/2024","description":"PIX","amount":-10.5}]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(arr.Array()) != 1 {
			t.Fatalf("expected 1 element, got %d", len(arr.Array()))
		}
		if got := arr.Array()[0].Get("description").String(); got != "PIX" {
			t.Errorf("description = %q", got)
		}
	})

	t.Run("bare array", func(t *testing.T) {
		arr, err := ParseTransactionsPayload(`[{"date":"05/03/2024","description":"PIX","amount":-10.5}]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(arr.Array()) != 1 {
			t.Fatalf("expected 1 element, got %d", len(arr.Array()))
		}
	})

	t.Run("fenced response", func(t *testing.T) {
		arr, err := ParseTransactionsPayload("```json\n{\"transactions\":[]}\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(arr.Array()) != 0 {
			t.Errorf("expected empty array")
		}
	})

	t.Run("no json", func(t *testing.T) {
		if _, err := ParseTransactionsPayload("não encontrei transações"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("object without transactions", func(t *testing.T) {
		if _, err := ParseTransactionsPayload(`{"resultado":"vazio"}`); err == nil {
			t.Error("expected error")
		}
	})
}

func TestCategoryResponseMarkers(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		category   string
		confidence string
		ok         bool
	}{
		{"canonical", "Categoria: Alimentação: Supermercado\nConfiança: 0.9", "Alimentação: Supermercado", "0.9", true},
		{"prose around", "Analisei a transação.\nCategoria: Moradia: Luz\nConfiança: 0.75\nEspero ter ajudado.", "Moradia: Luz", "0.75", true},
		{"unaccented marker", "Categoria: Lazer: Cinema\nConfianca: 0.6", "Lazer: Cinema", "0.6", true},
		{"missing confidence", "Categoria: Lazer: Cinema", "", "", false},
		{"missing category", "Confiança: 0.9", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catMatch := categoryLine.FindStringSubmatch(tt.text)
			confMatch := confidenceLine.FindStringSubmatch(tt.text)
			got := catMatch != nil && confMatch != nil
			if got != tt.ok {
				t.Fatalf("markers found = %v, want %v", got, tt.ok)
			}
			if !tt.ok {
				return
			}
			if cat := catMatch[1]; cat != tt.category {
				t.Errorf("category = %q, want %q", cat, tt.category)
			}
			if conf := confMatch[1]; conf != tt.confidence {
				t.Errorf("confidence = %q, want %q", conf, tt.confidence)
			}
		})
	}
}
