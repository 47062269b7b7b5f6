package models

import "slices"

// Advisory vocabularies offered by the manual garment form. The service does
// not enforce them; only Categories gates target selection.
var (
	Categories = []string{"blusa", "jaqueta", "saia", "calca", "sapato", "bolsa", "acessorio"}
	Patterns   = []string{"liso", "listrado", "xadrez", "poa"}
	Styles     = []string{"classico", "casual", "esportivo", "streetwear", "formal", "romantico"}
	Occasions  = []string{"casual", "formal", "esportivo", "trabalho", "noite"}
	Climates   = []string{"quente", "frio", "meia-estacao"}
	Colors     = []string{
		"preto", "branco", "cinza", "nude", "bege", "marrom",
		"azul", "azul-escuro", "verde", "verde-agua", "ciano",
		"vermelho", "laranja", "amarelo", "rosa",
	}
	Materials = []string{"algodao", "jeans", "couro", "seda", "linho", "la", "poliester", "malha", "metal"}
)

// IsCategory reports whether token is one of the known categories.
// The token is compared as given; callers fold it first.
func IsCategory(token string) bool {
	return slices.Contains(Categories, token)
}

// Vocabulary pairs a vocabulary name with its values, in display order.
type Vocabulary struct {
	Name   string
	Values []string
}

// Vocabularies lists every advisory vocabulary.
func Vocabularies() []Vocabulary {
	return []Vocabulary{
		{"categoria", Categories},
		{"cor", Colors},
		{"padrao", Patterns},
		{"material", Materials},
		{"estilo", Styles},
		{"ocasion", Occasions},
		{"clima", Climates},
	}
}
