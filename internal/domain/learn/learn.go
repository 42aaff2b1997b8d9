// Package learn serves the curated care guides shown on the learn screen.
// The content ships with the binary; there is no editorial backend.
package learn

type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
	Icon    string `json:"icon"`
}

var articles = []Article{
	{
		ID:      "melhorar-terra-canteiro",
		Title:   "Como melhorar a terra do canteiro?",
		Summary: "Adubo orgânico e cobertura morta fazem toda a diferença.",
		Body: "Misture composto orgânico ou húmus de minhoca na camada superficial " +
			"do canteiro, sem revirar as raízes. Cubra com folhas secas ou serragem " +
			"para manter a umidade e proteger a vida do solo. Evite terra compactada: " +
			"afofe as bordas do canteiro com cuidado.",
		Icon: "🌱",
	},
	{
		ID:      "nao-pintar-troncos",
		Title:   "Por que não pode pintar os troncos das árvores?",
		Summary: "A cal e a tinta sufocam a casca e não protegem de pragas.",
		Body: "A casca da árvore respira e abriga organismos que a protegem. A " +
			"pintura com cal ou tinta fecha esses poros, resseca o tronco e pode " +
			"esconder sinais de doença. A prática não previne formigas nem cupins. " +
			"Se notar pragas, registre um evento de cuidado e acione a zeladoria.",
		Icon: "🎨",
	},
	{
		ID:      "proteger-arvore-jovem",
		Title:   "Como proteger uma árvore jovem?",
		Summary: "Tutor firme, água na medida e proteção contra pisoteio.",
		Body: "Amarre a muda a um tutor com material que não machuque a casca e " +
			"deixe folga para o tronco engrossar. Regue devagar e fundo, duas a " +
			"três vezes por semana no primeiro ano. Um cercadinho baixo evita " +
			"pisoteio e lixo no canteiro.",
		Icon: "🛡️",
	},
}

// Articles returns every guide in display order.
func Articles() []Article {
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}

// Get returns a guide by ID.
func Get(id string) (Article, bool) {
	for _, a := range articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}
