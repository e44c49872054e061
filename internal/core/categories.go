package core

// CategoryOther is the fallback bucket for unknown category keys.
const CategoryOther = "outros"

// CategoryCardPayment marks card-invoice payments. It is a bookkeeping
// artifact, not a real spending category: breakdowns and top-expense lists
// skip it so spending is attributed to the underlying purchase category.
const CategoryCardPayment = "cartao"

// CategoryInfo describes how a category is presented.
type CategoryInfo struct {
	Label string
	Color string
	Icon  string
}

// Catalog is an immutable category lookup injected into the aggregation and
// insight engines, so tests can substitute fixture category sets.
type Catalog map[string]CategoryInfo

// DefaultCatalog returns the built-in category taxonomy.
func DefaultCatalog() Catalog {
	return Catalog{
		"mercado":     {Label: "Mercado", Color: "#4CAF50", Icon: "cart"},
		"alimentacao": {Label: "Alimentação", Color: "#FF9800", Icon: "restaurant"},
		"transporte":  {Label: "Transporte", Color: "#2196F3", Icon: "car"},
		"moradia":     {Label: "Moradia", Color: "#795548", Icon: "home"},
		"saude":       {Label: "Saúde", Color: "#F44336", Icon: "medkit"},
		"educacao":    {Label: "Educação", Color: "#3F51B5", Icon: "school"},
		"lazer":       {Label: "Lazer", Color: "#9C27B0", Icon: "game-controller"},
		"assinaturas": {Label: "Assinaturas", Color: "#00BCD4", Icon: "tv"},
		"vestuario":   {Label: "Vestuário", Color: "#E91E63", Icon: "shirt"},
		"servicos":    {Label: "Serviços", Color: "#607D8B", Icon: "construct"},
		"pets":        {Label: "Pets", Color: "#8BC34A", Icon: "paw"},
		"viagem":      {Label: "Viagem", Color: "#FFC107", Icon: "airplane"},
		"salario":     {Label: "Salário", Color: "#009688", Icon: "cash"},
		"cartao":      {Label: "Cartão", Color: "#9E9E9E", Icon: "card"},
		"outros":      {Label: "Outros", Color: "#BDBDBD", Icon: "ellipsis-horizontal"},
	}
}

// Info resolves a category key, falling back to "outros" for unknown keys.
func (c Catalog) Info(key string) CategoryInfo {
	if info, ok := c[key]; ok {
		return info
	}
	return c[CategoryOther]
}

// Color returns the display color for a category key.
func (c Catalog) Color(key string) string {
	return c.Info(key).Color
}
