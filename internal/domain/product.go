package domain

// Product is one catalog entry loaded from produtos.json. The JSON field
// names mirror the store export, which uses two aliases each for the image
// and link fields.
type Product struct {
	Name           string `json:"nome"`
	Description    string `json:"descricao_completa"`
	Categories     string `json:"categorias"`
	SKU            string `json:"sku"`
	Brand          string `json:"marca"`
	Image          string `json:"imagem"`
	ImageURL       string `json:"imagem_url"`
	Price          string `json:"preco"`
	PriceFormatted string `json:"preco_formatado"`
	PricePix       string `json:"preco_pix"`
	Link           string `json:"link"`
	LinkProduto    string `json:"link_produto"`
}

// ImageRef resolves to the first image field present on the record.
func (p Product) ImageRef() string {
	if p.Image != "" {
		return p.Image
	}
	return p.ImageURL
}

// ProductLink resolves to the first link field present on the record.
func (p Product) ProductLink() string {
	if p.Link != "" {
		return p.Link
	}
	return p.LinkProduto
}

// ScoredProduct is a catalog entry plus the match score it earned for one
// query. Transient, never persisted.
type ScoredProduct struct {
	Product
	MatchScore int `json:"match_score"`
}

// ImageReference is the result of extracting an embedded image notation from
// assistant or fallback text. FullMatch is the exact substring that matched,
// kept verbatim so the line containing it can be removed from display text.
type ImageReference struct {
	URL       string
	FullMatch string
}
