package usecase

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/lojabot/backend/internal/domain"
)

// imageMarker prefixes the image line in fallback-formatted product text so
// the response processor can recognize and extract it later.
const imageMarker = "📸"

// missingFieldPlaceholder renders for name and SKU when the record lacks them
const missingFieldPlaceholder = "N/A"

// brlPrinter localizes numeric price formatting (1234.56 -> "1.234,56")
var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatProductFallback renders one product as a labeled multi-line text
// block. Name and SKU always render (placeholder when absent); every other
// field is omitted when the record lacks it. The image line is written with
// the marker so ExtractImage can recover the URL from the final text.
func FormatProductFallback(product domain.Product) string {
	var b strings.Builder

	b.WriteString("**Nome:** " + orPlaceholder(product.Name) + "\n")

	if imageURL := product.ImageRef(); imageURL != "" {
		b.WriteString(imageMarker + " " + imageURL + "\n")
	}

	b.WriteString("**SKU:** " + orPlaceholder(product.SKU) + "\n")

	if price := formatPrice(product); price != "" {
		b.WriteString("**Preço:** " + price + "\n")
	}
	if product.PricePix != "" {
		b.WriteString("**Preço Pix:** " + product.PricePix + "\n")
	}
	if product.Brand != "" {
		b.WriteString("**Marca:** " + product.Brand + "\n")
	}
	if product.Categories != "" {
		b.WriteString("**Categorias:** " + product.Categories + "\n")
	}
	if link := product.ProductLink(); link != "" {
		b.WriteString("**Link:** " + link + "\n")
	}

	return b.String()
}

// formatPrice prefers the pre-formatted price string, then tries pt-BR
// currency formatting of the numeric price, then falls back to the raw value.
func formatPrice(product domain.Product) string {
	if product.PriceFormatted != "" {
		return product.PriceFormatted
	}
	if product.Price == "" {
		return ""
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(product.Price), 64)
	if err != nil {
		return product.Price
	}
	return brlPrinter.Sprintf("R$ %v", number.Decimal(value,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func orPlaceholder(s string) string {
	if s == "" {
		return missingFieldPlaceholder
	}
	return s
}
