package usecase

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/internal/domain"
)

// Score increments per keyword hit
const (
	scoreNameMatch        = 3  // keyword found in product name
	scoreDescriptionMatch = 1  // keyword found in full description
	scoreCategoriesMatch  = 1  // keyword found in categories
	scoreExactSKUMatch    = 10 // keyword equals the SKU exactly
)

// maxSearchResults caps how many scored products a search returns
const maxSearchResults = 3

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	EnableDebugLogging bool
}

// SearchService scores and ranks catalog products against a free-text query.
// It is the local fallback used when the remote assistant is unavailable.
type SearchService struct {
	enableDebugLogging bool
}

// NewSearchService creates a new search service with the given configuration
func NewSearchService(config SearchConfig) *SearchService {
	return &SearchService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindProducts splits the query into lowercase keywords and scores every
// catalog product by substring containment. Products with a positive score
// are sorted by descending score (ties keep catalog order) and at most the
// top three are returned. An empty or whitespace-only query matches nothing.
func (s *SearchService) FindProducts(query string, catalog []domain.Product) []domain.ScoredProduct {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil
	}

	var results []domain.ScoredProduct
	for _, product := range catalog {
		score := scoreProduct(keywords, product)
		if score > 0 {
			results = append(results, domain.ScoredProduct{
				Product:    product,
				MatchScore: score,
			})
		}
	}

	// Stable: equal scores keep their original catalog order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}

	if s.enableDebugLogging {
		log.Debug().Str("query", query).Int("matches", len(results)).Msg("catalog search")
	}

	return results
}

// scoreProduct accumulates the score of one product against the keyword set
func scoreProduct(keywords []string, product domain.Product) int {
	nameLower := strings.ToLower(product.Name)
	descLower := strings.ToLower(product.Description)
	catLower := strings.ToLower(product.Categories)
	skuLower := strings.ToLower(product.SKU)

	score := 0
	for _, keyword := range keywords {
		if strings.Contains(nameLower, keyword) {
			score += scoreNameMatch
		}
		if strings.Contains(descLower, keyword) {
			score += scoreDescriptionMatch
		}
		if strings.Contains(catLower, keyword) {
			score += scoreCategoriesMatch
		}
		if skuLower != "" && keyword == skuLower {
			score += scoreExactSKUMatch
		}
	}
	return score
}
