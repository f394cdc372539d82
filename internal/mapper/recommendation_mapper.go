package mapper

import (
	"smart-product-be/internal/dto"
	"smart-product-be/pkg/recommend/state"
)

// ToRecommendationResponse keeps the five public fields of a finished run.
func ToRecommendationResponse(s state.State) *dto.RecommendationResponse {
	sources := make([]dto.SourceDTO, 0, len(s.Sources))
	for _, src := range s.Sources {
		sources = append(sources, dto.SourceDTO{Title: src.Title, Url: src.URL})
	}

	products := s.RecommendedProducts
	if products == nil {
		products = []string{}
	}
	ecommerce := s.EcommerceLinks
	if ecommerce == nil {
		ecommerce = state.Links{}
	}

	return &dto.RecommendationResponse{
		Recommendation:      s.FinalRecommendation,
		ProductCategory:     s.ProductCategory,
		RecommendedProducts: products,
		EcommerceLinks:      ecommerce,
		Sources:             sources,
	}
}
