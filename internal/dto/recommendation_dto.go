package dto

import "smart-product-be/pkg/recommend/state"

type RecommendationRequest struct {
	UserInput string `json:"user_input" validate:"notblank"`
}

type SourceDTO struct {
	Title string `json:"title"`
	Url   string `json:"url"`
}

// RecommendationResponse is the public contract of POST /recommend.
// ecommerce_links keeps product and site order.
type RecommendationResponse struct {
	Recommendation      string      `json:"recommendation"`
	ProductCategory     string      `json:"product_category"`
	RecommendedProducts []string    `json:"recommended_products"`
	EcommerceLinks      state.Links `json:"ecommerce_links"`
	Sources             []SourceDTO `json:"sources"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
