package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smart-product-be/pkg/llm"
	"smart-product-be/pkg/recommend/links"
	"smart-product-be/pkg/recommend/prompt"
	"smart-product-be/pkg/recommend/state"
	"smart-product-be/pkg/recommend/textutil"
)

var errIntentNotParsed = errors.New("intent response is not a JSON object with product_category and user_intent")

// AnalyzeIntent derives the product category and a summary of what the user wants.
func (s *Stages) AnalyzeIntent(ctx context.Context, st state.State) state.Delta {
	userMessage := st.LastUserMessage()
	s.logger.Info("pipeline."+AnalyzeIntent, "analyzing user intent", map[string]interface{}{
		"user_message": userMessage,
	})

	fallback := state.Delta{
		ProductCategory: state.Str(FallbackCategory),
		UserIntent:      state.Str(userMessage),
	}

	res, err := s.llm.Generate(ctx, prompt.IntentAnalysis(userMessage),
		llm.WithModel(s.cfg.FastModel),
		llm.WithTemperature(intentTemperature),
	)
	if err != nil {
		s.fellBack(AnalyzeIntent, err, nil)
		return fallback
	}

	obj, ok := textutil.ExtractJSONObject(strings.TrimSpace(res.Text))
	if !ok {
		s.fellBack(AnalyzeIntent, errIntentNotParsed, map[string]interface{}{"raw": res.Text})
		return fallback
	}
	category, okCategory := textutil.StringField(obj, "product_category")
	intent, okIntent := textutil.StringField(obj, "user_intent")
	if !okCategory || !okIntent {
		s.fellBack(AnalyzeIntent, errIntentNotParsed, map[string]interface{}{"raw": res.Text})
		return fallback
	}

	s.logger.Info("pipeline."+AnalyzeIntent, "product category resolved", map[string]interface{}{
		"product_category": category,
	})
	return state.Delta{
		ProductCategory: state.Str(category),
		UserIntent:      state.Str(intent),
	}
}

// GenerateBuyingGuide writes a short guide for the category.
func (s *Stages) GenerateBuyingGuide(ctx context.Context, st state.State) state.Delta {
	s.logger.Info("pipeline."+GenerateBuyingGuide, "generating buying guide", map[string]interface{}{
		"product_category": st.ProductCategory,
	})

	res, err := s.llm.Generate(ctx, prompt.BuyingGuide(st.ProductCategory, st.UserIntent),
		llm.WithModel(s.cfg.LargeModel),
		llm.WithTemperature(guideTemperature),
	)
	if err != nil {
		s.fellBack(GenerateBuyingGuide, err, nil)
		return state.Delta{BuyingGuide: state.Str(fmt.Sprintf(fallbackGuideFormat, st.ProductCategory))}
	}

	s.logger.Info("pipeline."+GenerateBuyingGuide, "buying guide ready", nil)
	return state.Delta{BuyingGuide: state.Str(strings.TrimSpace(res.Text))}
}

// SearchProducts researches current offers with web-search grounding and keeps the citations.
func (s *Stages) SearchProducts(ctx context.Context, st state.State) state.Delta {
	s.logger.Info("pipeline."+SearchProducts, "searching products", map[string]interface{}{
		"product_category": st.ProductCategory,
	})

	res, err := s.llm.Generate(ctx, prompt.ProductSearch(st.ProductCategory, st.UserIntent),
		llm.WithModel(s.cfg.FastModel),
		llm.WithTemperature(searchTemperature),
		llm.WithGoogleSearch(),
	)
	if err != nil {
		s.fellBack(SearchProducts, err, nil)
		return state.Delta{
			SearchResults: state.Str(fmt.Sprintf(fallbackSearchFormat, st.ProductCategory)),
			Sources:       []state.Source{},
			SetSources:    true,
		}
	}

	sources := ExtractSources(res)
	s.logger.Info("pipeline."+SearchProducts, "product research done", map[string]interface{}{
		"sources": len(sources),
	})
	return state.Delta{
		SearchResults: state.Str(res.Text),
		Sources:       sources,
		SetSources:    true,
	}
}

// ExtractSources reads web citations from the first candidate's grounding
// metadata. Any missing level yields an empty list.
func ExtractSources(res *llm.Response) []state.Source {
	sources := []state.Source{}
	if res == nil || len(res.Candidates) == 0 {
		return sources
	}
	candidate := res.Candidates[0]
	if candidate == nil || candidate.GroundingMetadata == nil {
		return sources
	}

	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = textutil.UntitledSource
		}
		sources = append(sources, state.Source{Title: title, URL: chunk.Web.URI})
	}
	return sources
}

// GenerateRecommendation extracts product names and writes the final report.
// The two calls fail independently: a failed extraction only empties the
// product list.
func (s *Stages) GenerateRecommendation(ctx context.Context, st state.State) state.Delta {
	s.logger.Info("pipeline."+GenerateRecommendation, "preparing final recommendation", nil)

	products := []string{}
	extraction, err := s.llm.Generate(ctx, prompt.ProductExtraction(st.SearchResults),
		llm.WithModel(s.cfg.FastModel),
		llm.WithTemperature(extractionTemperature),
	)
	if err != nil {
		s.fellBack(ProductExtraction, err, nil)
	} else {
		products = textutil.ParseProductList(extraction.Text)
		s.logger.Info("pipeline."+GenerateRecommendation, "products extracted", map[string]interface{}{
			"count": len(products),
		})
	}

	p := prompt.FinalRecommendation(
		st.ProductCategory,
		prompt.TitleCase(st.ProductCategory),
		st.BuyingGuide,
		st.SearchResults,
	)
	res, err := s.llm.Generate(ctx, p,
		llm.WithModel(s.cfg.LargeModel),
		llm.WithTemperature(finalTemperature),
	)
	if err != nil {
		s.fellBack(GenerateRecommendation, err, nil)
		return state.Delta{
			FinalRecommendation: state.Str(FallbackRecommendation),
			RecommendedProducts: []string{},
			SetProducts:         true,
			Messages:            []state.Message{{Role: state.RoleAssistant, Content: FallbackRecommendation}},
		}
	}

	final := textutil.AppendSourcesSection(res.Text, st.Sources)
	s.logger.Info("pipeline."+GenerateRecommendation, "final recommendation ready", nil)
	return state.Delta{
		FinalRecommendation: state.Str(final),
		RecommendedProducts: products,
		SetProducts:         true,
		Messages:            []state.Message{{Role: state.RoleAssistant, Content: final}},
	}
}

// SearchEcommerceLinks builds store search links for the leading products and
// appends them to the report. No product means no links and no rewrite.
func (s *Stages) SearchEcommerceLinks(ctx context.Context, st state.State) state.Delta {
	if len(st.RecommendedProducts) == 0 {
		s.logger.Warn("pipeline."+SearchEcommerceLinks, "no recommended products, skipping store links", nil)
		return state.Delta{EcommerceLinks: state.Links{}, SetLinks: true}
	}

	products := st.RecommendedProducts
	if len(products) > s.cfg.MaxLinkedProducts {
		products = products[:s.cfg.MaxLinkedProducts]
	}

	ecommerce := state.Links{}
	for i, product := range products {
		if i > 0 {
			s.sleep(ctx, s.cfg.Pacing)
		}
		siteLinks := links.BuildSearchLinks(product, s.cfg.Sites)
		if len(siteLinks) > 0 {
			ecommerce.Set(product, siteLinks)
		}
		s.logger.Debug("pipeline."+SearchEcommerceLinks, "store links built", map[string]interface{}{
			"product": product,
			"sites":   len(siteLinks),
		})
	}

	final := textutil.AppendEcommerceSection(st.FinalRecommendation, ecommerce)
	s.logger.Info("pipeline."+SearchEcommerceLinks, "store links ready", map[string]interface{}{
		"products": len(ecommerce),
	})
	return state.Delta{
		EcommerceLinks:      ecommerce,
		SetLinks:            true,
		FinalRecommendation: state.Str(final),
		Messages:            []state.Message{{Role: state.RoleAssistant, Content: final}},
	}
}
