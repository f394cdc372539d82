package prompt

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholders are written as {name} and filled by fill.
const intentAnalysisTemplate = `
Kullanıcının mesajını analiz et ve şu bilgileri çıkar:

Kullanıcı Mesajı: "{user_message}"

Görevler:
1. Kullanıcının satın almak istediği ürün kategorisini belirle
2. Kullanıcının niyetinin özetini çıkar

Cevabını şu JSON formatında ver:
{{
    "product_category": "belirlenen ürün kategorisi (örn: telefon, televizyon, halı)",
    "user_intent": "kullanıcının niyetinin özeti"
}}
`

const buyingGuideTemplate = `
{product_category} satın almak isteyen kullanıcılar için kısa ve pratik bir satın alma rehberi oluştur.

Kullanıcı İsteği: {user_intent}
Ürün Kategorisi: {product_category}

Rehber şu bölümleri içermeli:
1. **Dikkat Edilmesi Gereken Ana Özellikler** (3-4 madde)
2. **Yaygın Hatalar** (1-2 madde)
3. **Satın Alma İpuçları** (1-2 madde)

Kısa, öz ve anlaşılır ol. Türkçe yaz.
`

const productSearchTemplate = `
{product_category} kategorisinde güncel ürün önerilerini araştır.

Arama kriterleri:
- Türkiye'deki mevcut fiyatlar
- Farklı bütçe seviyelerinde seçenekler
- Kullanıcı yorumları ve değerlendirmeleri
- Teknik özellikler ve performans karşılaştırmaları

Kullanıcı isteği: {user_intent}

En az 3-4 farklı ürün seçeneği bul (bütçe dostu, orta segment, premium).
`

const productExtractionTemplate = `
Aşağıdaki ürün araştırma sonuçlarından önerilen ürünlerin listesini çıkar:

Araştırma Sonuçları:
{search_results}

Sadece ürün isimlerini ver, her satırda bir ürün ismi olacak şekilde.
Örnek format:
iPhone 15 Pro
Samsung Galaxy S24
Google Pixel 8

Sadece ürün isimleri, başka açıklama yazma.
`

const finalRecommendationTemplate = `
Kapsamlı bir ürün satın alma önerisi hazırla.

Ürün Kategorisi: {product_category}

Satın Alma Rehberi:
{buying_guide}

Ürün Araştırma Sonuçları:
{search_results}

Görevler:
1. Satın alma rehberini özet olarak sun
2. En iyi 3-4 ürün önerisini farklı bütçe seviyelerinde ver
3. "En İyi Değer" seçimini belirle ve nedenini açıkla
4. Kullanıcı yorumlarından önemli noktaları özetle
5. Final satın alma tavsiyesi ver

Format:
# 🛍️ {product_category_title} Satın Alma Rehberi

## 📋 Dikkat Edilmesi Gerekenler
[rehber özeti]

## 🏆 Önerilen Ürünler
[ürün önerileri - fiyat, özellik, artı/eksi]

## ⭐ En İyi Değer Seçimi
[bir ürünü öne çıkar ve nedenini açıkla]

## 💬 Kullanıcı Yorumları Özeti
[önemli yorumlar]

## 🎯 Final Tavsiye
[kısa ve net satın alma tavsiyesi]

Türkçe, net ve kullanışlı bir öneri hazırla.
`

func IntentAnalysis(userMessage string) string {
	return fill(intentAnalysisTemplate, map[string]string{
		"user_message": userMessage,
	})
}

func BuyingGuide(productCategory, userIntent string) string {
	return fill(buyingGuideTemplate, map[string]string{
		"product_category": productCategory,
		"user_intent":      userIntent,
	})
}

func ProductSearch(productCategory, userIntent string) string {
	return fill(productSearchTemplate, map[string]string{
		"product_category": productCategory,
		"user_intent":      userIntent,
	})
}

func ProductExtraction(searchResults string) string {
	return fill(productExtractionTemplate, map[string]string{
		"search_results": searchResults,
	})
}

func FinalRecommendation(productCategory, productCategoryTitle, buyingGuide, searchResults string) string {
	return fill(finalRecommendationTemplate, map[string]string{
		"product_category":       productCategory,
		"product_category_title": productCategoryTitle,
		"buying_guide":           buyingGuide,
		"search_results":         searchResults,
	})
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// fill replaces {name} placeholders in one pass, so substituted values are
// never rescanned. "{{" and "}}" are literal braces.
func fill(tmpl string, values map[string]string) string {
	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tmpl[i:], "{{"):
			sb.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(tmpl[i:], "}}"):
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end == -1 {
				sb.WriteByte(c)
				continue
			}
			name := tmpl[i+1 : i+end]
			if v, ok := values[name]; ok {
				sb.WriteString(v)
				i += end
				continue
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
