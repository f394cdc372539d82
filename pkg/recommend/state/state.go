package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the append-only conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source is a web citation returned by search grounding.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SiteLink is a search URL for one product on one e-commerce site.
type SiteLink struct {
	Site string
	URL  string
}

// ProductLinks holds the per-site search URLs of a single product.
type ProductLinks struct {
	Product string
	Sites   []SiteLink
}

// Links maps product name to site name to search URL, keeping insertion order
// of both products and sites.
type Links []ProductLinks

// Set adds or replaces the links for product.
func (l *Links) Set(product string, sites []SiteLink) {
	for i := range *l {
		if (*l)[i].Product == product {
			(*l)[i].Sites = sites
			return
		}
	}
	*l = append(*l, ProductLinks{Product: product, Sites: sites})
}

// Get returns the site links for product.
func (l Links) Get(product string) ([]SiteLink, bool) {
	for _, p := range l {
		if p.Product == product {
			return p.Sites, true
		}
	}
	return nil, false
}

// MarshalJSON writes {"product": {"site": "url"}} in insertion order.
func (l Links) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, p.Product); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, s := range p.Sites {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, s.Site); err != nil {
				return nil, err
			}
			v, err := json.Marshal(s.URL)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, preserving key order.
func (l *Links) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	out := Links{}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return err
		}
		product, _ := key.(string)
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("links for %q: %w", product, err)
		}
		var sites []SiteLink
		for dec.More() {
			siteTok, err := dec.Token()
			if err != nil {
				return err
			}
			var url string
			if err := dec.Decode(&url); err != nil {
				return err
			}
			site, _ := siteTok.(string)
			sites = append(sites, SiteLink{Site: site, URL: url})
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		out = append(out, ProductLinks{Product: product, Sites: sites})
	}
	*l = out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

// State is the record threaded through every pipeline stage of one request.
// Fields start at their empty defaults and are only overwritten or appended.
type State struct {
	Conversation        []Message
	UserIntent          string
	ProductCategory     string
	BuyingGuide         string
	SearchResults       string
	Sources             []Source
	FinalRecommendation string
	RecommendedProducts []string
	EcommerceLinks      Links
}

// New builds the initial state for a request.
func New(userInput string) State {
	return State{
		Conversation:        []Message{{Role: RoleUser, Content: userInput}},
		Sources:             []Source{},
		RecommendedProducts: []string{},
		EcommerceLinks:      Links{},
	}
}

// LastUserMessage returns the content of the latest user message.
func (s State) LastUserMessage() string {
	for i := len(s.Conversation) - 1; i >= 0; i-- {
		if s.Conversation[i].Role == RoleUser {
			return s.Conversation[i].Content
		}
	}
	return ""
}

// Delta is what a stage hands back. Nil fields are left untouched.
type Delta struct {
	Messages            []Message
	UserIntent          *string
	ProductCategory     *string
	BuyingGuide         *string
	SearchResults       *string
	Sources             []Source
	SetSources          bool
	FinalRecommendation *string
	RecommendedProducts []string
	SetProducts         bool
	EcommerceLinks      Links
	SetLinks            bool
}

// Apply merges d into s and returns the result. Slices are copied so the
// returned state never aliases a delta.
func (s State) Apply(d Delta) State {
	if len(d.Messages) > 0 {
		conv := make([]Message, 0, len(s.Conversation)+len(d.Messages))
		conv = append(conv, s.Conversation...)
		s.Conversation = append(conv, d.Messages...)
	}
	if d.UserIntent != nil {
		s.UserIntent = *d.UserIntent
	}
	if d.ProductCategory != nil {
		s.ProductCategory = *d.ProductCategory
	}
	if d.BuyingGuide != nil {
		s.BuyingGuide = *d.BuyingGuide
	}
	if d.SearchResults != nil {
		s.SearchResults = *d.SearchResults
	}
	if d.SetSources {
		s.Sources = append([]Source{}, d.Sources...)
	}
	if d.FinalRecommendation != nil {
		s.FinalRecommendation = *d.FinalRecommendation
	}
	if d.SetProducts {
		s.RecommendedProducts = append([]string{}, d.RecommendedProducts...)
	}
	if d.SetLinks {
		s.EcommerceLinks = append(Links{}, d.EcommerceLinks...)
	}
	return s
}

// Str is a helper for filling optional Delta fields.
func Str(v string) *string {
	return &v
}
