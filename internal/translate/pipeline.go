package translate

import "context"

// Pipeline translates the display fields of an article.
type Pipeline struct {
	chain *Chain
}

func NewPipeline(chain *Chain) *Pipeline {
	return &Pipeline{chain: chain}
}

// TranslateArticle translates title and description independently. It
// never fails; a field no provider could handle comes back through the
// dictionary, unchanged where no term matched.
func (p *Pipeline) TranslateArticle(ctx context.Context, title, description string) (string, string) {
	t, _ := p.chain.Translate(ctx, title)
	d, _ := p.chain.Translate(ctx, description)
	return t, d
}
