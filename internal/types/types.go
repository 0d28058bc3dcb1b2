package types

// Link is one navigation entry. Text is the original-text attribute the
// glitch effect reveals; a link without Text is shown by its Label and never
// scrambles.
type Link struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
}

// Caption returns what the link shows when no effect is installed.
func (l Link) Caption() string {
	switch {
	case l.Label != "":
		return l.Label
	case l.Text != "":
		return l.Text
	default:
		return l.ID
	}
}

// DefaultLinks is the stock navigation bar.
func DefaultLinks() []Link {
	return []Link{
		{ID: "nav/home", Text: "HOME"},
		{ID: "nav/work", Text: "WORK"},
		{ID: "nav/services", Text: "SERVICES"},
		{ID: "nav/about", Text: "ABOUT"},
		{ID: "nav/contact", Text: "CONTACT"},
		{ID: "nav/blog", Label: "Blog"},
	}
}
