package view

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"

	"github.com/blogdesk/blogdesk-go/internal/model"
)

const (
	dateLayout    = "January 2, 2006"
	excerptLength = 150
	unknownAuthor = "Unknown author"
)

// PostCard is one entry of the post list.
type PostCard struct {
	ID         string
	Title      string
	Excerpt    string
	AuthorName string
	Date       string
	Relative   string
}

// PostDetail is the full post page.
type PostDetail struct {
	ID                string
	Title             string
	Paragraphs        []template.HTML
	Body              string
	AuthorName        string
	AuthorDesignation string
	Date              string
	Relative          string
	Edited            bool
	CanEdit           bool
	CanDelete         bool
	Comments          []CommentItem
	CommentCount      string
}

// CommentItem is one comment under a post.
type CommentItem struct {
	ID         string
	Text       string
	AuthorName string
	Date       string
	Relative   string
	CanEdit    bool
	CanDelete  bool
}

// Builder converts API models into view models for a viewer.
type Builder struct {
	policy *bluemonday.Policy
	now    func() time.Time
}

// NewBuilder creates a Builder with the UGC sanitization policy.
func NewBuilder() *Builder {
	return &Builder{
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
	}
}

// Cards builds the list entries.
func (b *Builder) Cards(posts []model.Post) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, PostCard{
			ID:         p.ID,
			Title:      p.Title,
			Excerpt:    excerpt(p.Body),
			AuthorName: authorName(p.Author),
			Date:       formatDate(p.CreatedAt),
			Relative:   b.relative(p.CreatedAt),
		})
	}
	return cards
}

// Detail builds the post page. Edit and delete are offered only when viewer
// wrote the post.
func (b *Builder) Detail(d model.PostDetail, viewer model.Identity) PostDetail {
	p := d.Data
	owns := viewer.Owns(p.Author)

	comments := make([]CommentItem, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, b.Comment(c, viewer))
	}

	return PostDetail{
		ID:                p.ID,
		Title:             p.Title,
		Paragraphs:        b.Paragraphs(p.Body),
		Body:              p.Body,
		AuthorName:        authorName(p.Author),
		AuthorDesignation: p.Author.Designation,
		Date:              formatDate(p.CreatedAt),
		Relative:          b.relative(p.CreatedAt),
		Edited:            !p.UpdatedAt.IsZero() && p.UpdatedAt.Sub(p.CreatedAt) > time.Minute,
		CanEdit:           owns,
		CanDelete:         owns,
		Comments:          comments,
		CommentCount:      commentCount(len(comments)),
	}
}

// Comment builds one comment entry for viewer.
func (b *Builder) Comment(c model.Comment, viewer model.Identity) CommentItem {
	owns := viewer.Owns(c.Author)
	return CommentItem{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: authorName(c.Author),
		Date:       formatDate(c.CreatedAt),
		Relative:   b.relative(c.CreatedAt),
		CanEdit:    owns,
		CanDelete:  owns,
	}
}

// Paragraphs sanitizes body and splits it into one paragraph per line.
func (b *Builder) Paragraphs(body string) []template.HTML {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	out := make([]template.HTML, 0, len(lines))
	for _, line := range lines {
		clean := strings.TrimSpace(b.policy.Sanitize(line))
		if clean == "" {
			continue
		}
		out = append(out, template.HTML(clean))
	}
	return out
}

func (b *Builder) relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, b.now(), "ago", "from now")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func excerpt(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}

func authorName(ident model.Identity) string {
	if ident.Name != "" {
		return ident.Name
	}
	return unknownAuthor
}

func commentCount(n int) string {
	if n == 1 {
		return "1 comment"
	}
	return strconv.Itoa(n) + " comments"
}
