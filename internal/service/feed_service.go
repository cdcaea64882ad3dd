package service

import (
	"encoding/xml"
	"time"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
)

// FeedLimit 是 RSS 中包含的最新文章数量。
const FeedLimit = 20

// FeedService renders the RSS feed and sitemap from published posts.
type FeedService struct {
	posts *PostService
	site  config.SiteConfig
}

// NewFeedService creates a FeedService for the given site settings.
func NewFeedService(posts *PostService, site config.SiteConfig) *FeedService {
	return &FeedService{posts: posts, site: site}
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	AtomLink    atomLink  `xml:"atom:link"`
	Items       []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

// RSS returns the RSS 2.0 document of the latest published posts.
func (s *FeedService) RSS() ([]byte, error) {
	posts, err := s.posts.ListPublished(ListOptions{Limit: FeedLimit})
	if err != nil {
		return nil, err
	}

	doc := rssDocument{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       s.site.Title,
			Link:        s.site.BaseURL + "/blog",
			Description: s.site.Description,
			Language:    "en",
			AtomLink: atomLink{
				Href: s.site.BaseURL + "/feed.xml",
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: make([]rssItem, 0, len(posts)),
		},
	}

	for _, post := range posts {
		link := s.postURL(post)
		item := rssItem{
			Title:       post.Title,
			Link:        link,
			GUID:        link,
			Description: post.Excerpt,
		}
		if post.PublishedAt != nil {
			item.PubDate = post.PublishedAt.UTC().Format(time.RFC1123Z)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	return marshalXML(doc)
}

// Sitemap lists the home page, the blog index and every published post.
func (s *FeedService) Sitemap() ([]byte, error) {
	posts, err := s.posts.ListPublished(ListOptions{})
	if err != nil {
		return nil, err
	}

	// 首页与列表页的 lastmod 取最近一次文章更新时间
	var latest time.Time
	for _, post := range posts {
		if post.UpdatedAt.After(latest) {
			latest = post.UpdatedAt
		}
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.site.BaseURL, LastMod: formatLastMod(latest), ChangeFreq: "daily", Priority: 1},
			{Loc: s.site.BaseURL + "/blog", LastMod: formatLastMod(latest), ChangeFreq: "daily", Priority: 0.8},
		},
	}
	for _, post := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.postURL(post),
			LastMod:    formatLastMod(post.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}

	return marshalXML(set)
}

func (s *FeedService) postURL(post db.Post) string {
	return s.site.BaseURL + "/blog/" + post.Slug
}

func formatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
