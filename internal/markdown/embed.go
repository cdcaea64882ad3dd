package markdown

import (
	"fmt"
	htmlstd "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// videoEmbed 描述一行独立视频链接转换出的播放器
type videoEmbed struct {
	Platform string
	Source   string
	EmbedURL string
}

var (
	embedLinePattern = regexp.MustCompile(`^<?(https?://\S+?)>?$`)
	embedSrcPattern  = regexp.MustCompile(`^https://(?:www\.youtube-nocookie\.com/embed/|player\.bilibili\.com/player\.html\?)`)
	youTubeTime      = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	orderedListItem  = regexp.MustCompile(`^\d+\.\s+`)
)

// embedPolicy extends the UGC policy with iframes pointing at known players only.
func embedPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-platform", "data-video-source").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "loading", "allow", "allowfullscreen", "referrerpolicy").OnElements("iframe")
	return policy
}

// expandVideoEmbeds 把单独成行的 YouTube / Bilibili 链接替换为 iframe，代码块、引用与列表保持原样。
func expandVideoEmbeds(content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") || skipLine(trimmed) {
			continue
		}

		match := embedLinePattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		if embed, ok := parseVideoURL(match[1]); ok {
			lines[i] = embed.html()
		}
	}
	return strings.Join(lines, "\n")
}

func fenceMarker(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

func skipLine(line string) bool {
	if line == "" || strings.HasPrefix(line, ">") {
		return true
	}
	for _, bullet := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, bullet) {
			return true
		}
	}
	return orderedListItem.MatchString(line)
}

func parseVideoURL(raw string) (videoEmbed, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return videoEmbed{}, false
	}
	if embed, ok := youTubeEmbed(u, raw); ok {
		return embed, true
	}
	return bilibiliEmbed(u, raw)
}

func youTubeEmbed(u *url.URL, source string) (videoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	path := strings.Trim(u.Path, "/")

	var id string
	switch {
	case host == "youtu.be":
		id = path
	case hostMatches(host, "youtube.com"):
		if path == "watch" {
			id = u.Query().Get("v")
		} else {
			for _, prefix := range []string{"shorts/", "embed/", "live/"} {
				if strings.HasPrefix(path, prefix) {
					id = strings.TrimPrefix(path, prefix)
					break
				}
			}
		}
	default:
		return videoEmbed{}, false
	}
	id, _, _ = strings.Cut(id, "/")
	if id == "" {
		return videoEmbed{}, false
	}

	params := url.Values{}
	params.Set("rel", "0")
	params.Set("playsinline", "1")
	start := u.Query().Get("start")
	if start == "" {
		start = u.Query().Get("t")
	}
	if seconds := parseStartTime(start); seconds > 0 {
		params.Set("start", strconv.Itoa(seconds))
	}

	return videoEmbed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id) + "?" + params.Encode(),
	}, true
}

// parseStartTime accepts plain seconds or the 1h2m3s form.
func parseStartTime(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return seconds
	}

	total := 0
	for _, match := range youTubeTime.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		default:
			total += n
		}
	}
	return total
}

func bilibiliEmbed(u *url.URL, source string) (videoEmbed, bool) {
	if !hostMatches(strings.ToLower(u.Hostname()), "bilibili.com") {
		return videoEmbed{}, false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "video" || segments[1] == "" {
		return videoEmbed{}, false
	}

	params := url.Values{}
	id := segments[1]
	lower := strings.ToLower(id)
	switch {
	case strings.HasPrefix(lower, "bv"):
		params.Set("bvid", id)
	case strings.HasPrefix(lower, "av"):
		params.Set("aid", strings.TrimPrefix(lower, "av"))
	default:
		return videoEmbed{}, false
	}

	page := 1
	if p, err := strconv.Atoi(u.Query().Get("p")); err == nil && p > 0 {
		page = p
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("autoplay", "0")

	return videoEmbed{
		Platform: "bilibili",
		Source:   source,
		EmbedURL: "https://player.bilibili.com/player.html?" + params.Encode(),
	}, true
}

func (e videoEmbed) html() string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s" data-video-source="%s">`+
			`<iframe src="%s" title="%s video player" loading="lazy" allow="encrypted-media; picture-in-picture" allowfullscreen referrerpolicy="strict-origin-when-cross-origin"></iframe></div>`,
		htmlstd.EscapeString(e.Platform),
		htmlstd.EscapeString(e.Source),
		htmlstd.EscapeString(e.EmbedURL),
		htmlstd.EscapeString(e.Platform),
	)
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
