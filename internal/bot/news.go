package bot

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/mmcdole/gofeed"
)

const newsLimit = 5

// defaultFeedURLs are the headline feeds behind the news button.
var defaultFeedURLs = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://cointelegraph.com/rss",
}

type NewsItem struct {
	Title string
	Link  string
}

// News fetches headlines from a set of RSS feeds.
type News struct {
	parser   *gofeed.Parser
	feedURLs []string
}

func NewNews(feedURLs ...string) *News {
	if len(feedURLs) == 0 {
		feedURLs = defaultFeedURLs
	}
	return &News{parser: gofeed.NewParser(), feedURLs: feedURLs}
}

// Latest returns up to newsLimit recent headlines. Feeds are polled in a
// shuffled order and a broken feed is skipped; it only errors when every
// feed fails.
func (n *News) Latest(ctx context.Context) ([]NewsItem, error) {
	order := rand.Perm(len(n.feedURLs))

	items := make([]NewsItem, 0, newsLimit)
	var lastErr error
	for _, i := range order {
		feed, err := n.parser.ParseURLWithContext(n.feedURLs[i], ctx)
		if err != nil {
			lastErr = err
			continue
		}
		for _, item := range feed.Items {
			if len(items) == newsLimit {
				return items, nil
			}
			items = append(items, NewsItem{Title: item.Title, Link: item.Link})
		}
	}
	if len(items) == 0 && lastErr != nil {
		return nil, fmt.Errorf("parse feeds: %w", lastErr)
	}
	return items, nil
}
