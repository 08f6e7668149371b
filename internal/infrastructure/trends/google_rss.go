// Package trends 提供热点话题来源实现
package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultGoogleTrendsFeed = "https://trends.google.com/trending/rss"

var tracer = otel.Tracer("trends")

// GoogleTrendsRSS 读取 Google Trends 每日热搜 RSS，条目标题即话题
type GoogleTrendsRSS struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewGoogleTrendsRSS feedURL 为空时使用官方地址
func NewGoogleTrendsRSS(feedURL string, client *http.Client) *GoogleTrendsRSS {
	if strings.TrimSpace(feedURL) == "" {
		feedURL = DefaultGoogleTrendsFeed
	}
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	return &GoogleTrendsRSS{feedURL: feedURL, parser: parser}
}

func (s *GoogleTrendsRSS) Name() string {
	return "google_trends"
}

func (s *GoogleTrendsRSS) Trending(ctx context.Context, geo string) ([]string, error) {
	target, err := s.urlFor(geo)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "trends.GoogleTrendsRSS",
		trace.WithAttributes(attribute.String("trends.geo", geo)))
	defer span.End()

	feed, err := s.parser.ParseURLWithContext(target, ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch trends feed: %w", err)
	}

	topics := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if title := strings.TrimSpace(item.Title); title != "" {
			topics = append(topics, title)
		}
	}
	span.SetAttributes(attribute.Int("trends.count", len(topics)))
	return topics, nil
}

func (s *GoogleTrendsRSS) urlFor(geo string) (string, error) {
	u, err := url.Parse(s.feedURL)
	if err != nil {
		return "", fmt.Errorf("invalid trends feed url: %w", err)
	}
	if geo = strings.TrimSpace(geo); geo != "" {
		q := u.Query()
		q.Set("geo", strings.ToUpper(geo))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
