package youtube

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/api/youtube/v3"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/gapi"
)

const (
	defaultMaxResults = 50
	defaultRegion     = "US"
)

var (
	errNoID        = errors.New("result has no id")
	errNoSnippet   = errors.New("result has no snippet")
	errVideoAbsent = errors.New("video not found")
)

func (c *Client) searchSource(kind string, in SearchInput) paginate.Source[*youtube.SearchResult] {
	source := paginate.SourceFunc[*youtube.SearchResult](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[*youtube.SearchResult], error) {
		call := c.service.Search.List([]string{"snippet"}).
			Q(in.Query).
			Type(kind).
			MaxResults(int64(req.Size)).
			Order(in.Order).
			RegionCode(in.RegionCode).
			Context(ctx)
		if in.PublishedAfter != "" {
			call = call.PublishedAfter(in.PublishedAfter)
		}
		if in.PublishedBefore != "" {
			call = call.PublishedBefore(in.PublishedBefore)
		}
		if kind == "video" {
			call = call.VideoDuration(in.VideoDuration)
		}
		if req.Token != "" {
			call = call.PageToken(req.Token)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error searching %ss: %w", kind, err)
		}
		return &paginate.Page[*youtube.SearchResult]{
			Items:     resp.Items,
			NextToken: resp.NextPageToken,
			TotalHint: pageInfoTotal(resp.PageInfo),
		}, nil
	})
	return gapi.WithRetry[*youtube.SearchResult](source, c.retry)
}

func searchDefaults(in SearchInput, order string) (SearchInput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return in, fmt.Errorf("query is required")
	}
	if in.MaxResults <= 0 {
		in.MaxResults = defaultMaxResults
	}
	in.Order = cmp.Or(in.Order, order)
	in.RegionCode = cmp.Or(in.RegionCode, defaultRegion)
	in.VideoDuration = cmp.Or(in.VideoDuration, "any")
	return in, nil
}

func search[T any](ctx context.Context, c *Client, kind string, in SearchInput, mapper paginate.Mapper[*youtube.SearchResult, T]) (*paginate.Result[T], error) {
	return paginate.Aggregate(ctx, c.searchSource(kind, in), mapper, paginate.Request{
		TargetCount: in.MaxResults,
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("youtube.search")...)
}

// SearchChannels finds channels, by relevance unless Order is set.
func (c *Client) SearchChannels(ctx context.Context, in SearchInput) (ChannelResults, error) {
	in, err := searchDefaults(in, "relevance")
	if err != nil {
		return ChannelResults{}, err
	}
	res, err := search(ctx, c, "channel", in, func(r *youtube.SearchResult) (ChannelInfo, error) {
		if r == nil || r.Id == nil || r.Id.ChannelId == "" {
			return ChannelInfo{}, errNoID
		}
		if r.Snippet == nil {
			return ChannelInfo{}, errNoSnippet
		}
		return ChannelInfo{
			ChannelID:    r.Id.ChannelId,
			ChannelTitle: r.Snippet.Title,
			Description:  r.Snippet.Description,
			PublishedAt:  r.Snippet.PublishedAt,
		}, nil
	})
	if err != nil {
		return ChannelResults{}, err
	}
	return ChannelResults{TotalResults: totalOf(res, res.Len()), Channels: nonNil(res.Records)}, nil
}

// SearchPlaylists finds playlists, newest first unless Order is set.
func (c *Client) SearchPlaylists(ctx context.Context, in SearchInput) (PlaylistResults, error) {
	in, err := searchDefaults(in, "date")
	if err != nil {
		return PlaylistResults{}, err
	}
	res, err := search(ctx, c, "playlist", in, func(r *youtube.SearchResult) (PlaylistInfo, error) {
		if r == nil || r.Id == nil || r.Id.PlaylistId == "" {
			return PlaylistInfo{}, errNoID
		}
		if r.Snippet == nil {
			return PlaylistInfo{}, errNoSnippet
		}
		return PlaylistInfo{
			PlaylistID:    r.Id.PlaylistId,
			PlaylistTitle: r.Snippet.Title,
			ChannelID:     r.Snippet.ChannelId,
			Description:   r.Snippet.Description,
			PublishedAt:   r.Snippet.PublishedAt,
		}, nil
	})
	if err != nil {
		return PlaylistResults{}, err
	}
	return PlaylistResults{TotalResults: totalOf(res, res.Len()), Playlists: nonNil(res.Records)}, nil
}

// SearchVideos finds videos, newest first unless Order is set.
func (c *Client) SearchVideos(ctx context.Context, in SearchInput) (VideoResults, error) {
	in, err := searchDefaults(in, "date")
	if err != nil {
		return VideoResults{}, err
	}
	res, err := search(ctx, c, "video", in, func(r *youtube.SearchResult) (VideoInfo, error) {
		if r == nil || r.Id == nil || r.Id.VideoId == "" {
			return VideoInfo{}, errNoID
		}
		if r.Snippet == nil {
			return VideoInfo{}, errNoSnippet
		}
		return VideoInfo{
			ChannelID:    r.Snippet.ChannelId,
			ChannelTitle: r.Snippet.ChannelTitle,
			VideoID:      r.Id.VideoId,
			VideoTitle:   r.Snippet.Title,
			Description:  r.Snippet.Description,
			PublishedAt:  r.Snippet.PublishedAt,
		}, nil
	})
	if err != nil {
		return VideoResults{}, err
	}
	return VideoResults{TotalResults: totalOf(res, res.Len()), Videos: nonNil(res.Records)}, nil
}

// GetVideoInfo describes the given videos. IDs are sent at most 50 per
// request; IDs YouTube does not know are skipped.
func (c *Client) GetVideoInfo(ctx context.Context, in VideoInfoInput) (VideoResults, error) {
	ids := make([]string, 0, len(in.VideoIDs))
	for _, id := range in.VideoIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return VideoResults{}, fmt.Errorf("video_ids is required")
	}

	// One item per requested id, nil when absent, so a short answer never
	// looks like the end of the list.
	source := paginate.SourceFunc[*youtube.Video](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[*youtube.Video], error) {
		start := min(req.Offset, len(ids))
		batch := ids[start:min(start+req.Size, len(ids))]
		if len(batch) == 0 {
			return &paginate.Page[*youtube.Video]{}, nil
		}
		resp, err := c.service.Videos.List([]string{"id", "snippet", "contentDetails", "statistics", "topicDetails"}).
			Id(batch...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("error listing videos: %w", err)
		}
		found := make(map[string]*youtube.Video, len(resp.Items))
		for _, v := range resp.Items {
			if v != nil {
				found[v.Id] = v
			}
		}
		items := make([]*youtube.Video, len(batch))
		for i, id := range batch {
			items[i] = found[id]
		}
		page := &paginate.Page[*youtube.Video]{Items: items}
		if next := start + len(batch); next < len(ids) {
			page.NextToken = paginate.OffsetToken(next)
		}
		return page, nil
	})

	res, err := paginate.Aggregate(ctx, gapi.WithRetry[*youtube.Video](source, c.retry), toVideoInfo, paginate.Request{
		TargetCount: len(ids),
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("youtube.videos")...)
	if err != nil {
		return VideoResults{}, err
	}
	return VideoResults{TotalResults: int64(res.Len()), Videos: nonNil(res.Records)}, nil
}

func toVideoInfo(v *youtube.Video) (VideoInfo, error) {
	if v == nil {
		return VideoInfo{}, errVideoAbsent
	}
	if v.Snippet == nil {
		return VideoInfo{}, errNoSnippet
	}
	info := VideoInfo{
		ChannelID:    v.Snippet.ChannelId,
		ChannelTitle: v.Snippet.ChannelTitle,
		VideoID:      v.Id,
		VideoTitle:   v.Snippet.Title,
		Description:  v.Snippet.Description,
		PublishedAt:  v.Snippet.PublishedAt,
		Tags:         v.Snippet.Tags,
	}
	if d := v.ContentDetails; d != nil {
		info.Duration = d.Duration
		info.Dimension = d.Dimension
	}
	if s := v.Statistics; s != nil {
		info.ViewCount = s.ViewCount
		info.LikeCount = s.LikeCount
		info.CommentCount = s.CommentCount
	}
	if t := v.TopicDetails; t != nil {
		info.TopicCategories = t.TopicCategories
	}
	return info, nil
}

// GetChannelInfo returns a channel's snippet and statistics.
func (c *Client) GetChannelInfo(ctx context.Context, in ChannelInput) (ChannelInfo, error) {
	ch, err := c.channel(ctx, in.ChannelID, "snippet", "statistics")
	if err != nil {
		return ChannelInfo{}, err
	}
	info := ChannelInfo{ChannelID: ch.Id}
	if s := ch.Snippet; s != nil {
		info.ChannelTitle = s.Title
		info.Description = s.Description
		info.PublishedAt = s.PublishedAt
		info.Country = s.Country
	}
	if s := ch.Statistics; s != nil {
		info.ViewCount = s.ViewCount
		info.SubscriberCount = s.SubscriberCount
		info.VideoCount = s.VideoCount
	}
	return info, nil
}

func (c *Client) channel(ctx context.Context, id string, parts ...string) (*youtube.Channel, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("channel_id is required")
	}
	resp, err := c.service.Channels.List(parts).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error getting channel %s: %w", id, err)
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, fmt.Errorf("channel %s not found", id)
	}
	return resp.Items[0], nil
}

// GetChannelVideos lists a channel's uploads, newest first.
func (c *Client) GetChannelVideos(ctx context.Context, in ChannelVideosInput) (VideoResults, error) {
	ch, err := c.channel(ctx, in.ChannelID, "contentDetails")
	if err != nil {
		return VideoResults{}, err
	}
	if ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil || ch.ContentDetails.RelatedPlaylists.Uploads == "" {
		return VideoResults{}, fmt.Errorf("channel %s has no uploads playlist", in.ChannelID)
	}
	uploads := ch.ContentDetails.RelatedPlaylists.Uploads

	total := in.MaxResults
	if total <= 0 {
		total = defaultMaxResults
	}

	source := paginate.SourceFunc[*youtube.PlaylistItem](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[*youtube.PlaylistItem], error) {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(uploads).
			MaxResults(int64(req.Size)).
			Context(ctx)
		if req.Token != "" {
			call = call.PageToken(req.Token)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("error listing playlist %s: %w", uploads, err)
		}
		return &paginate.Page[*youtube.PlaylistItem]{
			Items:     resp.Items,
			NextToken: resp.NextPageToken,
			TotalHint: pageInfoTotal(resp.PageInfo),
		}, nil
	})

	res, err := paginate.Aggregate(ctx, gapi.WithRetry[*youtube.PlaylistItem](source, c.retry), toUploadedVideo, paginate.Request{
		TargetCount: total,
		PageSizeCap: MaxPageSize,
	}, c.aggregateOptions("youtube.uploads")...)
	if err != nil {
		return VideoResults{}, err
	}
	return VideoResults{TotalResults: totalOf(res, res.Len()), Videos: nonNil(res.Records)}, nil
}

func toUploadedVideo(item *youtube.PlaylistItem) (VideoInfo, error) {
	if item == nil || item.Snippet == nil {
		return VideoInfo{}, errNoSnippet
	}
	s := item.Snippet
	if s.ResourceId == nil || s.ResourceId.VideoId == "" {
		return VideoInfo{}, errNoID
	}
	return VideoInfo{
		ChannelID:    s.ChannelId,
		ChannelTitle: s.ChannelTitle,
		VideoID:      s.ResourceId.VideoId,
		VideoTitle:   s.Title,
		Description:  s.Description,
		PublishedAt:  s.PublishedAt,
	}, nil
}

// ConstructHyperlink returns the youtube.com URL of a channel, playlist or
// video.
func ConstructHyperlink(kind, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	switch kind {
	case "channel":
		return "https://www.youtube.com/channel/" + url.PathEscape(id), nil
	case "playlist":
		return "https://www.youtube.com/playlist?list=" + url.QueryEscape(id), nil
	case "video":
		return "https://www.youtube.com/watch?v=" + url.QueryEscape(id), nil
	default:
		return "", fmt.Errorf("unknown resource kind %q", kind)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
