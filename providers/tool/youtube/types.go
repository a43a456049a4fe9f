package youtube

// SearchInput holds the search parameters shared by channel, playlist and
// video search. VideoDuration only applies to videos.
type SearchInput struct {
	Query           string `json:"query" jsonschema:"description=Text to search for,required"`
	MaxResults      int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of results (default: 50),minimum=1"`
	Order           string `json:"order,omitempty" jsonschema:"description=Sort order,enum=date,enum=rating,enum=relevance,enum=title,enum=videoCount,enum=viewCount"`
	PublishedAfter  string `json:"published_after,omitempty" jsonschema:"description=Only resources created at or after this RFC3339 time"`
	PublishedBefore string `json:"published_before,omitempty" jsonschema:"description=Only resources created at or before this RFC3339 time"`
	RegionCode      string `json:"region_code,omitempty" jsonschema:"description=ISO 3166-1 alpha-2 country code (default: US)"`
	VideoDuration   string `json:"video_duration,omitempty" jsonschema:"description=Video length filter (videos only; default: any),enum=any,enum=long,enum=medium,enum=short"`
}

type ChannelInfo struct {
	ChannelID       string `json:"channel_id" jsonschema:"description=Channel ID"`
	ChannelTitle    string `json:"channel_title" jsonschema:"description=Channel title"`
	Description     string `json:"description" jsonschema:"description=Channel description"`
	PublishedAt     string `json:"published_at" jsonschema:"description=Channel creation time"`
	Country         string `json:"country,omitempty" jsonschema:"description=Channel country"`
	ViewCount       uint64 `json:"view_count,omitempty" jsonschema:"description=View count"`
	SubscriberCount uint64 `json:"subscriber_count,omitempty" jsonschema:"description=Subscriber count"`
	VideoCount      uint64 `json:"video_count,omitempty" jsonschema:"description=Video count"`
}

type ChannelResults struct {
	TotalResults int64         `json:"total_results" jsonschema:"description=Total number of matches reported by YouTube"`
	Channels     []ChannelInfo `json:"channels" jsonschema:"description=Channels found"`
}

type PlaylistInfo struct {
	PlaylistID    string `json:"playlist_id" jsonschema:"description=Playlist ID"`
	PlaylistTitle string `json:"playlist_title" jsonschema:"description=Playlist title"`
	ChannelID     string `json:"channel_id" jsonschema:"description=Owning channel ID"`
	Description   string `json:"description" jsonschema:"description=Playlist description"`
	PublishedAt   string `json:"published_at" jsonschema:"description=Playlist creation time"`
}

type PlaylistResults struct {
	TotalResults int64          `json:"total_results" jsonschema:"description=Total number of matches reported by YouTube"`
	Playlists    []PlaylistInfo `json:"playlists" jsonschema:"description=Playlists found"`
}

// VideoInfo describes a video. The detail fields are only set by
// [Client.GetVideoInfo].
type VideoInfo struct {
	ChannelID       string   `json:"channel_id" jsonschema:"description=Channel ID"`
	ChannelTitle    string   `json:"channel_title" jsonschema:"description=Channel title"`
	VideoID         string   `json:"video_id" jsonschema:"description=Video ID"`
	VideoTitle      string   `json:"video_title" jsonschema:"description=Video title"`
	Description     string   `json:"description" jsonschema:"description=Video description"`
	PublishedAt     string   `json:"published_at" jsonschema:"description=Publication time"`
	Tags            []string `json:"tags,omitempty" jsonschema:"description=Video tags"`
	Duration        string   `json:"duration,omitempty" jsonschema:"description=ISO 8601 duration"`
	Dimension       string   `json:"dimension,omitempty" jsonschema:"description=2d or 3d"`
	ViewCount       uint64   `json:"view_count,omitempty" jsonschema:"description=View count"`
	LikeCount       uint64   `json:"like_count,omitempty" jsonschema:"description=Like count"`
	CommentCount    uint64   `json:"comment_count,omitempty" jsonschema:"description=Comment count"`
	TopicCategories []string `json:"topic_categories,omitempty" jsonschema:"description=Wikipedia URLs describing the video topics"`
}

type VideoResults struct {
	TotalResults int64       `json:"total_results" jsonschema:"description=Total number of videos reported by YouTube"`
	Videos       []VideoInfo `json:"videos" jsonschema:"description=Videos found"`
}

type VideoInfoInput struct {
	VideoIDs []string `json:"video_ids" jsonschema:"description=IDs of the videos to describe,required"`
}

type ChannelInput struct {
	ChannelID string `json:"channel_id" jsonschema:"description=ID of the channel,required"`
}

type ChannelVideosInput struct {
	ChannelID  string `json:"channel_id" jsonschema:"description=ID of the channel,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of videos (default: 50),minimum=1"`
}

type HyperlinkInput struct {
	Kind string `json:"kind" jsonschema:"description=Type of the resource,enum=channel,enum=playlist,enum=video,required"`
	ID   string `json:"id" jsonschema:"description=ID of the resource,required"`
}

type HyperlinkOutput struct {
	URL string `json:"url" jsonschema:"description=Link to the resource on youtube.com"`
}
