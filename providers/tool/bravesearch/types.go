package bravesearch

// Response is the envelope returned by /web/search.
type Response struct {
	Type      string              `json:"type"`
	Query     *QueryInfo          `json:"query,omitempty"`
	Web       *WebResults         `json:"web,omitempty"`
	News      *NewsResults        `json:"news,omitempty"`
	Videos    *VideoResults       `json:"videos,omitempty"`
	Infobox   *Infobox            `json:"infobox,omitempty"`
	Locations *LocationResults    `json:"locations,omitempty"`
	Mixed     *MixedResultSection `json:"mixed,omitempty"`
}

type QueryInfo struct {
	Original          string `json:"original"`
	SpellcheckOff     bool   `json:"spellcheck_off,omitempty"`
	ShowStrictWarning bool   `json:"show_strict_warning,omitempty"`
	Altered           string `json:"altered,omitempty"`
	MoreResults       bool   `json:"more_results_available,omitempty"`
}

type WebResults struct {
	Type           string      `json:"type"`
	Results        []WebResult `json:"results"`
	FamilyFriendly bool        `json:"family_friendly,omitempty"`
}

// WebResult is one organic result. SubType defaults to "generic".
type WebResult struct {
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	IsSourceLocal  bool       `json:"is_source_local"`
	IsSourceBoth   bool       `json:"is_source_both,omitempty"`
	Description    string     `json:"description"`
	PageAge        string     `json:"page_age,omitempty"`
	SubType        string     `json:"subtype,omitempty"`
	Age            string     `json:"age,omitempty"`
	Language       string     `json:"language,omitempty"`
	FamilyFriendly bool       `json:"family_friendly,omitempty"`
	ExtraSnippets  []string   `json:"extra_snippets,omitempty"`
	Profile        *Profile   `json:"profile,omitempty"`
	MetaURL        *MetaURL   `json:"meta_url,omitempty"`
	Thumbnail      *Thumbnail `json:"thumbnail,omitempty"`
}

type NewsResults struct {
	Type    string       `json:"type"`
	Results []NewsResult `json:"results"`
}

type NewsResult struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Age         string     `json:"age"`
	PageAge     string     `json:"page_age,omitempty"`
	Breaking    bool       `json:"breaking,omitempty"`
	MetaURL     *MetaURL   `json:"meta_url,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
}

type VideoResults struct {
	Type    string        `json:"type"`
	Results []VideoResult `json:"results"`
}

type VideoResult struct {
	Type        string     `json:"type"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Age         string     `json:"age,omitempty"`
	Video       *Video     `json:"video,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
}

type Video struct {
	Duration  string `json:"duration,omitempty"`
	Views     int64  `json:"views,omitempty"`
	Creator   string `json:"creator,omitempty"`
	Publisher string `json:"publisher,omitempty"`
}

// Infobox is the knowledge panel about the queried entity.
type Infobox struct {
	Type       string     `json:"type"`
	Position   int        `json:"position"`
	Label      string     `json:"label,omitempty"`
	Category   string     `json:"category,omitempty"`
	LongDesc   string     `json:"long_desc,omitempty"`
	ShortDesc  string     `json:"short_desc,omitempty"`
	Attributes [][]string `json:"attributes,omitempty"`
	Profiles   []Profile  `json:"profiles,omitempty"`
	Website    string     `json:"website,omitempty"`
	Thumbnail  *Thumbnail `json:"thumbnail,omitempty"`
}

type LocationResults struct {
	Type    string           `json:"type"`
	Results []LocationResult `json:"results"`
}

type LocationResult struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Postal      *Postal   `json:"postal_address,omitempty"`
	Contact     *Contact  `json:"contact,omitempty"`
	Distance    string    `json:"distance,omitempty"`
}

// MixedResultSection orders results of different kinds by display slot.
type MixedResultSection struct {
	Type string      `json:"type"`
	Main []MixedItem `json:"main,omitempty"`
	Top  []MixedItem `json:"top,omitempty"`
	Side []MixedItem `json:"side,omitempty"`
}

type MixedItem struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	All   bool   `json:"all,omitempty"`
}

type Profile struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	LongName string `json:"long_name,omitempty"`
	Img      string `json:"img,omitempty"`
}

type MetaURL struct {
	Scheme   string `json:"scheme"`
	Netloc   string `json:"netloc"`
	Hostname string `json:"hostname"`
	Favicon  string `json:"favicon,omitempty"`
	Path     string `json:"path,omitempty"`
}

type Thumbnail struct {
	Src      string `json:"src"`
	Original string `json:"original,omitempty"`
}

type Postal struct {
	Country         string `json:"country,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
}

type Contact struct {
	Email     string `json:"email,omitempty"`
	Telephone string `json:"telephone,omitempty"`
}
