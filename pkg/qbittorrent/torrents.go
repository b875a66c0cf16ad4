package qbittorrent

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// torrents.go lists torrents through /torrents/info.

// FilterState filters the torrent list by state
type FilterState string

const (
	FilterAll                FilterState = "all"
	FilterDownloading        FilterState = "downloading"
	FilterSeeding            FilterState = "seeding"
	FilterCompleted          FilterState = "completed"
	FilterPaused             FilterState = "paused"
	FilterActive             FilterState = "active"
	FilterInactive           FilterState = "inactive"
	FilterResumed            FilterState = "resumed"
	FilterStalled            FilterState = "stalled"
	FilterStalledUploading   FilterState = "stalled_uploading"
	FilterStalledDownloading FilterState = "stalled_downloading"
	FilterErrored            FilterState = "errored"
)

var filterStates = []FilterState{
	FilterAll, FilterDownloading, FilterSeeding, FilterCompleted, FilterPaused, FilterActive,
	FilterInactive, FilterResumed, FilterStalled, FilterStalledUploading, FilterStalledDownloading, FilterErrored,
}

// ParseFilterState validates a filter name
func ParseFilterState(s string) (FilterState, bool) {
	for _, state := range filterStates {
		if string(state) == s {
			return state, true
		}
	}
	return "", false
}

// FilterOptions narrows the torrent list. A nil field means no constraint.
type FilterOptions struct {
	Filter *FilterState

	// Category: empty string means "without category"
	Category *string

	// Tag: empty string means "without tag"
	Tag *string

	// Sort key; any JSON field name of Torrent
	Sort    *string
	Reverse *bool
	Limit   *int

	// Offset below zero counts from the end
	Offset *int

	// Hashes are sent joined by "|"
	Hashes []string
}

// Values encodes only the fields that are set
func (f *FilterOptions) Values() url.Values {
	values := url.Values{}
	if f.Filter != nil {
		values.Set("filter", string(*f.Filter))
	}
	setString(values, "category", f.Category)
	setString(values, "tag", f.Tag)
	setString(values, "sort", f.Sort)
	setBool(values, "reverse", f.Reverse)
	setInt(values, "limit", f.Limit)
	setInt(values, "offset", f.Offset)
	if f.Hashes != nil {
		values.Set("hashes", strings.Join(f.Hashes, "|"))
	}
	return values
}

// State is the state of a torrent as reported by the daemon
type State string

const (
	StateError              State = "error"
	StateMissingFiles       State = "missingFiles"
	StateUploading          State = "uploading"
	StatePausedUP           State = "pausedUP"
	StateStoppedUP          State = "stoppedUP"
	StateQueuedUP           State = "queuedUP"
	StateStalledUP          State = "stalledUP"
	StateCheckingUP         State = "checkingUP"
	StateForcedUP           State = "forcedUP"
	StateAllocating         State = "allocating"
	StateDownloading        State = "downloading"
	StateMetaDL             State = "metaDL"
	StatePausedDL           State = "pausedDL"
	StateStoppedDL          State = "stoppedDL"
	StateQueuedDL           State = "queuedDL"
	StateStalledDL          State = "stalledDL"
	StateCheckingDL         State = "checkingDL"
	StateForcedDL           State = "forcedDL"
	StateCheckingResumeData State = "checkingResumeData"
	StateMoving             State = "moving"
	StateUnknown            State = "unknown"
)

// Torrent is one entry of the torrent list
type Torrent struct {
	AddedOn            int64   `json:"added_on"`
	AmountLeft         int64   `json:"amount_left"`
	AutoTMM            bool    `json:"auto_tmm"`
	Availability       float64 `json:"availability"`
	Category           string  `json:"category"`
	Completed          int64   `json:"completed"`
	CompletionOn       int64   `json:"completion_on"`
	ContentPath        string  `json:"content_path"`
	DlLimit            int64   `json:"dl_limit"`
	DlSpeed            int64   `json:"dlspeed"`
	Downloaded         int64   `json:"downloaded"`
	DownloadedSession  int64   `json:"downloaded_session"`
	ETA                int64   `json:"eta"`
	FirstLastPiecePrio bool    `json:"f_l_piece_prio"`
	ForceStart         bool    `json:"force_start"`
	Hash               string  `json:"hash"`
	// IsPrivate is only reported by 5.0.0 and later
	IsPrivate      *bool   `json:"is_private,omitempty"`
	LastActivity   int64   `json:"last_activity"`
	MagnetURI      string  `json:"magnet_uri"`
	MaxRatio       float64 `json:"max_ratio"`
	MaxSeedingTime int64   `json:"max_seeding_time"`
	Name           string  `json:"name"`
	NumComplete    int64   `json:"num_complete"`
	NumIncomplete  int64   `json:"num_incomplete"`
	NumLeechs      int64   `json:"num_leechs"`
	NumSeeds       int64   `json:"num_seeds"`
	// Priority is -1 when queueing is disabled or the torrent is seeding
	Priority         int64   `json:"priority"`
	Progress         float64 `json:"progress"`
	Ratio            float64 `json:"ratio"`
	RatioLimit       float64 `json:"ratio_limit"`
	SavePath         string  `json:"save_path"`
	SeedingTime      int64   `json:"seeding_time"`
	SeedingTimeLimit int64   `json:"seeding_time_limit"`
	SeenComplete     int64   `json:"seen_complete"`
	SeqDl            bool    `json:"seq_dl"`
	Size             int64   `json:"size"`
	State            State   `json:"state"`
	SuperSeeding     bool    `json:"super_seeding"`
	// Tags is the comma-separated tag list
	Tags            string `json:"tags"`
	TimeActive      int64  `json:"time_active"`
	TotalSize       int64  `json:"total_size"`
	Tracker         string `json:"tracker"`
	UpLimit         int64  `json:"up_limit"`
	Uploaded        int64  `json:"uploaded"`
	UploadedSession int64  `json:"uploaded_session"`
	UpSpeed         int64  `json:"upspeed"`
}

// TagList splits Tags
func (t *Torrent) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	parts := strings.Split(t.Tags, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ProgressPercent formats Progress as a percentage
func (t *Torrent) ProgressPercent() string {
	return strconv.FormatFloat(t.Progress*100, 'f', 1, 64) + "%"
}

// GetTorrents lists the torrents matching filters
//
// See https://github.com/qbittorrent/qBittorrent/wiki/WebUI-API-(qBittorrent-4.1)#get-torrent-list
func (c *Client) GetTorrents(ctx context.Context, filters FilterOptions) (*Response[[]Torrent], error) {
	method := http.MethodGet
	endpoint := "/torrents/info"

	resp, err := c.send(ctx, method, endpoint, payload{values: filters.Values()})
	if err != nil {
		return nil, err
	}

	response, err := deserializeResponse[[]Torrent](c.logger, method, endpoint, resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("status", *response.StatusCode).
		Int("count", len(*response.Result)).
		Msg("Fetched torrents")
	return response, nil
}
