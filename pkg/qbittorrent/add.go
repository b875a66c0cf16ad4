package qbittorrent

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// add.go uploads .torrent files through the multipart add endpoint.

// TorrentUpload describes a .torrent file to add. Nil fields are not sent.
type TorrentUpload struct {
	// Path of the .torrent file
	Path string

	// SavePath is the download folder the content is stored in
	SavePath *string
	Category *string
	Tags     []string

	SkipChecking *bool
	// Paused adds the torrent in the paused state
	Paused     *bool
	RootFolder *bool
	Rename     *string

	// UpLimit and DlLimit are in bytes/second
	UpLimit    *int
	DlLimit    *int
	RatioLimit *float64
	// SeedingTimeLimit is in minutes
	SeedingTimeLimit *int

	// AutoTMM enables Automatic Torrent Management
	AutoTMM            *bool
	SequentialDownload *bool
	FirstLastPiecePrio *bool
}

// Values returns the text fields of the upload, keyed by their WebUI names
func (t *TorrentUpload) Values() url.Values {
	values := url.Values{}
	setString(values, "savepath", t.SavePath)
	setString(values, "category", t.Category)
	if t.Tags != nil {
		values.Set("tags", strings.Join(t.Tags, ","))
	}
	setBool(values, "skip_checking", t.SkipChecking)
	setBool(values, "paused", t.Paused)
	setBool(values, "root_folder", t.RootFolder)
	setString(values, "rename", t.Rename)
	setInt(values, "upLimit", t.UpLimit)
	setInt(values, "dlLimit", t.DlLimit)
	if t.RatioLimit != nil {
		values.Set("ratioLimit", strconv.FormatFloat(*t.RatioLimit, 'f', -1, 64))
	}
	setInt(values, "seedingTimeLimit", t.SeedingTimeLimit)
	setBool(values, "autoTMM", t.AutoTMM)
	setBool(values, "sequentialDownload", t.SequentialDownload)
	setBool(values, "firstLastPiecePrio", t.FirstLastPiecePrio)
	return values
}

func (t *TorrentUpload) readFile() (formFile, error) {
	content, err := os.ReadFile(t.Path)
	if err != nil {
		return formFile{}, errors.Wrap(err, "add torrent")
	}
	return formFile{
		field:    "torrents",
		filename: filepath.Base(t.Path),
		content:  content,
	}, nil
}

// AddTorrent uploads a .torrent file. The result is true when the daemon
// answered with a 2xx status; the body is ignored.
// The file is read before anything is sent, so a missing file never reaches the network.
//
// See https://github.com/qbittorrent/qBittorrent/wiki/WebUI-API-(qBittorrent-4.1)#add-new-torrent
func (c *Client) AddTorrent(ctx context.Context, torrent TorrentUpload) (*Response[bool], error) {
	file, err := torrent.readFile()
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/torrents/add", payload{
		values: torrent.Values(),
		files:  []formFile{file},
	})
	if err != nil {
		return nil, err
	}

	result := successResponse(resp)
	c.logger.Debug().
		Str("file", file.filename).
		Int("status", *result.StatusCode).
		Msg("Added torrent")
	return result, nil
}

func setString(values url.Values, key string, v *string) {
	if v != nil {
		values.Set(key, *v)
	}
}

func setBool(values url.Values, key string, v *bool) {
	if v != nil {
		values.Set(key, strconv.FormatBool(*v))
	}
}

func setInt(values url.Values, key string, v *int) {
	if v != nil {
		values.Set(key, strconv.Itoa(*v))
	}
}

// Ref returns a pointer to v, for filling optional fields
func Ref[T any](v T) *T {
	return &v
}
