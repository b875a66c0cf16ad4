// Package classify guesses what a torrent contains from its name.
// It parses release names with ptt-go and sorts them into movie, series
// or anime, which the CLI uses to derive categories for new torrents.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ptt "github.com/itsrenoria/ptt-go"
)

// Kind is the content type of a torrent
type Kind string

const (
	Movie  Kind = "movie"
	Series Kind = "series"
	Anime  Kind = "anime"
)

// Info is what could be read from a release name
type Info struct {
	Kind     Kind
	Title    string
	Year     int
	Seasons  []int
	Episodes []int
}

var (
	parserOnce sync.Once
	parserMu   sync.Mutex
	parser     *ptt.Parser
)

func defaultParser() *ptt.Parser {
	parserOnce.Do(func() {
		parser = ptt.NewParser()
		ptt.AddDefaults(parser)
	})
	return parser
}

// Name classifies a release name. A trailing .torrent extension is ignored.
func Name(name string) Info {
	name = strings.TrimSuffix(filepath.Base(name), ".torrent")
	p := defaultParser()
	parserMu.Lock()
	parsed := p.Parse(name)
	parserMu.Unlock()

	info := Info{
		Kind:     Movie,
		Title:    parsed.Title,
		Year:     parsed.Year,
		Seasons:  parsed.Seasons,
		Episodes: parsed.Episodes,
	}

	switch {
	case parsed.Anime:
		info.Kind = Anime
	case len(parsed.Seasons) > 0 || len(parsed.Episodes) > 0:
		info.Kind = Series
	}

	if info.Title == "" {
		info.Title = "Unknown"
	}
	return info
}

// Category maps a kind to a category name, e.g. "movies"
func (i Info) Category() string {
	switch i.Kind {
	case Anime:
		return "anime"
	case Series:
		return "series"
	default:
		return "movies"
	}
}

// String formats the info as "Title (Year) S01E02"
func (i Info) String() string {
	s := i.Title
	if i.Year > 0 {
		s = fmt.Sprintf("%s (%d)", s, i.Year)
	}
	switch {
	case len(i.Seasons) > 0 && len(i.Episodes) > 0:
		s = fmt.Sprintf("%s S%02dE%02d", s, i.Seasons[0], i.Episodes[0])
	case len(i.Seasons) > 0:
		s = fmt.Sprintf("%s Season %02d", s, i.Seasons[0])
	case len(i.Episodes) > 0:
		s = fmt.Sprintf("%s E%02d", s, i.Episodes[0])
	}
	return s
}
