package classify

import "testing"

// classify_test.go checks the movie/series split on common release names.

func TestName_Movie(t *testing.T) {
	info := Name("The.Matrix.1999.1080p.BluRay.x264.torrent")
	if info.Kind != Movie {
		t.Fatalf("expected movie, got %s", info.Kind)
	}
	if info.Year != 1999 {
		t.Fatalf("expected year 1999, got %d", info.Year)
	}
	if info.Category() != "movies" {
		t.Fatalf("unexpected category %s", info.Category())
	}
}

func TestName_Series(t *testing.T) {
	info := Name("Breaking.Bad.S02E05.720p.HDTV.x264")
	if info.Kind != Series {
		t.Fatalf("expected series, got %s", info.Kind)
	}
	if len(info.Seasons) == 0 || info.Seasons[0] != 2 {
		t.Fatalf("expected season 2, got %v", info.Seasons)
	}
	if len(info.Episodes) == 0 || info.Episodes[0] != 5 {
		t.Fatalf("expected episode 5, got %v", info.Episodes)
	}
	if info.Category() != "series" {
		t.Fatalf("unexpected category %s", info.Category())
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Kind: Series, Title: "Show", Year: 2020, Seasons: []int{1}, Episodes: []int{2}}
	if got := info.String(); got != "Show (2020) S01E02" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := (Info{Title: "Film"}).String(); got != "Film" {
		t.Fatalf("unexpected string %q", got)
	}
}
