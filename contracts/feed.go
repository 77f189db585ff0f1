package contracts

import "time"

const (
	FeedFormatVersion = 1
	FeedReadTimeout   = 3 * time.Second
)

type FeedDocument struct {
	Version  int           `json:"version"`
	Versions []FeedRelease `json:"versions"`
}

type FeedRelease struct {
	Number      Version    `json:"number"`
	Description string     `json:"description"`
	Diff        []FeedFile `json:"diff"`
	Full        []FeedFile `json:"full"`
}

type FeedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
	MD5  string `json:"md5"`
	SHA1 string `json:"sha1"`
}
