package player

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// QualityGroup is one video rendition of the media.
type QualityGroup struct {
	Name                 string `json:"name"`
	VideoWidth           int    `json:"videoWidth"`
	VideoHeight          int    `json:"videoHeight"`
	FrameRateNumerator   int    `json:"frameRateNumerator"`
	FrameRateDenominator int    `json:"frameRateDenominator"`
	Bandwidth            int    `json:"bandwidth"`
}

// NewQualityGroup validates and returns a quality group.
func NewQualityGroup(name string, width, height, fpsNum, fpsDen, bandwidth int) (*QualityGroup, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: quality group %q size %dx%d", ErrInvalidTrack, name, width, height)
	}
	if bandwidth < 0 {
		return nil, fmt.Errorf("%w: quality group %q bandwidth %d", ErrInvalidTrack, name, bandwidth)
	}
	return &QualityGroup{
		Name:                 name,
		VideoWidth:           width,
		VideoHeight:          height,
		FrameRateNumerator:   fpsNum,
		FrameRateDenominator: fpsDen,
		Bandwidth:            bandwidth,
	}, nil
}

// FrameRate returns frames per second, or 0 when the denominator is 0.
func (q *QualityGroup) FrameRate() float64 {
	if q.FrameRateDenominator == 0 {
		return 0
	}
	return float64(q.FrameRateNumerator) / float64(q.FrameRateDenominator)
}

// String renders "name • W x H • fps fps • bandwidth bps".
func (q *QualityGroup) String() string {
	fps := math.Round(q.FrameRate()*100) / 100
	return fmt.Sprintf("%s • %d x %d • %s fps • %s bps",
		q.Name, q.VideoWidth, q.VideoHeight,
		strconv.FormatFloat(fps, 'f', -1, 64),
		printer.Sprintf("%d", q.Bandwidth))
}

// ParseQualityGroups decodes the JSON array a decoder announces.
func ParseQualityGroups(data []byte) ([]*QualityGroup, error) {
	var groups []*QualityGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("%w: quality groups: %w", ErrInvalidTrack, err)
	}
	for i, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: quality group %d is null", ErrInvalidTrack, i)
		}
	}
	return groups, nil
}

// UnknownBandwidth marks a track whose bandwidth is not known.
const UnknownBandwidth = -1

// Track is the identity and bandwidth shared by every track.
type Track struct {
	ID        string `json:"id"`
	Bandwidth int    `json:"bandwidth"`
}

// String renders "id • bandwidth bps".
func (t Track) String() string {
	return fmt.Sprintf("%s • %s bps", t.ID, printer.Sprintf("%d", t.Bandwidth))
}

// AudioTrack is one audio rendition of the media.
type AudioTrack struct {
	Track
	ChannelCount int    `json:"channelCount"`
	Language     string `json:"language"`
}

// NewAudioTrack validates and returns an audio track.
func NewAudioTrack(id string, bandwidth, channels int, lang string) (*AudioTrack, error) {
	if bandwidth < UnknownBandwidth {
		return nil, fmt.Errorf("%w: audio track %q bandwidth %d", ErrInvalidTrack, id, bandwidth)
	}
	if channels < UnknownCount {
		return nil, fmt.Errorf("%w: audio track %q channel count %d", ErrInvalidTrack, id, channels)
	}
	return &AudioTrack{
		Track:        Track{ID: id, Bandwidth: bandwidth},
		ChannelCount: channels,
		Language:     lang,
	}, nil
}

// Tag parses Language, returning language.Und when it is not a valid tag.
func (a *AudioTrack) Tag() language.Tag {
	tag, err := language.Parse(a.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// String renders "id • bandwidth bps • n ch • language".
func (a *AudioTrack) String() string {
	return fmt.Sprintf("%s • %d ch • %s", a.Track.String(), a.ChannelCount, a.Language)
}

// ParseAudioTracks decodes the JSON array a decoder announces.
func ParseAudioTracks(data []byte) ([]*AudioTrack, error) {
	var tracks []*AudioTrack
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("%w: audio formats: %w", ErrInvalidTrack, err)
	}
	for i, t := range tracks {
		if t == nil {
			return nil, fmt.Errorf("%w: audio track %d is null", ErrInvalidTrack, i)
		}
	}
	return tracks, nil
}

// MatchAudioTrack returns the track best matching preferred, or nil when
// tracks is empty.
func MatchAudioTrack(tracks []*AudioTrack, preferred language.Tag) *AudioTrack {
	if len(tracks) == 0 {
		return nil
	}
	tags := make([]language.Tag, len(tracks))
	for i, t := range tracks {
		tags[i] = t.Tag()
	}
	_, index, conf := language.NewMatcher(tags).Match(preferred)
	if conf == language.No {
		return tracks[0]
	}
	return tracks[index]
}
