package youtube

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/sharetube/playback/pkg/validator"
)

var (
	ErrNotJSON    = errors.New("payload is not json")
	ErrNoInfo     = errors.New("payload has no info")
	ErrBadPayload = errors.New("payload failed validation")
)

var validate = validator.NewValidator()

type VideoData struct {
	VideoID   *string
	ErrorCode *int
}

// Info is the decoded "info" object of an iframe API infoDelivery message.
// A field is nil when it is absent or carries a value of the wrong type.
type Info struct {
	VideoData              *VideoData
	Duration               *float64 `json:"duration" validate:"omitempty,gte=0"`
	CurrentTime            *float64 `json:"currentTime" validate:"omitempty,gte=0"`
	CurrentTimeLastUpdated *float64 `json:"currentTimeLastUpdated" validate:"omitempty,gte=0"`
	PlaybackRate           *float64 `json:"playbackRate" validate:"omitempty,gt=0"`
	VideoLoadedFraction    *float64 `json:"videoLoadedFraction" validate:"omitempty,gte=0,lte=1"`
	AvailablePlaybackRates []float64
	HasPlaybackRates       bool
	PlayerState            *int
}

// decodeMessage parses an iframe payload. The bridge may relay it either as
// the JSON object itself or as the string the iframe posted.
func decodeMessage(raw []byte) (*Info, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ErrNotJSON
		}
		raw = []byte(s)
	}

	var envelope struct {
		Info json.RawMessage `json:"info"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrNotJSON
	}

	if len(envelope.Info) == 0 || string(envelope.Info) == "null" {
		return nil, ErrNoInfo
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Info, &fields); err != nil {
		return nil, ErrNoInfo
	}

	info := &Info{
		Duration:               number(fields["duration"]),
		CurrentTime:            number(fields["currentTime"]),
		CurrentTimeLastUpdated: number(fields["currentTimeLastUpdated"]),
		PlaybackRate:           number(fields["playbackRate"]),
		VideoLoadedFraction:    number(fields["videoLoadedFraction"]),
	}

	if f := number(fields["playerState"]); f != nil {
		state := int(*f)
		info.PlayerState = &state
	}

	if raw, ok := fields["availablePlaybackRates"]; ok {
		var rates []float64
		if err := json.Unmarshal(raw, &rates); err == nil && rates != nil {
			info.AvailablePlaybackRates = rates
			info.HasPlaybackRates = true
		}
	}

	if raw, ok := fields["videoData"]; ok {
		var vd map[string]json.RawMessage
		if err := json.Unmarshal(raw, &vd); err == nil && vd != nil {
			info.VideoData = &VideoData{}

			var id string
			if err := json.Unmarshal(vd["video_id"], &id); err == nil && id != "" {
				info.VideoData.VideoID = &id
			}

			if f := number(vd["errorCode"]); f != nil {
				code := int(*f)
				info.VideoData.ErrorCode = &code
			}
		}
	}

	if err := validate.Check(info); err != nil {
		return nil, errors.Join(ErrBadPayload, err)
	}

	return info, nil
}

func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}

	return &f
}
