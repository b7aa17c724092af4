package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

// ParseMessage converts a native message into a decoder event. ok is false
// for messages that carry nothing the player consumes.
func ParseMessage(method, payload string) (ev interfaces.DecoderEvent, ok bool, err error) {
	switch method {
	case MessagePlayerStateChanged:
		args, err := split(method, payload, 2)
		if err != nil {
			return ev, false, err
		}
		state, err := interfaces.ParsePlaybackState(args[1])
		if err != nil {
			return ev, false, fmt.Errorf("%w: %s: %w", ErrMalformedMessage, method, err)
		}
		return interfaces.PlaybackStateEvent(args[0] == boolTrue, state), true, nil

	case MessageQualityGroupsChanged:
		if !json.Valid([]byte(payload)) {
			return ev, false, fmt.Errorf("%w: %s: invalid JSON", ErrMalformedMessage, method)
		}
		return interfaces.QualityGroupsEvent([]byte(payload)), true, nil

	case MessageAudioFormatsChanged:
		if !json.Valid([]byte(payload)) {
			return ev, false, fmt.Errorf("%w: %s: invalid JSON", ErrMalformedMessage, method)
		}
		return interfaces.AudioFormatsEvent([]byte(payload)), true, nil

	case MessageRenderedFirstFrame:
		return interfaces.FirstFrameRenderedEvent(), true, nil

	case MessageLoadingChanged:
		return ev, false, nil

	case MessageDownstreamFormatChanged:
		args, err := split(method, payload, 2)
		if err != nil {
			return ev, false, err
		}
		return interfaces.DownstreamFormatChangedEvent(args[0], args[1]), true, nil

	case MessageAudioFormatChanged:
		return interfaces.AudioFormatChangedEvent(payload), true, nil

	case MessageDroppedFrames:
		n, err := strconv.Atoi(strings.TrimSpace(payload))
		if err != nil {
			return ev, false, fmt.Errorf("%w: %s: %w", ErrMalformedMessage, method, err)
		}
		return interfaces.DroppedFramesEvent(n), true, nil

	case MessagePlayerError:
		return interfaces.PlayerErrorEvent(payload), true, nil

	case MessageLoadError:
		return interfaces.LoadErrorEvent(payload), true, nil

	case MessageBandwidthSample:
		args, err := split(method, payload, 3)
		if err != nil {
			return ev, false, err
		}
		nums, err := parseInts(method, args)
		if err != nil {
			return ev, false, err
		}
		return interfaces.BandwidthSampleEvent(nums[0], nums[1], nums[2]), true, nil

	case MessageScheduledTileAtTime:
		args, err := split(method, payload, 2)
		if err != nil {
			return ev, false, err
		}
		nums, err := parseInts(method, args[1:])
		if err != nil {
			return ev, false, err
		}
		return interfaces.ScheduledTileEvent(args[0], nums[0]), true, nil

	default:
		return ev, false, fmt.Errorf("%w: %s", ErrUnknownMessage, method)
	}
}

func split(method, payload string, n int) ([]string, error) {
	args := strings.Split(payload, "|")
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s: want %d fields, got %d", ErrMalformedMessage, method, n, len(args))
	}
	return args, nil
}

func parseInts(method string, args []string) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedMessage, method, err)
		}
		out[i] = v
	}
	return out, nil
}

// HandleMessage parses a native message and delivers the resulting event.
// A malformed payload is delivered as a PlayerError event and returned.
// Unknown methods are logged and returned without delivering anything.
func (d *Decoder) HandleMessage(method, payload string) error {
	d.mu.RLock()
	disposed := d.disposed
	d.mu.RUnlock()
	if disposed {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.HandleMessage",
			"method":   method,
		}).Debug("Dropping message for disposed decoder")
		return nil
	}

	ev, ok, err := ParseMessage(method, payload)
	if err != nil {
		fields := logrus.Fields{
			"function": "Decoder.HandleMessage",
			"method":   method,
			"payload":  payload,
			"error":    err.Error(),
		}
		if errors.Is(err, ErrUnknownMessage) {
			logrus.WithFields(fields).Warn("Ignoring unknown native message")
			return err
		}
		logrus.WithFields(fields).Error("Malformed native message")
		d.sink.Deliver(interfaces.PlayerErrorEvent(err.Error()))
		return err
	}
	if !ok {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "Decoder.HandleMessage",
		"event":    ev.String(),
	}).Debug("Delivering decoder event")
	d.sink.Deliver(ev)
	return nil
}
