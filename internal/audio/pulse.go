// Package audio discovers the Pulse playback sinks that indicator cues can use.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Sink describes one Pulse playback sink surfaced to murmur.
type Sink struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Selection is the resolved cue sink plus an optional fallback warning.
type Selection struct {
	Sink     Sink
	Warning  string
	Fallback bool
}

// ListSinks returns Pulse playback sinks with default/availability metadata.
func ListSinks(_ context.Context) ([]Sink, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("murmur"),
		pulse.ClientApplicationIconName("input-keyboard"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	defaultSink, err := client.DefaultSink()
	if err != nil {
		return nil, fmt.Errorf("read default sink: %w", err)
	}
	defaultID := defaultSink.ID()

	var sinkInfos pulseproto.GetSinkInfoListReply
	if err := client.RawRequest(&pulseproto.GetSinkInfoList{}, &sinkInfos); err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}

	sinks := make([]Sink, 0, len(sinkInfos))
	for _, info := range sinkInfos {
		if info == nil {
			continue
		}
		sinks = append(sinks, Sink{
			ID:          info.SinkName,
			Description: info.Device,
			State:       sinkStateString(info.State),
			Available:   sinkAvailable(info),
			Muted:       info.Mute,
			Default:     info.SinkName == defaultID,
		})
	}
	return sinks, nil
}

// SelectSink resolves indicator.sound_sink against live sinks.
func SelectSink(ctx context.Context, preferred string) (Selection, error) {
	sinks, err := ListSinks(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectSinkFromList(sinks, preferred)
}

// selectSinkFromList applies selection policy to a pre-fetched sink list.
// An unusable preferred sink falls back to the default with a warning.
func selectSinkFromList(sinks []Sink, preferred string) (Selection, error) {
	if len(sinks) == 0 {
		return Selection{}, errors.New("no audio playback sinks found")
	}

	var defaultSink, byName *Sink
	preferred = strings.TrimSpace(strings.ToLower(preferred))

	for i := range sinks {
		s := &sinks[i]
		if s.Default {
			defaultSink = s
		}
		if byName == nil && preferred != "" && preferred != "default" && sinkMatches(*s, preferred) {
			byName = s
		}
	}

	if preferred != "" && preferred != "default" {
		if byName == nil {
			return Selection{}, fmt.Errorf("indicator.sound_sink %q did not match any sink", preferred)
		}
		if usable(*byName) {
			return Selection{Sink: *byName}, nil
		}
	}

	if defaultSink == nil {
		return Selection{}, errors.New("default audio sink is unavailable")
	}
	if !usable(*defaultSink) {
		return Selection{}, fmt.Errorf("default audio sink %q is %s", defaultSink.ID, reason(*defaultSink))
	}
	if byName == nil {
		return Selection{Sink: *defaultSink}, nil
	}

	return Selection{
		Sink:     *defaultSink,
		Warning:  fmt.Sprintf("indicator.sound_sink %q is %s; falling back to %q", byName.ID, reason(*byName), defaultSink.ID),
		Fallback: byName.ID != defaultSink.ID,
	}, nil
}

func usable(s Sink) bool { return s.Available && !s.Muted }

func reason(s Sink) string {
	if s.Muted {
		return "muted"
	}
	return "unavailable"
}

// sinkMatches reports whether a search term matches a sink id or description.
func sinkMatches(sink Sink, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(sink.ID), term) ||
		strings.Contains(strings.ToLower(sink.Description), term)
}

// sinkStateString maps Pulse sink state constants to human-readable values.
func sinkStateString(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// sinkAvailable maps Pulse sink port availability to a simple boolean.
func sinkAvailable(info *pulseproto.GetSinkInfoReply) bool {
	if info == nil {
		return false
	}
	if len(info.Ports) == 0 {
		return true
	}
	for _, port := range info.Ports {
		if port.Name != info.ActivePortName {
			continue
		}
		// PulseAudio values: unknown=0, no=1, yes=2.
		return port.Available == 0 || port.Available == 2
	}
	return true
}
