package headset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

// Type identifies the head-mounted display model.
type Type int

const (
	TypeUnknown Type = iota - 1
	TypeOculusRift
	TypeOculusGearVR
	TypeOculusGo
	TypeHTCVive
	TypeHoloLens
	TypeWindowsMR
	TypeDaydream
	TypeCardboard
)

var typeNames = map[Type]string{
	TypeUnknown:      "Unknown",
	TypeOculusRift:   "OculusRift",
	TypeOculusGearVR: "OculusGearVR",
	TypeOculusGo:     "OculusGo",
	TypeHTCVive:      "HTCVive",
	TypeHoloLens:     "HoloLens",
	TypeWindowsMR:    "WindowsMR",
	TypeDaydream:     "Daydream",
	TypeCardboard:    "Cardboard",
}

// String returns the string representation of Type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Platform is the host operating system family a headset runtime runs on.
type Platform int

const (
	PlatformDesktop Platform = iota
	PlatformWindows
	PlatformAndroid
	PlatformIOS
	PlatformUWP
)

// DetectType maps the XR runtime's device model and loaded device name to a
// headset type. Runtimes that do not exist on platform yield TypeUnknown.
func DetectType(deviceModel, loadedDevice string, platform Platform) Type {
	if deviceModel == "Oculus Pacific" {
		return TypeOculusGo
	}
	switch strings.ToLower(loadedDevice) {
	case "oculus":
		if platform == PlatformAndroid {
			return TypeOculusGearVR
		}
		return TypeOculusRift
	case "openvr":
		if platform == PlatformWindows {
			return TypeHTCVive
		}
	case "hololens":
		if platform == PlatformUWP {
			return TypeHoloLens
		}
	case "windowsmr":
		if platform == PlatformUWP {
			return TypeWindowsMR
		}
	case "daydream":
		if platform == PlatformAndroid {
			return TypeDaydream
		}
	case "cardboard":
		if platform == PlatformAndroid || platform == PlatformIOS {
			return TypeCardboard
		}
	}
	return TypeUnknown
}

// MountEvent reports the headset being put on or taken off.
type MountEvent struct {
	Mounted bool
}

// Headset is the pose and lifecycle surface the projector consumes.
type Headset interface {
	// Heading returns the view orientation as Euler degrees: x pitch,
	// y yaw, z roll.
	Heading() mgl64.Vec3

	// PlayerConfiguration returns decoder configuration the headset
	// requires, such as its audio output device.
	PlayerConfiguration() interfaces.DecoderConfig

	// Subscribe registers fn for mount changes and returns an id for
	// Unsubscribe.
	Subscribe(fn func(MountEvent)) int
	Unsubscribe(id int)

	IsMounted() bool
}

// Simulated is a Headset whose pose and mount state are set by the caller.
type Simulated struct {
	mu         sync.RWMutex
	kind       Type
	heading    mgl64.Vec3
	mounted    bool
	audioOutID string
	observers  map[int]func(MountEvent)
	nextID     int
}

// NewSimulated returns a mounted headset of the given type facing forward.
func NewSimulated(kind Type) *Simulated {
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulated",
		"type":     kind.String(),
	}).Info("Creating simulated headset")

	return &Simulated{
		kind:      kind,
		mounted:   true,
		observers: make(map[int]func(MountEvent)),
	}
}

// Type returns the simulated model.
func (s *Simulated) Type() Type { return s.kind }

// Heading implements Headset.
func (s *Simulated) Heading() mgl64.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heading
}

// SetHeading changes the view orientation (Euler degrees).
func (s *Simulated) SetHeading(h mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heading = h
}

// SetAudioOutID sets the audio output device a Rift reports to the decoder.
func (s *Simulated) SetAudioOutID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioOutID = id
}

// PlayerConfiguration implements Headset. Only a Rift with an audio output
// device contributes configuration.
func (s *Simulated) PlayerConfiguration() interfaces.DecoderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := interfaces.DecoderConfig{}
	if s.kind == TypeOculusRift && s.audioOutID != "" {
		cfg[interfaces.AudioOutIDKey] = s.audioOutID
	}
	return cfg
}

// IsMounted implements Headset.
func (s *Simulated) IsMounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// Subscribe implements Headset.
func (s *Simulated) Subscribe(fn func(MountEvent)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.observers[s.nextID] = fn
	return s.nextID
}

// Unsubscribe implements Headset.
func (s *Simulated) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

// Mount puts the headset on, notifying observers on change.
func (s *Simulated) Mount() { s.setMounted(true) }

// Unmount takes the headset off, notifying observers on change.
func (s *Simulated) Unmount() { s.setMounted(false) }

func (s *Simulated) setMounted(mounted bool) {
	s.mu.Lock()
	if s.mounted == mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = mounted
	observers := make([]func(MountEvent), 0, len(s.observers))
	for id := 1; id <= s.nextID; id++ {
		if fn, ok := s.observers[id]; ok {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Simulated.setMounted",
		"mounted":  mounted,
	}).Debug("Headset mount changed")

	for _, fn := range observers {
		fn(MountEvent{Mounted: mounted})
	}
}
