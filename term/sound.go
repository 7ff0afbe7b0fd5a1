package term

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/hoshinonyaruko/snake-canvas/structs"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays short tones when food is eaten or a round ends.
type Sound struct {
	enabled bool
}

// NewSound opens the speaker. Audio is optional: on failure the returned
// Sound stays silent.
func NewSound() *Sound {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio initialization failed: %v", err)
		return &Sound{}
	}
	return &Sound{enabled: true}
}

// Observe implements loop.Observer.
func (s *Sound) Observe(_ structs.Snapshot, out structs.Outcome) {
	if !s.enabled {
		return
	}
	switch {
	case out.Collided:
		s.tone(220, 200*time.Millisecond)
	case out.Ate:
		s.tone(880, 50*time.Millisecond)
	}
}

func (s *Sound) tone(freq int, d time.Duration) {
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// Close releases the speaker.
func (s *Sound) Close() {
	if s.enabled {
		speaker.Close()
	}
}
