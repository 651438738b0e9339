// Package monitor prints audio bus traffic and a periodic summary of the
// last known state of every card.
package monitor

import (
	"context"
	"sort"
	"time"

	"audiocard-go/bus"
	"audiocard-go/types"
	"audiocard-go/x/fmtx"
)

var (
	topicConfigMonitor = bus.Topic{"config", "monitor"}
	topicAudio         = bus.Topic{"audio", "#"}
)

// DefaultInterval is the summary period until config/monitor sets one.
const DefaultInterval = 10 * time.Second

type Service struct {
	Out   func(string) // println when nil
	Quiet bool         // summaries only, no per-message lines

	cards map[string]types.CardState
}

func (s *Service) print(line string) {
	if s.Out != nil {
		s.Out(line)
		return
	}
	println(line)
}

// TopicString renders a topic as a/b/c.
func TopicString(t bus.Topic) string {
	out := ""
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			out += "/"
		}
		out += fmtx.Sprint(t.At(i))
	}
	return out
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigMonitor)
	defer conn.Unsubscribe(cfgSub)
	audioSub := conn.Subscribe(topicAudio)
	defer conn.Unsubscribe(audioSub)

	s.cards = map[string]types.CardState{}
	tick := time.NewTicker(DefaultInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.summary()
		case msg := <-cfgSub.Channel():
			if d, ok := interval(msg.Payload); ok {
				tick.Reset(d)
				s.print("[monitor] summary every " + d.String())
			}
		case msg := <-audioSub.Channel():
			s.observe(msg)
		}
	}
}

func (s *Service) observe(msg *bus.Message) {
	if st, ok := msg.Payload.(types.CardState); ok && msg.Topic.Len() == 4 {
		if id, ok := msg.Topic.At(2).(string); ok {
			s.cards[id] = st
		}
	}
	if !s.Quiet {
		s.print("[monitor] <- " + TopicString(msg.Topic) + " " + fmtx.Sprintf("%+v", msg.Payload))
	}
}

func (s *Service) summary() {
	ids := make([]string, 0, len(s.cards))
	for id := range s.cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		st := s.cards[id]
		s.print(fmtx.Sprintf("[monitor] %s %s rate=%d open=%d", id, st.State, st.RateHz, st.Open))
	}
}

// interval reads {"interval": seconds}; YAML gives ints, JSON floats.
func interval(p any) (time.Duration, bool) {
	m, ok := p.(map[string]any)
	if !ok {
		return 0, false
	}
	var secs float64
	switch v := m["interval"].(type) {
	case int:
		secs = float64(v)
	case float64:
		secs = v
	default:
		return 0, false
	}
	if secs <= 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// Start the monitor service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
