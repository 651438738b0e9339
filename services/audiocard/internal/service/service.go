package service

import (
	"context"
	"time"

	"audiocard-go/bus"
	"audiocard-go/errcode"
	"audiocard-go/services/audiocard/internal/consts"
	"audiocard-go/services/audiocard/internal/core"
	"audiocard-go/services/audiocard/internal/util"
	"audiocard-go/types"
	"audiocard-go/x/fmtx"
	"audiocard-go/x/timex"

	"github.com/go-audio/audio"
)

// RetryEvery is the delay before a deferred attach is retried.
var RetryEvery = 500 * time.Millisecond

type cardEntry struct {
	card *core.Card
}

// Service owns every card and runs all of their callbacks on one
// goroutine, so a card never sees concurrent calls.
type Service struct {
	conn *bus.Connection
	reg  core.ResourceRegistry

	cards   map[string]*cardEntry
	pending map[string]types.CardConfig // deferred attaches
	events  chan core.Event

	timer *time.Timer
	log   func(string)
}

var (
	topicConfigAudio = bus.Topic{consts.TokConfig, consts.TokAudio}
	topicCtrl        = bus.Topic{consts.TokAudio, consts.TokCard, "+", consts.TokControl, "+"}
)

func New(conn *bus.Connection, reg core.ResourceRegistry) *Service {
	return &Service{
		conn:    conn,
		reg:     reg,
		cards:   map[string]*cardEntry{},
		pending: map[string]types.CardConfig{},
		events:  make(chan core.Event, 64),
		log:     func(l string) { println(l) },
	}
}

// SetLogger replaces the println sink.
func (s *Service) SetLogger(f func(string)) {
	if f != nil {
		s.log = f
	}
}

// Emit implements core.EventEmitter. Events are published from the loop.
func (s *Service) Emit(ev core.Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfigAudio)
	ctrlSub := s.conn.Subscribe(topicCtrl)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishState(consts.LevelIdle, "awaiting_config", nil)

	s.timer = time.NewTimer(time.Hour)
	if !s.timer.Stop() {
		util.DrainTimer(s.timer)
	}

	for {
		select {
		case <-ctx.Done():
			for id := range s.cards {
				s.detach(id)
			}
			s.publishState(consts.LevelStopped, "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			var cfg types.AudioConfig
			if err := util.DecodePayload(msg.Payload, &cfg); err != nil {
				s.publishState(consts.LevelError, "config_wrong_type", err)
				continue
			}
			if err := s.applyConfig(ctx, cfg); err != nil {
				s.publishState(consts.LevelError, "attach_failed", err)
				continue
			}
			s.publishState(consts.LevelReady, "configured", nil)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case ev := <-s.events:
			s.publishEvent(ev)

		case <-s.timer.C:
			s.retryPending(ctx)
		}
	}
}

// applyConfig attaches cards not seen before. Known ids are left alone.
func (s *Service) applyConfig(ctx context.Context, cfg types.AudioConfig) error {
	var firstErr error
	for _, cc := range cfg.Cards {
		if cc.ID == "" {
			if firstErr == nil {
				firstErr = errcode.Wrap(errcode.InvalidParams, "config", "card without id", nil)
			}
			continue
		}
		if _, known := s.cards[cc.ID]; known {
			continue
		}
		if err := s.attach(ctx, cc); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.armRetry()
	return firstErr
}

// attach runs one attach. A deferred clock is parked for retry and does
// not count as a failure.
func (s *Service) attach(ctx context.Context, cc types.CardConfig) error {
	bc, err := BoardConfig(cc)
	if err == nil {
		var c *core.Card
		c, err = core.Attach(ctx, bc, core.Resources{Reg: s.reg, Pub: s, Log: s.log})
		if err == nil {
			delete(s.pending, cc.ID)
			s.cards[cc.ID] = &cardEntry{card: c}
			s.publishCard(cc.ID)
			return nil
		}
	}

	if errcode.Of(err) == errcode.ProbeDefer {
		s.pending[cc.ID] = cc
		s.logf("%s: attach deferred: %v", cc.ID, err)
		s.publishCardEvent(cc.ID, consts.EvAttachRetry, types.CardFault{Op: "attach", Error: string(errcode.ProbeDefer), TSms: timex.NowMs()})
		return nil
	}
	delete(s.pending, cc.ID)
	s.logf("%s: attach failed: %v", cc.ID, err)
	s.publishCardEvent(cc.ID, consts.EvAttachFailed, types.CardFault{Op: "attach", Error: err.Error(), TSms: timex.NowMs()})
	s.publishCardState(cc.ID, types.CardState{State: core.StateUnattached.String(), Error: string(errcode.Of(err)), TSms: timex.NowMs()})
	return err
}

func (s *Service) retryPending(ctx context.Context) {
	for _, cc := range s.pending {
		_ = s.attach(ctx, cc)
	}
	s.armRetry()
}

func (s *Service) armRetry() {
	if len(s.pending) == 0 {
		if !s.timer.Stop() {
			util.DrainTimer(s.timer)
		}
		return
	}
	util.ResetTimer(s.timer, RetryEvery)
}

// ---- Controls ----

func (s *Service) handleControl(msg *bus.Message) {
	if msg.Topic.Len() < 5 {
		return
	}
	id, _ := msg.Topic.At(2).(string)
	verb, _ := msg.Topic.At(4).(string)

	ent := s.cards[id]
	if ent == nil {
		s.replyErr(msg, errcode.UnknownCard)
		return
	}
	c := ent.card

	switch verb {
	case consts.CtrlStatus:
		s.conn.Reply(msg, s.cardState(c), false)

	case consts.CtrlOpen:
		var req types.StreamOpen
		if err := util.DecodePayload(msg.Payload, &req); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		dir, ok := core.ParseDirection(req.Direction)
		if !ok {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		sf, err := core.ParseSampleFormat(req.Format)
		if err != nil {
			s.replyErr(msg, errcode.Of(err))
			return
		}
		st, err := c.Open(dir, core.StreamParams{
			Format: sf,
			Audio:  audio.Format{NumChannels: req.Channels, SampleRate: req.RateHz},
		})
		if err != nil {
			s.logf("%s: open %s: %v", id, dir, err)
			s.replyErr(msg, errcode.Of(err))
			s.publishCard(id)
			return
		}
		rep := c.Report(st)
		rep.OK = true
		s.conn.Reply(msg, rep, false)
		s.publishCard(id)

	case consts.CtrlClose:
		var req types.StreamClose
		if err := util.DecodePayload(msg.Payload, &req); err != nil {
			s.replyErr(msg, errcode.InvalidPayload)
			return
		}
		dir, ok := core.ParseDirection(req.Direction)
		if !ok {
			s.replyErr(msg, errcode.InvalidParams)
			return
		}
		c.Close(c.Stream(dir))
		s.conn.Reply(msg, types.OKReply{OK: true}, false)
		s.publishCard(id)

	case consts.CtrlDetach:
		s.detach(id)
		s.conn.Reply(msg, types.OKReply{OK: true}, false)

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *Service) detach(id string) {
	ent := s.cards[id]
	if ent == nil {
		return
	}
	ent.card.Detach()
	s.publishCard(id)
	delete(s.cards, id)
}

// ---- Publishing ----

func (s *Service) cardState(c *core.Card) types.CardState {
	return types.CardState{
		State:  c.State().String(),
		Model:  c.Model(),
		RateHz: c.RateHz(),
		Routes: len(c.Graph().Routes()),
		Open:   c.OpenStreams(),
		TSms:   timex.NowMs(),
	}
}

func (s *Service) publishCard(id string) {
	if ent := s.cards[id]; ent != nil {
		s.publishCardState(id, s.cardState(ent.card))
	}
}

func (s *Service) publishCardState(id string, st types.CardState) {
	s.conn.Publish(s.conn.NewMessage(bus.Topic{consts.TokAudio, consts.TokCard, id, consts.TokState}, st, true))
}

func (s *Service) publishCardEvent(id, tag string, payload any) {
	s.conn.Publish(s.conn.NewMessage(bus.Topic{consts.TokAudio, consts.TokCard, id, consts.TokEvent, tag}, payload, false))
}

func (s *Service) publishEvent(ev core.Event) {
	p := ev.Payload
	if p == nil {
		p = types.CardFault{Op: ev.Tag, Error: ev.Err, TSms: ev.TSms}
	}
	s.publishCardEvent(ev.Card, ev.Tag, p)
}

func (s *Service) publishState(level, status string, err error) {
	pl := types.AudioState{Level: level, Status: status, TSms: timex.NowMs()}
	if err != nil {
		pl.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(bus.Topic{consts.TokAudio, consts.TokState}, pl, true))
}

func (s *Service) replyErr(req *bus.Message, code errcode.Code) {
	if !req.CanReply() {
		return
	}
	if code == "" || code == errcode.OK {
		code = errcode.Error
	}
	s.conn.Reply(req, types.ErrorReply{OK: false, Error: string(code)}, false)
}

func (s *Service) logf(format string, a ...any) {
	s.log("[audiocard] " + fmtx.Sprintf(format, a...))
}
