package config

import (
	"context"
	"os"

	"audiocard-go/bus"
	"audiocard-go/errcode"
	"audiocard-go/types"
	"audiocard-go/x/fmtx"

	"gopkg.in/yaml.v3"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxBoardKey  = "board" // context key used for the board name
	keyAudio     = "audio"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	Path string // when set, read this file instead of the embedded table
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Decode parses a YAML document into one value per top-level key. The
// "audio" section is decoded into types.AudioConfig; other sections are
// passed through as generic values.
func Decode(raw []byte) (map[string]any, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errcode.Wrap(errcode.InvalidPayload, "config", "yaml", err)
	}
	if doc == nil {
		return nil, errcode.Wrap(errcode.ConfigMissing, "config", "empty document", nil)
	}
	out := make(map[string]any, len(doc))
	for k, n := range doc {
		if k == keyAudio {
			var ac types.AudioConfig
			if err := n.Decode(&ac); err != nil {
				return nil, errcode.Wrap(errcode.InvalidPayload, "config", "audio section", err)
			}
			out[k] = ac
			continue
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errcode.Wrap(errcode.InvalidPayload, "config", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (s *ConfigService) load(ctx context.Context) ([]byte, error) {
	if s.Path != "" {
		raw, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, errcode.Wrap(errcode.ConfigMissing, "config", s.Path, err)
		}
		return raw, nil
	}
	board, _ := ctx.Value(CtxBoardKey).(string)
	if board == "" {
		return nil, errcode.Wrap(errcode.ConfigMissing, "config", "missing board name in context", nil)
	}
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return nil, errcode.Wrap(errcode.ConfigMissing, "config", "no embedded config for board: "+board, nil)
	}
	return raw, nil
}

// Publish reads the configuration and publishes each section retained
// under config/<key>.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) error {
	raw, err := s.load(ctx)
	if err != nil {
		return err
	}
	m, err := Decode(raw)
	if err != nil {
		return err
	}
	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.Publish(ctx, conn); err != nil {
			println("[config] " + fmtx.Sprintf("%v", err))
		}
	}()
}
