// Package audiocard is the machine layer for AD193x-on-McASP boards: it
// binds the codec to the host controller, resolves the system clock,
// installs the routing table and gates the clock around streams.
//
// Configuration arrives on config/audio; cards are controlled through
// audio/card/<id>/control/<verb>.
package audiocard

import (
	"context"

	"audiocard-go/bus"
	"audiocard-go/errcode"
	"audiocard-go/services/audiocard/internal/provider"
	"audiocard-go/services/audiocard/internal/provider/setups"
	"audiocard-go/services/audiocard/internal/service"
)

// Boards lists the board plans this build knows about.
func Boards() []string { return setups.Names() }

// Run builds the resources for board and serves until ctx is done.
func Run(ctx context.Context, conn *bus.Connection, board string) error {
	plan, ok := setups.Lookup(board)
	if !ok {
		return errcode.Wrap(errcode.ConfigMissing, "audiocard", "unknown board "+board, nil)
	}
	reg, err := provider.NewRegistry(plan)
	if err != nil {
		return err
	}
	defer reg.Close()

	service.New(conn, reg).Run(ctx)
	return nil
}
