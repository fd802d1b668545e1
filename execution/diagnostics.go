package execution

import (
	"context"

	"github.com/rs/zerolog"
)

// reportRejected tells the logger attached to ctx, if any, that a node
// dropped a row.
func reportRejected(ctx context.Context, node string, row *Row, reason string) {
	event := zerolog.Ctx(ctx).Trace()
	if !event.Enabled() {
		return
	}
	event.
		Str("node", node).
		Stringer("row", row).
		Str("reason", reason).
		Msg("row rejected")
}
