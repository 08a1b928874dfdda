package snapshot

import "errors"

var errShortSnapshot = errors.New("snapshot: truncated local snapshot buffer")
