package resolver

import "github.com/mna/scratchrt/lang/project"

// broadcastArg extracts the broadcast name a event_whenbroadcastreceived hat
// listens for. SB3 stores it as a field named BROADCAST_OPTION whose Name is
// the display name of the broadcast.
func broadcastArg(b *project.Block) string {
	if f, ok := b.Fields["BROADCAST_OPTION"]; ok {
		return f.Name
	}
	return ""
}

// keyArg extracts the raw (unnormalized) key name an event_whenkeypressed
// hat listens for, stored as a field named KEY_OPTION.
func keyArg(b *project.Block) string {
	if f, ok := b.Fields["KEY_OPTION"]; ok {
		return f.Name
	}
	return ""
}
