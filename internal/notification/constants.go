package notification

import "time"

// Channel buffer sizes
const (
	// BroadcastBufferSize is the size of the hub's broadcast channel
	BroadcastBufferSize = 256
	// ClientChannelBuffer is the size of register/unregister channels
	ClientChannelBuffer = 16
	// ClientEventBuffer is the per-client event channel size
	ClientEventBuffer = 32
)

// Stream timing
const (
	// KeepaliveInterval is how often keepalive pings are sent
	KeepaliveInterval = 30 * time.Second
)

// Event types on the stream
const (
	EventTypeNotification = "notification"
	EventTypeKeepalive    = "keepalive"
	EventTypeConnected    = "connected"
)

// RecentRingSize is how many notifications the service retains for
// late-connecting clients
const RecentRingSize = 50

// Log message constants
const (
	LogMsgClientConnected    = "Notification stream client connected"
	LogMsgClientDisconnected = "Notification stream client disconnected"
	LogMsgWriteError         = "Failed to write stream event"
)
