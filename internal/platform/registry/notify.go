package registry

import "context"

// ClientIDHeader lets a browser tab receive the toasts of its own commands.
const ClientIDHeader = "X-Client-ID"

// Toast is the notification emitted for a command result.
type Toast struct {
	Topic      string `json:"topic"`
	Collection string `json:"collection"`
	RecordID   string `json:"record_id,omitempty"`
	Outcome    string `json:"outcome"`
	Level      string `json:"level"`
	Message    string `json:"message"`
	Redirect   string `json:"redirect,omitempty"`
}

// Notifier delivers toasts to connected clients.
type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// ClientTopic is the topic a tab identified by clientID subscribes to.
func ClientTopic(clientID string) string {
	return "client:" + clientID
}

// CollectionTopic is the topic every result on a collection is published to
// when the request did not identify its tab.
func CollectionTopic(module, collection string) string {
	return module + "/" + collection
}
