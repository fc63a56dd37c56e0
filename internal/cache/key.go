package cache

import "fmt"

// DemoScope is the shared cache partition for all demo/mock users. Demo
// responses contain no real data, so callers in this scope may safely
// observe each other's entries.
const DemoScope = "demo"

// Key identifies a cache slot: who is asking (caller scope) and what shape
// of query they ran. Two callers with different scopes never share entries.
type Key struct {
	Scope string
	Limit int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s|limit=%d", k.Scope, k.Limit)
}

// BodyKey identifies a cached message body. Bodies are keyed per message,
// still partitioned by caller scope.
type BodyKey struct {
	Scope     string
	MessageID string
}

func (k BodyKey) String() string {
	return fmt.Sprintf("%s|msg=%s", k.Scope, k.MessageID)
}
