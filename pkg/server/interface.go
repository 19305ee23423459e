/*
Package server feeds msgpack-rpc traffic from the editor into the redraw and
GUI dispatchers.

The editor talks msgpack-rpc over a byte stream, usually the front-end's
stdin and stdout. Every message is a msgpack array whose first element is
its type:

	[0, msgid, method, params]   request
	[1, msgid, error, result]    response
	[2, method, params]          notification

Redraw batches arrive as "redraw" notifications. Each param is one update,
a method name followed by one argument tuple per call:

	[2, "redraw", [["cursor_goto", [0, 4]], ["put", ["h"], ["i"]]]]

The runtime plugin sends GUI commands as "Gui" notifications and GUI
requests as "Gui" requests, the sub-command first:

	[2, "Gui", ["Font", "Monospace 11"]]
	[0, 7, "Gui", ["Clipboard", "Get", "+"]]

Requests are answered in arrival order. A failed request carries its error
value in the response and a nil result.

Messages are processed serially on the goroutine that calls Serve, so
redraw calls reach the sink in wire order.
*/
package server

import (
	"context"

	"github.com/bastiangx/redrawd/pkg/value"
)

// msgpack-rpc message types.
const (
	typeRequest      = 0
	typeResponse     = 1
	typeNotification = 2
)

// Handler receives decoded messages. Errors returned by HandleRequest are
// sent back to the editor.
type Handler interface {
	HandleNotification(method string, params []value.Value)
	HandleRequest(ctx context.Context, method string, params []value.Value) (value.Value, error)
}
