package models

import (
	"math"
	"time"
)

// Reserved variable names written by the engine and by nodes.
const (
	VarJID             = "_jid"
	VarMessage         = "_message"
	VarTimestamp       = "_timestamp"
	VarConditionResult = "_conditionResult"
	VarAIResponse      = "_aiResponse"
	VarHTTPResponse    = "_httpResponse"
	VarHTTPStatus      = "_httpStatus"
	VarHTTPValue       = "_httpValue"
)

// Variables is the mutable key/value map shared by every node of a single flow run.
type Variables map[string]any

// NewVariables seeds a run. Caller supplied values are copied first so the
// reserved _jid, _message and _timestamp keys always reflect the current message.
func NewVariables(initial map[string]any, jid, message string, now time.Time) Variables {
	vars := make(Variables, len(initial)+3)

	for key, value := range initial {
		vars[key] = value
	}

	vars[VarJID] = jid
	vars[VarMessage] = message
	vars[VarTimestamp] = now.UnixMilli()

	return vars
}

// JID returns the chat the run replies to.
func (v Variables) JID() string {
	jid, _ := v[VarJID].(string)

	return jid
}

// Message returns the raw inbound message body of the run.
func (v Variables) Message() string {
	message, _ := v[VarMessage].(string)

	return message
}

// Truthy reports whether key holds a truthy value.
func (v Variables) Truthy(key string) bool {
	return Truthy(v[key])
}

// Truthy applies loose truthiness: nil, false, zero numbers, NaN and the
// empty string are false, everything else is true.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}
