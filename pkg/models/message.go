package models

import (
	"strings"
	"time"
)

// MessageKind identifies the payload carried by an OutboundMessage.
type MessageKind string

const (
	MessageKindText    MessageKind = "text"
	MessageKindImage   MessageKind = "image"
	MessageKindAudio   MessageKind = "audio"
	MessageKindVideo   MessageKind = "video"
	MessageKindPoll    MessageKind = "poll"
	MessageKindButtons MessageKind = "buttons"
)

const (
	// DefaultButtonsFooter is the footer attached to every buttons message.
	DefaultButtonsFooter = "Bot Automation"
	// AudioMimeType is the mime type announced for audio messages.
	AudioMimeType = "audio/mpeg"

	groupSuffix      = "@g.us"
	newsletterSuffix = "@newsletter"
	broadcastSuffix  = "@broadcast"
)

// OutboundMessage is a transport agnostic message handed to a MessageSink.
type OutboundMessage struct {
	Kind     MessageKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	MediaURL string      `json:"media_url,omitempty"`
	Caption  string      `json:"caption,omitempty"`
	MimeType string      `json:"mimetype,omitempty"`
	PTT      bool        `json:"ptt,omitempty"`
	Poll     *Poll       `json:"poll,omitempty"`
	Buttons  []Button    `json:"buttons,omitempty"`
	Footer   string      `json:"footer,omitempty"`
}

// Poll is a poll payload. SelectableCount is 0 for multi select polls and 1 otherwise.
type Poll struct {
	Name            string   `json:"name"`
	Values          []string `json:"values"`
	SelectableCount int      `json:"selectable_count"`
}

// Button is a quick reply button. Type is always 1 (reply).
type Button struct {
	ID          string `json:"id"`
	DisplayText string `json:"display_text"`
	Type        int    `json:"type"`
}

// TextMessage builds a plain text message.
func TextMessage(text string) OutboundMessage {
	return OutboundMessage{Kind: MessageKindText, Text: text}
}

// InboundImage is the downloaded content of an image message. Data travels
// base64 encoded in JSON.
type InboundImage struct {
	Data     []byte `json:"data"     validate:"required"`
	MimeType string `json:"mimetype" validate:"required"`
}

// InboundMessage is a message received from the WhatsApp gateway.
type InboundMessage struct {
	ID        string        `json:"id,omitempty"`
	JID       string        `json:"jid"                  validate:"required"`
	FromMe    bool          `json:"from_me"`
	Body      string        `json:"body"`
	HasMedia  bool          `json:"has_media"`
	MediaType string        `json:"media_type,omitempty" validate:"omitempty,oneof=image video audio document sticker"`
	Image     *InboundImage `json:"image,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`
}

// IsGroup reports whether the message was sent in a group chat.
func (m InboundMessage) IsGroup() bool {
	return strings.HasSuffix(m.JID, groupSuffix)
}

// IsBroadcast reports whether the message came from a newsletter or broadcast list.
func (m InboundMessage) IsBroadcast() bool {
	return strings.HasSuffix(m.JID, newsletterSuffix) || strings.HasSuffix(m.JID, broadcastSuffix)
}

// CarriesMedia reports whether the message is an image, video or audio message.
func (m InboundMessage) CarriesMedia() bool {
	if m.HasMedia {
		return true
	}

	switch m.MediaType {
	case "image", "video", "audio":
		return true
	default:
		return false
	}
}
