package models

// IncomingMessage is the body accepted by the chat endpoint.
type IncomingMessage struct {
	Message string `json:"message"`
}

// ChatReply is the body returned by the chat endpoint.
type ChatReply struct {
	Reply string `json:"reply"`
}

// FallbackReply is returned to the client whenever the chat relay fails.
const FallbackReply = "Sorry, something went wrong."
