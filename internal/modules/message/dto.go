package message

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// WSEnvelope is the frame pushed to both participants over the socket.
type WSEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
