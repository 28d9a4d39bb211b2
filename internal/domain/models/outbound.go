package models

// OutboundMessageRequest is a manual or scheduled text message to a farmer or operator.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required,max=4096"`
	PreviewURL bool   `json:"preview_url"`
}

// AutomationReply is a canned answer sent when a chat command cannot be served.
type AutomationReply struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Text renders the reply as a WhatsApp message body.
func (r AutomationReply) Text() string {
	return r.Title + "\n" + r.Message
}
