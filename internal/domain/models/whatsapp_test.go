package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWebhook = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"profile": {"name": "Aissatou"}, "wa_id": "224600"}],
        "messages": [
          {"from": "224600", "id": "wamid.1", "type": "text", "text": {"body": "  /plan broiler starter 1000  "}},
          {"from": "224600", "id": "wamid.2", "type": "interactive", "interactive": {"type": "button_reply", "button_reply": {"id": "/phases", "title": "Phases"}}},
          {"from": "224600", "id": "wamid.3", "type": "image"}
        ],
        "statuses": [{"id": "wamid.0", "status": "read"}]
      }
    }]
  }]
}`

func TestWebhookPayload(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(sampleWebhook), &payload))

	msgs := payload.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "/plan broiler starter 1000", msgs[0].Body())
	assert.Equal(t, "/phases", msgs[1].Body())
	assert.Empty(t, msgs[2].Body())

	assert.Equal(t, "Aissatou", payload.ContactName("224600"))
	assert.Empty(t, payload.ContactName("999"))
	assert.Empty(t, WebhookPayload{}.Messages())
}
