package protocol // wire shapes of the chat history endpoint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ChatPath is the history endpoint path relative to the base URL
const ChatPath = "/chat"

// PageParam is the query parameter carrying the page index
const PageParam = "page"

// ErrMissingChats is returned when a page body has no "chats" array
var ErrMissingChats = errors.New(`response has no "chats" array`)

// ChatPage is one page of history, newest record first
type ChatPage struct {
	Chats []ChatRecord `json:"chats"`
}

// ChatRecord is a raw chat entry as served by the endpoint.
// Unknown fields (sender details, attachments) are ignored.
type ChatRecord struct {
	ID      RecordID `json:"id,omitempty"`
	Message string   `json:"message"`
	Time    string   `json:"time"`
	IsUser  bool     `json:"isUser"`
}

// RecordID accepts either a JSON string or a JSON number
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// PageQuery renders the query string for a page index
func PageQuery(page int) string {
	return PageParam + "=" + strconv.Itoa(page)
}

// EncodePage encodes a page of records
func EncodePage(page ChatPage) ([]byte, error) {
	if page.Chats == nil {
		page.Chats = []ChatRecord{}
	}
	return json.Marshal(page)
}

// DecodePage decodes a page body, rejecting bodies without a "chats" array
func DecodePage(data []byte) (*ChatPage, error) {
	var raw struct {
		Chats *[]ChatRecord `json:"chats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Chats == nil {
		return nil, ErrMissingChats
	}
	return &ChatPage{Chats: *raw.Chats}, nil
}

// ErrorPayload is the body of a rejected request
type ErrorPayload struct {
	Message string `json:"message"`
}
